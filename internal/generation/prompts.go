// internal/generation/prompts.go
package generation

import (
	"strings"

	"github.com/unclebandit/campaign-studio/internal/model"
)

const captionSystemPrompt = "You write Instagram captions for brands. Match the requested tone and brand voice and aim for engagement."

const enhanceSystemPrompt = "You edit social media captions. Keep the original tone and message."

const captionTemplate = `Write an Instagram caption.

Brand: {brand}
Campaign: {campaign}
Description: {description}
Audience: {target}
Topic: {topic}
Tone: {tone}

Use a {tone} voice, 2-3 sentences, a few emojis, a call to action and 5-8 hashtags at the end.
Reply with the caption only.`

const imageTemplate = `Square 1024x1024 Instagram image for {brand}, campaign "{campaign}".
Topic: {topic}. {description}
Style: {style}. {tone} mood, clean composition, no text overlay.`

const enhanceTemplate = `Improve this Instagram caption without changing its tone or message:

"{caption}"

Tighten the call to action, add fitting emojis and hashtags if missing.
Reply with the caption only.`

var visualStyles = map[string]string{
	"friendly":     "warm, bright colors, welcoming people",
	"casual":       "relaxed, natural light, everyday settings",
	"modern":       "sleek, minimalist, clean lines",
	"professional": "polished, corporate, high quality",
	"humorous":     "playful, colorful, whimsical",
}

// RenderTemplate replaces every {key} in template with data[key].
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

func campaignFields(c model.Campaign) map[string]string {
	return map[string]string{
		"brand":       c.Brand,
		"campaign":    c.CampaignName,
		"description": c.Description,
		"target":      c.Target,
		"topic":       c.Topic,
		"tone":        c.Tone,
	}
}

func CaptionPrompt(c model.Campaign) string {
	return RenderTemplate(captionTemplate, campaignFields(c))
}

func ImagePrompt(c model.Campaign) string {
	fields := campaignFields(c)
	style, ok := visualStyles[c.Tone]
	if !ok {
		style = "professional, high quality"
	}
	fields["style"] = style
	return RenderTemplate(imageTemplate, fields)
}

func EnhancePrompt(caption string) string {
	return RenderTemplate(enhanceTemplate, map[string]string{"caption": caption})
}
