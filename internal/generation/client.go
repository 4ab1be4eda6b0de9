// Package generation calls an OpenAI-compatible API for campaign captions and
// images. Failures come back inside result values, never as errors.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/metrics"
	"github.com/unclebandit/campaign-studio/internal/model"
)

const (
	CaptionModel = "gpt-4o-mini"
	ImageModel   = "dall-e-3"

	captionMaxTokens   = 500
	captionTemperature = 0.7
	imageSize          = "1024x1024"
	imageQuality       = "standard"

	msgCaptionFailed = "Failed to generate caption"
	msgImageFailed   = "Failed to generate image"
	msgEnhanceFailed = "Failed to enhance content"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type CaptionResult struct {
	Success bool   `json:"success"`
	Caption string `json:"caption,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ImageResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Content struct {
	Caption string `json:"caption"`
	Image   string `json:"image"`
}

type ContentResult struct {
	Success bool     `json:"success"`
	Data    *Content `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type EnhanceResult struct {
	Success  bool   `json:"success"`
	Enhanced string `json:"enhanced,omitempty"`
	Error    string `json:"error,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, service, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &appErrors.ExternalAPIError{Service: service, Message: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return &appErrors.ExternalAPIError{Service: service, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &appErrors.ExternalAPIError{Service: service, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		var apiErr apiErrorBody
		_ = json.Unmarshal(raw, &apiErr)
		return &appErrors.ExternalAPIError{Service: service, StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &appErrors.ExternalAPIError{Service: service, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// userMessage picks the upstream message when the API sent one.
func userMessage(err error, fallback string) string {
	var apiErr *appErrors.ExternalAPIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (c *Client) complete(ctx context.Context, service, system, prompt string) (string, error) {
	req := chatRequest{
		Model: CaptionModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   captionMaxTokens,
		Temperature: captionTemperature,
	}
	var resp chatResponse
	if err := c.post(ctx, service, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &appErrors.ExternalAPIError{Service: service, Message: "no choices returned"}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) GenerateCaption(ctx context.Context, campaign model.Campaign) CaptionResult {
	caption, err := c.complete(ctx, "caption", captionSystemPrompt, CaptionPrompt(campaign))
	if err != nil {
		metrics.GenerationCallsTotal.WithLabelValues("caption", "error").Inc()
		logx.L().Errorw("generate_caption_error", "brand", campaign.Brand, "error", err)
		return CaptionResult{Error: userMessage(err, msgCaptionFailed)}
	}
	metrics.GenerationCallsTotal.WithLabelValues("caption", "ok").Inc()
	return CaptionResult{Success: true, Caption: caption}
}

func (c *Client) GenerateImage(ctx context.Context, campaign model.Campaign) ImageResult {
	req := imageRequest{
		Model:   ImageModel,
		Prompt:  ImagePrompt(campaign),
		Size:    imageSize,
		Quality: imageQuality,
		N:       1,
	}
	var resp imageResponse
	err := c.post(ctx, "image", "/images/generations", req, &resp)
	if err == nil && len(resp.Data) == 0 {
		err = &appErrors.ExternalAPIError{Service: "image", Message: "no image returned"}
	}
	if err != nil {
		metrics.GenerationCallsTotal.WithLabelValues("image", "error").Inc()
		logx.L().Errorw("generate_image_error", "brand", campaign.Brand, "error", err)
		return ImageResult{Error: userMessage(err, msgImageFailed)}
	}
	metrics.GenerationCallsTotal.WithLabelValues("image", "ok").Inc()
	return ImageResult{Success: true, ImageURL: resp.Data[0].URL}
}

// GenerateContent runs caption and image generation in parallel. Both must
// succeed; on failure the caption error wins over the image error.
func (c *Client) GenerateContent(ctx context.Context, campaign model.Campaign) ContentResult {
	var (
		caption CaptionResult
		image   ImageResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		caption = c.GenerateCaption(gctx, campaign)
		return nil
	})
	g.Go(func() error {
		image = c.GenerateImage(gctx, campaign)
		return nil
	})
	_ = g.Wait()

	if !caption.Success || !image.Success {
		msg := caption.Error
		if msg == "" {
			msg = image.Error
		}
		return ContentResult{Error: msg}
	}
	return ContentResult{Success: true, Data: &Content{Caption: caption.Caption, Image: image.ImageURL}}
}

func (c *Client) EnhanceCaption(ctx context.Context, caption string) EnhanceResult {
	enhanced, err := c.complete(ctx, "enhance", enhanceSystemPrompt, EnhancePrompt(caption))
	if err != nil {
		metrics.GenerationCallsTotal.WithLabelValues("enhance", "error").Inc()
		logx.L().Errorw("enhance_caption_error", "error", err)
		return EnhanceResult{Error: userMessage(err, msgEnhanceFailed)}
	}
	metrics.GenerationCallsTotal.WithLabelValues("enhance", "ok").Inc()
	return EnhanceResult{Success: true, Enhanced: enhanced}
}
