// internal/model/defaults.go
package model

import "time"

const (
	DemoUsername = "administrator1x"
	DemoPassword = "1xpassword"
)

const placeholderImage = "/api/placeholder/1024/1024"

func timePtr(t time.Time) *time.Time { return &t }

// DefaultCampaigns is the demo dataset seeded into empty stores.
func DefaultCampaigns() []Campaign {
	return []Campaign{
		{
			ID:           "1",
			Brand:        "EcoWear",
			CampaignName: "Summer Collection Launch",
			Description:  "Introducing our sustainable summer collection",
			Schedule:     "2023-06-20T09:00:00",
			Target:       "Young adults interested in sustainable fashion",
			Topic:        "Product Launch",
			Tone:         "casual",
			Logo:         "/assets/logos/ecowear.png",
			Caption:      "Summer just got eco-friendly! 🌞♻️ Introducing our new summer collection made from 100% recycled materials. Be cool while keeping the planet cool too. #EcoWear #SustainableFashion",
			Image:        placeholderImage,
			Status:       StatusPosted,
			PostedAt:     timePtr(time.Date(2023, 6, 20, 9, 5, 23, 0, time.UTC)),
			CreatedAt:    time.Date(2023, 6, 20, 8, 55, 0, 0, time.UTC),
		},
		{
			ID:           "2",
			Brand:        "TechHub",
			CampaignName: "Annual Developer Conference",
			Description:  "Promoting our annual conference for developers",
			Schedule:     "2023-07-15T10:00:00",
			Target:       "Software developers and tech enthusiasts",
			Topic:        "Event Promotion",
			Tone:         "professional",
			Logo:         "/assets/logos/techhub.png",
			Caption:      "Save the date: TechHub Developer Conference 2023 is coming! Join us for two days of cutting-edge workshops, inspiring keynotes, and networking opportunities. Early bird tickets available now. #TechHubConf #DevCon2023",
			Image:        placeholderImage,
			Status:       StatusScheduled,
			CreatedAt:    time.Date(2023, 7, 14, 15, 30, 0, 0, time.UTC),
		},
		{
			ID:           "3",
			Brand:        "FitLife",
			CampaignName: "New Protein Shake",
			Description:  "Launching our new protein shake flavors",
			Schedule:     "2023-06-10T08:30:00",
			Target:       "Fitness enthusiasts and gym-goers",
			Topic:        "Product Launch",
			Tone:         "friendly",
			Logo:         "/assets/logos/fitlife.png",
			Caption:      "Fuel your workout with our NEW protein shake flavors! 💪 Now available in Tropical Mango and Chocolate Mint. 20g of protein, no added sugar, and tastes amazing! Which flavor are you trying first? #FitLife #ProteinShake",
			Image:        placeholderImage,
			Status:       StatusPosted,
			PostedAt:     timePtr(time.Date(2023, 6, 10, 8, 35, 12, 0, time.UTC)),
			CreatedAt:    time.Date(2023, 6, 10, 8, 25, 0, 0, time.UTC),
		},
	}
}

func DefaultTones() []Tone {
	return []Tone{
		{ID: "friendly", Name: "Friendly", Description: "Warm and approachable"},
		{ID: "casual", Name: "Casual", Description: "Relaxed and informal"},
		{ID: "modern", Name: "Modern", Description: "Contemporary and innovative"},
		{ID: "professional", Name: "Professional", Description: "Formal and business-like"},
		{ID: "humorous", Name: "Humorous", Description: "Funny and entertaining"},
	}
}
