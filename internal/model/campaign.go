// internal/model/campaign.go
package model

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
)

const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPosted    = "posted"
)

type Campaign struct {
	ID           string     `db:"id" json:"id"`
	Brand        string     `db:"brand" json:"brand"`
	CampaignName string     `db:"campaign_name" json:"campaignName"`
	Description  string     `db:"description" json:"description"`
	Schedule     string     `db:"schedule" json:"schedule"`
	Target       string     `db:"target" json:"target"`
	Topic        string     `db:"topic" json:"topic"`
	Tone         string     `db:"tone" json:"tone"`
	Logo         string     `db:"logo" json:"logo"`
	Caption      string     `db:"caption" json:"caption"`
	Image        string     `db:"image" json:"image"`
	Status       string     `db:"status" json:"status"`
	PostedAt     *time.Time `db:"posted_at" json:"postedAt"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// Merge copies every non-zero field of patch onto c. ID and CreatedAt are
// owned by the store and never change.
func (c *Campaign) Merge(patch Campaign) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Brand, patch.Brand)
	set(&c.CampaignName, patch.CampaignName)
	set(&c.Description, patch.Description)
	set(&c.Schedule, patch.Schedule)
	set(&c.Target, patch.Target)
	set(&c.Topic, patch.Topic)
	set(&c.Tone, patch.Tone)
	set(&c.Logo, patch.Logo)
	set(&c.Caption, patch.Caption)
	set(&c.Image, patch.Image)
	set(&c.Status, patch.Status)
	if patch.PostedAt != nil {
		t := *patch.PostedAt
		c.PostedAt = &t
	}
}

// ScheduleLayouts are the accepted forms of Campaign.Schedule, most specific
// first. The first two are what a datetime-local input produces.
var ScheduleLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseSchedule reads a schedule entered as local wall time in loc. An empty
// schedule reports ok=false with no error.
func ParseSchedule(s string, loc *time.Location) (t time.Time, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range ScheduleLayouts {
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognised schedule %q", s)
}

func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusScheduled, StatusPosted:
		return true
	}
	return false
}

// Validate checks the fields a write may set. Empty fields are left to the
// store's defaults.
func (c Campaign) Validate() error {
	if c.Status != "" && !ValidStatus(c.Status) {
		return &appErrors.ValidationError{Field: "status", Reason: fmt.Sprintf("must be one of %s, %s, %s", StatusDraft, StatusScheduled, StatusPosted)}
	}
	if _, _, err := ParseSchedule(c.Schedule, time.UTC); err != nil {
		return &appErrors.ValidationError{Field: "schedule", Reason: "must look like 2006-01-02T15:04"}
	}
	return nil
}

// Outcome tells a caller where a write landed.
type Outcome struct {
	PersistedRemotely bool `json:"persistedRemotely"`
}
