package model

import (
	"testing"
	"time"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
)

func TestCampaignValidate(t *testing.T) {
	cases := []struct {
		name  string
		c     Campaign
		field string
	}{
		{"empty is fine", Campaign{}, ""},
		{"known status", Campaign{Status: StatusScheduled, Schedule: "2023-07-15T10:00:00"}, ""},
		{"minute precision", Campaign{Schedule: "2023-07-15T10:00"}, ""},
		{"bogus status", Campaign{Status: "bogus"}, "status"},
		{"status case matters", Campaign{Status: "Posted"}, "status"},
		{"bad schedule", Campaign{Schedule: "next tuesday"}, "schedule"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.c.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ve, ok := err.(*appErrors.ValidationError)
			if !ok || ve.Field != tc.field {
				t.Fatalf("expected ValidationError on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestParseSchedule(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)

	got, ok, err := ParseSchedule("2023-06-20T09:00:00", loc)
	if err != nil || !ok {
		t.Fatalf("parse: ok=%v err=%v", ok, err)
	}
	if want := time.Date(2023, 6, 20, 6, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("wall time not read in loc: got %v want %v", got.UTC(), want)
	}

	if _, ok, err := ParseSchedule("  ", loc); ok || err != nil {
		t.Errorf("blank schedule: ok=%v err=%v", ok, err)
	}
	if _, _, err := ParseSchedule("2023-13-01T00:00", loc); err == nil {
		t.Error("month 13 accepted")
	}
}

func TestMergeKeepsIdentity(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Campaign{ID: "1", Brand: "EcoWear", Caption: "old", CreatedAt: created}
	c.Merge(Campaign{ID: "9", Caption: "new", CreatedAt: time.Now()})

	if c.ID != "1" || !c.CreatedAt.Equal(created) {
		t.Errorf("identity changed: %+v", c)
	}
	if c.Caption != "new" || c.Brand != "EcoWear" {
		t.Errorf("merge result %+v", c)
	}
}
