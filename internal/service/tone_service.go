package service

import (
	"context"

	"github.com/unclebandit/campaign-studio/internal/model"
)

type ToneStore interface {
	ListTones(ctx context.Context) ([]model.Tone, error)
}

type ToneService struct {
	Remote  ToneStore
	Local   ToneStore
	Offline bool
}

func (s *ToneService) List(ctx context.Context) ([]model.Tone, error) {
	tones, _, err := withFallback(ctx, "list_tones", s.Offline || s.Remote == nil,
		func(ctx context.Context) ([]model.Tone, error) { return s.Remote.ListTones(ctx) },
		s.Local.ListTones,
	)
	return tones, err
}
