// internal/service/campaign_service.go
package service

import (
	"context"
	"strings"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/localstore"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/metrics"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/remote"
)

// CampaignStore is implemented by both the remote client and the local store.
type CampaignStore interface {
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*model.Campaign, error)
	CreateCampaign(ctx context.Context, data model.Campaign) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, data model.Campaign) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
}

var (
	_ CampaignStore = (*remote.Client)(nil)
	_ CampaignStore = (*localstore.Store)(nil)
)

// CampaignService tries Remote first and falls back to Local when the remote
// call fails. With Offline set, or no Remote, only Local is used.
type CampaignService struct {
	Remote  CampaignStore
	Local   CampaignStore
	Offline bool
}

// withFallback runs remoteFn unless offline, and localFn when the remote path
// is skipped or fails in transport. A remote NotFoundError is an answer, not a
// failure, and is returned as is. The bool reports whether the remote path
// served it.
func withFallback[T any](ctx context.Context, op string, offline bool, remoteFn, localFn func(context.Context) (T, error)) (T, bool, error) {
	if !offline && remoteFn != nil {
		v, err := remoteFn(ctx)
		if err == nil {
			return v, true, nil
		}
		if appErrors.IsNotFound(err) {
			return v, true, err
		}
		metrics.FallbacksTotal.WithLabelValues(op).Inc()
		logx.L().Warnw("remote_fallback", "op", op, "error", err)
	}
	v, err := localFn(ctx)
	return v, false, err
}

func (s *CampaignService) remoteOff() bool {
	return s.Offline || s.Remote == nil
}

func (s *CampaignService) List(ctx context.Context) ([]model.Campaign, error) {
	campaigns, _, err := withFallback(ctx, "list_campaigns", s.remoteOff(),
		func(ctx context.Context) ([]model.Campaign, error) { return s.Remote.ListCampaigns(ctx) },
		s.Local.ListCampaigns,
	)
	return campaigns, err
}

func (s *CampaignService) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	c, _, err := withFallback(ctx, "get_campaign", s.remoteOff(),
		func(ctx context.Context) (*model.Campaign, error) { return s.Remote.GetCampaign(ctx, id) },
		func(ctx context.Context) (*model.Campaign, error) { return s.Local.GetCampaign(ctx, id) },
	)
	if err != nil {
		logx.L().Infow("get_campaign_error", "id", id, "error", err)
	}
	return c, err
}

// Create never keeps a caller supplied id; the store that persists the record
// assigns it.
func (s *CampaignService) Create(ctx context.Context, data model.Campaign) (*model.Campaign, model.Outcome, error) {
	data.ID = ""
	if err := data.Validate(); err != nil {
		return nil, model.Outcome{}, err
	}
	c, remoteOK, err := withFallback(ctx, "create_campaign", s.remoteOff(),
		func(ctx context.Context) (*model.Campaign, error) { return s.Remote.CreateCampaign(ctx, data) },
		func(ctx context.Context) (*model.Campaign, error) { return s.Local.CreateCampaign(ctx, data) },
	)
	if err != nil {
		return nil, model.Outcome{}, err
	}
	return c, model.Outcome{PersistedRemotely: remoteOK}, nil
}

func (s *CampaignService) Update(ctx context.Context, id string, data model.Campaign) (*model.Campaign, model.Outcome, error) {
	if err := ValidateCampaignID(id); err != nil {
		return nil, model.Outcome{}, err
	}
	if err := data.Validate(); err != nil {
		return nil, model.Outcome{}, err
	}
	c, remoteOK, err := withFallback(ctx, "update_campaign", s.remoteOff(),
		func(ctx context.Context) (*model.Campaign, error) { return s.Remote.UpdateCampaign(ctx, id, data) },
		func(ctx context.Context) (*model.Campaign, error) { return s.Local.UpdateCampaign(ctx, id, data) },
	)
	if err != nil {
		return nil, model.Outcome{}, err
	}
	return c, model.Outcome{PersistedRemotely: remoteOK}, nil
}

func (s *CampaignService) Delete(ctx context.Context, id string) (model.Outcome, error) {
	_, remoteOK, err := withFallback(ctx, "delete_campaign", s.remoteOff(),
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.Remote.DeleteCampaign(ctx, id) },
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.Local.DeleteCampaign(ctx, id) },
	)
	if err != nil {
		return model.Outcome{}, err
	}
	return model.Outcome{PersistedRemotely: remoteOK}, nil
}

// ValidateCampaignID rejects identifiers that cannot address a single record.
func ValidateCampaignID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &appErrors.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.ContainsAny(id, "/?#") {
		return &appErrors.ValidationError{Field: "id", Reason: "must not contain '/', '?' or '#'"}
	}
	return nil
}
