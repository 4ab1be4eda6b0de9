// Package localstore is the device-local fallback database. Every collection
// lives under one key as a JSON array; each operation reads the whole
// collection, changes it in memory and writes it back.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/security"
)

const (
	KeyCampaigns       = "campaigns"
	KeyTones           = "tones"
	KeyUsers           = "users"
	KeyUser            = "user"
	KeyIsAuthenticated = "isAuthenticated"
)

type Store struct {
	kv           Storage
	latency      time.Duration
	now          func() time.Time
	demoUsername string
	demoPassword string

	// serialises read-modify-write cycles on the collections
	mu sync.Mutex
}

type Option func(*Store)

// WithLatency delays every collection operation, keeping the local path as
// slow as a round trip would be.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithDemoUser(username, password string) Option {
	return func(s *Store) {
		s.demoUsername = username
		s.demoPassword = password
	}
}

func New(kv Storage, opts ...Option) *Store {
	s := &Store{
		kv:           kv,
		now:          time.Now,
		demoUsername: model.DemoUsername,
		demoPassword: model.DemoPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitializeData seeds the default collections that are missing. Safe to call
// any number of times.
func (s *Store) InitializeData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *Store) initializeLocked(ctx context.Context) error {
	if _, ok, err := s.kv.GetItem(ctx, KeyCampaigns); err != nil {
		return err
	} else if !ok {
		if err := s.writeJSON(ctx, KeyCampaigns, model.DefaultCampaigns()); err != nil {
			return err
		}
	}

	if _, ok, err := s.kv.GetItem(ctx, KeyTones); err != nil {
		return err
	} else if !ok {
		if err := s.writeJSON(ctx, KeyTones, model.DefaultTones()); err != nil {
			return err
		}
	}

	if _, ok, err := s.kv.GetItem(ctx, KeyUsers); err != nil {
		return err
	} else if !ok {
		hash, err := security.HashPassword(s.demoPassword)
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}
		users := []model.User{{ID: 1, Username: s.demoUsername, PasswordHash: hash}}
		if err := s.writeJSON(ctx, KeyUsers, users); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) pause(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Store) readJSON(ctx context.Context, key string, out any) error {
	raw, ok, err := s.kv.GetItem(ctx, key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		raw = "[]"
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("corrupt local %q: %w", key, err)
	}
	return nil
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.kv.SetItem(ctx, key, string(b))
}

// begin waits out the simulated latency, takes the lock and makes sure the
// defaults exist. The caller must call the returned unlock.
func (s *Store) begin(ctx context.Context) (func(), error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if err := s.initializeLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return s.mu.Unlock, nil
}

func (s *Store) loadCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	if err := s.readJSON(ctx, KeyCampaigns, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.loadCampaigns(ctx)
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	campaigns, err := s.loadCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		if looseEqual(campaigns[i].ID, id) {
			c := campaigns[i]
			return &c, nil
		}
	}
	return nil, appErrors.NewCampaignNotFound(id)
}

// CreateCampaign assigns the next numeric id and the creation time. Any id on
// data is ignored.
func (s *Store) CreateCampaign(ctx context.Context, data model.Campaign) (*model.Campaign, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	campaigns, err := s.loadCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	maxID := 0
	for _, c := range campaigns {
		if n := leadingInt(c.ID); n > maxID {
			maxID = n
		}
	}

	c := data
	c.ID = strconv.Itoa(maxID + 1)
	c.CreatedAt = s.now().UTC()
	if c.Status == "" {
		c.Status = model.StatusDraft
	}

	campaigns = append(campaigns, c)
	if err := s.writeJSON(ctx, KeyCampaigns, campaigns); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, id string, data model.Campaign) (*model.Campaign, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	campaigns, err := s.loadCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range campaigns {
		if looseEqual(campaigns[i].ID, id) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, appErrors.NewCampaignNotFound(id)
	}

	campaigns[idx].Merge(data)
	if err := s.writeJSON(ctx, KeyCampaigns, campaigns); err != nil {
		return nil, err
	}
	c := campaigns[idx]
	return &c, nil
}

// DeleteCampaign drops every campaign whose id loosely equals id. Deleting a
// missing id is not an error.
func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	unlock, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	campaigns, err := s.loadCampaigns(ctx)
	if err != nil {
		return err
	}

	kept := campaigns[:0]
	for _, c := range campaigns {
		if !looseEqual(c.ID, id) {
			kept = append(kept, c)
		}
	}
	return s.writeJSON(ctx, KeyCampaigns, kept)
}

func (s *Store) ListTones(ctx context.Context) ([]model.Tone, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var tones []model.Tone
	if err := s.readJSON(ctx, KeyTones, &tones); err != nil {
		return nil, err
	}
	return tones, nil
}

// looseEqual matches a stored id against an argument. Text matches text
// exactly. An argument written as a plain integer also matches a stored id
// with the same numeric value, so "2" finds a stored "02" but "02" does not
// find a stored "2".
func looseEqual(stored, arg string) bool {
	if stored == arg {
		return true
	}
	n, err := strconv.Atoi(arg)
	if err != nil || strconv.Itoa(n) != arg {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(stored), 64)
	return err == nil && v == float64(n)
}

// leadingInt reads the integer prefix of s, 0 when there is none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
