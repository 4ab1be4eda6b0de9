package localstore

import (
	"context"
	"encoding/json"

	"github.com/unclebandit/campaign-studio/internal/model"
)

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var users []model.User
	if err := s.readJSON(ctx, KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// LoadSession rebuilds the persisted session. Anything missing or unreadable
// yields the anonymous session.
func (s *Store) LoadSession(ctx context.Context) (model.Session, error) {
	flag, ok, err := s.kv.GetItem(ctx, KeyIsAuthenticated)
	if err != nil {
		return model.Session{}, err
	}
	if !ok || flag != "true" {
		return model.Session{}, nil
	}

	raw, ok, err := s.kv.GetItem(ctx, KeyUser)
	if err != nil {
		return model.Session{}, err
	}
	if !ok || raw == "" {
		return model.Session{}, nil
	}

	var user model.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Username == "" {
		return model.Session{}, nil
	}
	return model.Session{User: &user, Authenticated: true}, nil
}

func (s *Store) SaveSession(ctx context.Context, user model.SessionUser) error {
	if err := s.writeJSON(ctx, KeyUser, user); err != nil {
		return err
	}
	return s.kv.SetItem(ctx, KeyIsAuthenticated, "true")
}

func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.RemoveItem(ctx, KeyUser); err != nil {
		return err
	}
	return s.kv.RemoveItem(ctx, KeyIsAuthenticated)
}
