package service

import (
	"context"

	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/security"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

type UserService struct {
	Remote  UserStore
	Local   UserStore
	Offline bool
}

// Authenticate returns the matching user with the password hash stripped, or
// nil when the credentials do not match. An error means the lookup itself
// failed on every path.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.SessionUser, error) {
	users, _, err := withFallback(ctx, "list_users", s.Offline || s.Remote == nil,
		func(ctx context.Context) ([]model.User, error) { return s.Remote.ListUsers(ctx) },
		s.Local.ListUsers,
	)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		if security.ComparePasswords(u.PasswordHash, password) {
			return &model.SessionUser{ID: u.ID, Username: u.Username}, nil
		}
		if security.IsHashMalformed(u.PasswordHash) {
			logx.L().Errorw("stored_hash_malformed", "username", u.Username, "user_id", u.ID)
		}
		return nil, nil
	}
	return nil, nil
}
