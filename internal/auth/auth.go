// Package auth holds the manager app's session state. The holder is the
// single writer; request handlers read a snapshot from their context.
package auth

import (
	"context"
	"sync"

	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/model"
)

const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgAuthFailed         = "Authentication failed. Please try again."
)

// SessionStore persists the session between process runs.
type SessionStore interface {
	LoadSession(ctx context.Context) (model.Session, error)
	SaveSession(ctx context.Context, user model.SessionUser) error
	ClearSession(ctx context.Context) error
}

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.SessionUser, error)
}

type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Holder struct {
	store SessionStore
	users Authenticator

	mu      sync.RWMutex
	session model.Session
	lastErr string
}

func NewHolder(store SessionStore, users Authenticator) *Holder {
	return &Holder{store: store, users: users}
}

// InitializeAuth restores a persisted session. It only ever moves the holder
// from anonymous to authenticated, so calling it on every request is safe.
func (h *Holder) InitializeAuth(ctx context.Context) error {
	stored, err := h.store.LoadSession(ctx)
	if err != nil {
		return err
	}
	if !stored.IsLoggedIn() {
		return nil
	}

	h.mu.Lock()
	h.session = stored
	h.mu.Unlock()
	return nil
}

func (h *Holder) Login(ctx context.Context, username, password string) LoginResult {
	h.mu.Lock()
	h.lastErr = ""
	h.mu.Unlock()

	user, err := h.users.Authenticate(ctx, username, password)
	if err != nil {
		logx.L().Errorw("login_error", "username", username, "error", err)
		return h.fail(MsgAuthFailed)
	}
	if user == nil {
		logx.L().Infow("login_failed", "username", username)
		return h.fail(MsgInvalidCredentials)
	}

	if err := h.store.SaveSession(ctx, *user); err != nil {
		logx.L().Errorw("session_persist_error", "username", username, "error", err)
		return h.fail(MsgAuthFailed)
	}

	h.mu.Lock()
	h.session = model.Session{User: user, Authenticated: true}
	h.mu.Unlock()

	logx.L().Infow("login_succeeded", "username", user.Username, "user_id", user.ID)
	return LoginResult{Success: true}
}

func (h *Holder) fail(msg string) LoginResult {
	h.mu.Lock()
	h.lastErr = msg
	h.mu.Unlock()
	return LoginResult{Success: false, Error: msg}
}

func (h *Holder) Logout(ctx context.Context) error {
	h.mu.Lock()
	h.session = model.Session{}
	h.lastErr = ""
	h.mu.Unlock()
	return h.store.ClearSession(ctx)
}

func (h *Holder) ClearError() {
	h.mu.Lock()
	h.lastErr = ""
	h.mu.Unlock()
}

func (h *Holder) Error() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr
}

// Session returns a copy that callers may keep.
func (h *Holder) Session() model.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := h.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (h *Holder) IsLoggedIn() bool {
	return h.Session().IsLoggedIn()
}

type ctxKey struct{}

func WithSession(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the anonymous session when none was attached.
func SessionFromContext(ctx context.Context) model.Session {
	s, _ := ctx.Value(ctxKey{}).(model.Session)
	return s
}
