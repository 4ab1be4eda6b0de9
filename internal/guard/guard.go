package guard

import (
	"context"
	"net/http"

	"github.com/unclebandit/campaign-studio/internal/auth"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/model"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type Route struct {
	Path          string
	Redirect      string
	RequiresAuth  bool
	RequiresGuest bool
}

// Routes is the manager app's page table.
var Routes = []Route{
	{Path: "/", Redirect: DashboardPath},
	{Path: LoginPath, RequiresGuest: true},
	{Path: DashboardPath, RequiresAuth: true},
	{Path: "/create", RequiresAuth: true},
	{Path: "/campaign/{id}", RequiresAuth: true},
}

// Lookup finds a route by its pattern.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

type Decision struct {
	Allow    bool
	Redirect string
}

func Decide(route Route, session model.Session) Decision {
	switch {
	case route.RequiresAuth && !session.IsLoggedIn():
		return Decision{Redirect: LoginPath}
	case route.RequiresGuest && session.IsLoggedIn():
		return Decision{Redirect: DashboardPath}
	default:
		return Decision{Allow: true}
	}
}

// Rehydrator is the part of the auth holder the guard needs.
type Rehydrator interface {
	InitializeAuth(ctx context.Context) error
	Session() model.Session
}

var _ Rehydrator = (*auth.Holder)(nil)

// Middleware restores the session, decides, and either redirects with 302 or
// serves next with the session attached to the request context.
func Middleware(h Rehydrator, route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := h.InitializeAuth(r.Context()); err != nil {
				logx.L().Errorw("initialize_auth_error", "path", r.URL.Path, "error", err)
			}
			session := h.Session()

			d := Decide(route, session)
			if !d.Allow {
				logx.L().Debugw("guard_redirect", "path", r.URL.Path, "to", d.Redirect)
				http.Redirect(w, r, d.Redirect, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}
