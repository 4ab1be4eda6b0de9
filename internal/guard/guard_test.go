package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unclebandit/campaign-studio/internal/auth"
	"github.com/unclebandit/campaign-studio/internal/model"
)

var (
	anonymous = model.Session{}
	loggedIn  = model.Session{User: &model.SessionUser{ID: 1, Username: "administrator1x"}, Authenticated: true}
)

func TestDecide(t *testing.T) {
	authRoute, _ := Lookup(DashboardPath)
	guestRoute, _ := Lookup(LoginPath)
	openRoute := Route{Path: "/about"}

	cases := []struct {
		name    string
		route   Route
		session model.Session
		want    Decision
	}{
		{"auth route, anonymous", authRoute, anonymous, Decision{Redirect: LoginPath}},
		{"auth route, logged in", authRoute, loggedIn, Decision{Allow: true}},
		{"guest route, anonymous", guestRoute, anonymous, Decision{Allow: true}},
		{"guest route, logged in", guestRoute, loggedIn, Decision{Redirect: DashboardPath}},
		{"open route, anonymous", openRoute, anonymous, Decision{Allow: true}},
		{"open route, logged in", openRoute, loggedIn, Decision{Allow: true}},
		{"flag without user", authRoute, model.Session{Authenticated: true}, Decision{Redirect: LoginPath}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.route, tc.session); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRouteTable(t *testing.T) {
	for _, p := range []string{"/dashboard", "/create", "/campaign/{id}"} {
		r, ok := Lookup(p)
		if !ok || !r.RequiresAuth {
			t.Errorf("%s should require auth", p)
		}
	}
	if r, _ := Lookup("/"); r.Redirect != DashboardPath {
		t.Errorf("/ should redirect to the dashboard")
	}
	if _, ok := Lookup("/nope"); ok {
		t.Error("unexpected route")
	}
}

type fakeHolder struct {
	initCalls int
	session   model.Session
	initErr   error
}

func (f *fakeHolder) InitializeAuth(context.Context) error {
	f.initCalls++
	return f.initErr
}

func (f *fakeHolder) Session() model.Session { return f.session }

func TestMiddleware(t *testing.T) {
	authRoute, _ := Lookup(DashboardPath)

	t.Run("redirects anonymous", func(t *testing.T) {
		h := &fakeHolder{}
		handler := Middleware(h, authRoute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next must not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		if rec.Code != http.StatusFound || rec.Header().Get("Location") != LoginPath {
			t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
		}
		if h.initCalls != 1 {
			t.Errorf("InitializeAuth called %d times", h.initCalls)
		}
	})

	t.Run("passes session through context", func(t *testing.T) {
		h := &fakeHolder{session: loggedIn, initErr: errors.New("disk hiccup")}
		var seen model.Session
		handler := Middleware(h, authRoute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = auth.SessionFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("got %d", rec.Code)
		}
		if !seen.IsLoggedIn() || seen.User.Username != "administrator1x" {
			t.Errorf("session not in context: %+v", seen)
		}
	})
}
