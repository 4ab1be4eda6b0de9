package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/campaign-studio/internal/auth"
	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/generation"
	"github.com/unclebandit/campaign-studio/internal/guard"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/metrics"
	"github.com/unclebandit/campaign-studio/internal/middleware"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/service"
)

// ContentGenerator is satisfied by *generation.Client.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, c model.Campaign) generation.ContentResult
	EnhanceCaption(ctx context.Context, caption string) generation.EnhanceResult
}

var _ ContentGenerator = (*generation.Client)(nil)

// App wires the manager app's pages to the data services.
type App struct {
	Campaigns *service.CampaignService
	Tones     *service.ToneService
	Auth      *auth.Holder
	Generator ContentGenerator
}

func mustRoute(path string) guard.Route {
	r, ok := guard.Lookup(path)
	if !ok {
		panic("guard: no route " + path)
	}
	return r
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Observability)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	root := mustRoute("/")
	r.With(guard.Middleware(a.Auth, root)).Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, root.Redirect, http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(a.Auth, mustRoute(guard.LoginPath)))
		r.Get("/login", a.LoginPage)
		r.Post("/login", a.Login)
	})

	r.With(guard.Middleware(a.Auth, guard.Route{Path: "/logout", RequiresAuth: true})).
		Post("/logout", a.Logout)

	r.With(guard.Middleware(a.Auth, mustRoute(guard.DashboardPath))).
		Get("/dashboard", a.Dashboard)

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(a.Auth, mustRoute("/create")))
		r.Get("/create", a.CreatePage)
		r.Post("/create", a.CreateCampaign)
	})

	r.Route("/campaign/{id}", func(r chi.Router) {
		r.Use(guard.Middleware(a.Auth, mustRoute("/campaign/{id}")))
		r.Get("/", a.GetCampaign)
		r.Put("/", a.UpdateCampaign)
		r.Delete("/", a.DeleteCampaign)
		r.Post("/generate", a.GenerateForCampaign)
		r.Post("/enhance", a.EnhanceCaption)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case appErrors.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case appErrors.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logx.L().Errorw(op+"_error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
