package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/campaign-studio/internal/repository"
)

type ToneHandler struct {
	Repo repository.ToneRepositoryInterface
}

func (h *ToneHandler) Routes(r chi.Router) {
	r.Get("/tones", h.ListTonesHandler)
}

func (h *ToneHandler) ListTonesHandler(w http.ResponseWriter, r *http.Request) {
	tones, err := h.Repo.List(r.Context())
	if err != nil {
		writeRepoError(w, "list_tones", err)
		return
	}
	writeJSON(w, http.StatusOK, tones)
}

// UserHandler exposes users with bcrypt hashes only; the manager app verifies
// passwords itself.
type UserHandler struct {
	Repo repository.UserRepositoryInterface
}

func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/users", h.ListUsersHandler)
}

func (h *UserHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.List(r.Context())
	if err != nil {
		writeRepoError(w, "list_users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
