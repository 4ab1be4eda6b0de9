package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/campaign-studio/internal/auth"
	"github.com/unclebandit/campaign-studio/internal/logx"
)

func (a *App) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"page":  "login",
		"error": a.Auth.Error(),
	})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	res := a.Auth.Login(r.Context(), body.Username, body.Password)
	if !res.Success {
		writeJSON(w, http.StatusUnauthorized, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.Auth.Logout(r.Context()); err != nil {
		logx.L().Errorw("logout_error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, auth.LoginResult{Success: true})
}
