// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/campaign-studio/internal/auth"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/model"
)

type campaignResponse struct {
	Campaign          *model.Campaign `json:"campaign"`
	PersistedRemotely bool            `json:"persistedRemotely"`
}

func (a *App) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	campaigns, err := a.Campaigns.List(r.Context())
	if err != nil {
		writeServiceError(w, "list_campaigns", err)
		return
	}
	tones, err := a.Tones.List(r.Context())
	if err != nil {
		writeServiceError(w, "list_tones", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":      session.User,
		"campaigns": campaigns,
		"tones":     tones,
	})
}

func (a *App) CreatePage(w http.ResponseWriter, r *http.Request) {
	tones, err := a.Tones.List(r.Context())
	if err != nil {
		writeServiceError(w, "list_tones", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tones": tones})
}

func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		model.Campaign
		Generate bool `json:"generate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	data := body.Campaign
	if err := data.Validate(); err != nil {
		writeServiceError(w, "create_campaign", err)
		return
	}
	if body.Generate {
		res := a.Generator.GenerateContent(r.Context(), data)
		if !res.Success {
			writeJSON(w, http.StatusBadGateway, res)
			return
		}
		data.Caption = res.Data.Caption
		data.Image = res.Data.Image
	}

	created, outcome, err := a.Campaigns.Create(r.Context(), data)
	if err != nil {
		writeServiceError(w, "create_campaign", err)
		return
	}
	if !outcome.PersistedRemotely {
		logx.L().Infow("campaign_saved_locally", "id", created.ID)
	}
	writeJSON(w, http.StatusCreated, campaignResponse{Campaign: created, PersistedRemotely: outcome.PersistedRemotely})
}

func (a *App) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := a.Campaigns.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get_campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaign": c})
}

func (a *App) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var patch model.Campaign
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	updated, outcome, err := a.Campaigns.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, "update_campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, campaignResponse{Campaign: updated, PersistedRemotely: outcome.PersistedRemotely})
}

func (a *App) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	outcome, err := a.Campaigns.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "delete_campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// GenerateForCampaign regenerates caption and image and stores them.
func (a *App) GenerateForCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := a.Campaigns.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get_campaign", err)
		return
	}

	res := a.Generator.GenerateContent(r.Context(), *c)
	if !res.Success {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}

	updated, outcome, err := a.Campaigns.Update(r.Context(), c.ID, model.Campaign{Caption: res.Data.Caption, Image: res.Data.Image})
	if err != nil {
		writeServiceError(w, "update_campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, campaignResponse{Campaign: updated, PersistedRemotely: outcome.PersistedRemotely})
}

// EnhanceCaption rewrites the given caption, or the stored one when the body
// carries none, and saves the result.
func (a *App) EnhanceCaption(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Caption string `json:"caption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	c, err := a.Campaigns.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get_campaign", err)
		return
	}
	caption := body.Caption
	if caption == "" {
		caption = c.Caption
	}

	res := a.Generator.EnhanceCaption(r.Context(), caption)
	if !res.Success {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}

	updated, outcome, err := a.Campaigns.Update(r.Context(), c.ID, model.Campaign{Caption: res.Enhanced})
	if err != nil {
		writeServiceError(w, "update_campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, campaignResponse{Campaign: updated, PersistedRemotely: outcome.PersistedRemotely})
}
