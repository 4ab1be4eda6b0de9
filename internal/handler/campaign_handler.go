// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/metrics"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/queue"
	"github.com/unclebandit/campaign-studio/internal/repository"
)

// CampaignHandler serves the campaign collection endpoints
type CampaignHandler struct {
	Repo      repository.CampaignRepositoryInterface
	Publisher queue.Publisher
	Topic     string
}

func NewCampaignHandler(repo repository.CampaignRepositoryInterface, pub queue.Publisher, topic string) *CampaignHandler {
	return &CampaignHandler{Repo: repo, Publisher: pub, Topic: topic}
}

func (h *CampaignHandler) Routes(r chi.Router) {
	r.Get("/campaigns", h.ListCampaignsHandler)
	r.Post("/campaigns", h.CreateCampaignHandler)
	r.Get("/campaigns/{id}", h.GetCampaignHandler)
	r.Put("/campaigns/{id}", h.UpdateCampaignHandler)
	r.Delete("/campaigns/{id}", h.DeleteCampaignHandler)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeRepoError maps repository failures onto HTTP statuses
func writeRepoError(w http.ResponseWriter, op string, err error) {
	if appErrors.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	logx.L().Errorw(op+"_error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// publishIfScheduled queues a posting job. A failed publish is logged, the
// write itself already succeeded.
func (h *CampaignHandler) publishIfScheduled(r *http.Request, c *model.Campaign) {
	if h.Publisher == nil || c.Status != model.StatusScheduled {
		return
	}
	if err := h.Publisher.Publish(r.Context(), h.Topic, queue.PostingJob{CampaignID: c.ID}); err != nil {
		logx.L().Warnw("posting_publish_error", "campaign_id", c.ID, "error", err)
		return
	}
	metrics.PostingJobsPublished.Inc()
}

// ListCampaignsHandler returns campaigns, optionally filtered by id and status
func (h *CampaignHandler) ListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	f := repository.CampaignFilter{
		ID:     r.URL.Query().Get("id"),
		Status: r.URL.Query().Get("status"),
	}
	if f.Status != "" && !model.ValidStatus(f.Status) {
		writeError(w, http.StatusBadRequest, "unknown status "+f.Status)
		return
	}
	campaigns, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeRepoError(w, "list_campaigns", err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *CampaignHandler) CreateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	var payload model.Campaign
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	payload.ID = ""
	payload.CreatedAt = time.Time{}
	if err := payload.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Repo.Create(r.Context(), &payload); err != nil {
		writeRepoError(w, "create_campaign", err)
		return
	}
	h.publishIfScheduled(r, &payload)
	writeJSON(w, http.StatusCreated, payload)
}

func (h *CampaignHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRepoError(w, "get_campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCampaignHandler merges the body onto the stored campaign
func (h *CampaignHandler) UpdateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.Campaign
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, "update_campaign", err)
		return
	}
	c.Merge(patch)

	if err := h.Repo.Update(r.Context(), c); err != nil {
		writeRepoError(w, "update_campaign", err)
		return
	}
	h.publishIfScheduled(r, c)
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) DeleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeRepoError(w, "delete_campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
