package service

import (
	"context"
	"errors"
	"time"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/metrics"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/repository"
)

// PostingRepository defines the methods the worker needs
type PostingRepository interface {
	List(ctx context.Context, f repository.CampaignFilter) ([]model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	MarkPosted(ctx context.Context, id string, at time.Time) error
}

var _ PostingRepository = (*repository.CampaignRepository)(nil)

// PostingWorker moves scheduled campaigns to posted once their schedule is
// due. Schedules are wall times in Location.
type PostingWorker struct {
	Repo     PostingRepository
	Now      func() time.Time
	Location *time.Location
}

func NewPostingWorker(repo PostingRepository, loc *time.Location) *PostingWorker {
	if loc == nil {
		loc = time.Local
	}
	return &PostingWorker{Repo: repo, Now: time.Now, Location: loc}
}

// Process handles one posting job. A campaign that no longer exists, is no
// longer scheduled, or is not yet due is left alone without error; the sweep
// in Start posts it later. Repository failures are returned so the queue can
// redeliver.
func (w *PostingWorker) Process(ctx context.Context, campaignID string) error {
	c, err := w.Repo.GetByID(ctx, campaignID)
	if err != nil {
		if appErrors.IsNotFound(err) {
			logx.L().Infow("posting_campaign_gone", "campaign_id", campaignID)
			metrics.PostingJobsProcessed.WithLabelValues("dropped").Inc()
			return nil
		}
		metrics.PostingJobsProcessed.WithLabelValues("error").Inc()
		return err
	}
	_, err = w.post(ctx, c)
	return err
}

// post marks c posted when it is scheduled and due. An empty schedule is due
// immediately.
func (w *PostingWorker) post(ctx context.Context, c *model.Campaign) (bool, error) {
	if c.Status != model.StatusScheduled {
		logx.L().Infow("posting_skipped", "campaign_id", c.ID, "status", c.Status)
		metrics.PostingJobsProcessed.WithLabelValues("skipped").Inc()
		return false, nil
	}

	now := w.Now()
	at, ok, err := model.ParseSchedule(c.Schedule, w.Location)
	if err != nil {
		logx.L().Warnw("posting_schedule_invalid", "campaign_id", c.ID, "schedule", c.Schedule, "error", err)
		metrics.PostingJobsProcessed.WithLabelValues("skipped").Inc()
		return false, nil
	}
	if ok && now.Before(at) {
		logx.L().Debugw("posting_not_due", "campaign_id", c.ID, "due", at)
		metrics.PostingJobsProcessed.WithLabelValues("deferred").Inc()
		return false, nil
	}

	if err := w.Repo.MarkPosted(ctx, c.ID, now.UTC()); err != nil {
		if appErrors.IsNotFound(err) {
			// deleted or posted by someone else since it was read
			metrics.PostingJobsProcessed.WithLabelValues("dropped").Inc()
			return false, nil
		}
		metrics.PostingJobsProcessed.WithLabelValues("error").Inc()
		return false, err
	}

	logx.L().Infow("campaign_posted", "campaign_id", c.ID, "brand", c.Brand)
	metrics.PostingJobsProcessed.WithLabelValues("posted").Inc()
	return true, nil
}

// PostDue posts every scheduled campaign whose schedule has passed and
// reports how many it posted. It keeps going past individual failures.
func (w *PostingWorker) PostDue(ctx context.Context) (int, error) {
	scheduled, err := w.Repo.List(ctx, repository.CampaignFilter{Status: model.StatusScheduled})
	if err != nil {
		return 0, err
	}

	posted := 0
	var errs []error
	for i := range scheduled {
		ok, err := w.post(ctx, &scheduled[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			posted++
		}
	}
	return posted, errors.Join(errs...)
}

// Start sweeps for due campaigns now and then every interval until ctx is
// done.
func (w *PostingWorker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := w.PostDue(ctx); err != nil {
			logx.L().Errorw("posting_sweep_error", "posted", n, "error", err)
		} else if n > 0 {
			logx.L().Infow("posting_sweep", "posted", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
