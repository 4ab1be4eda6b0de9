package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/repository"
	"github.com/unclebandit/campaign-studio/internal/service"
)

// MockPostingRepo stores campaigns in memory
type MockPostingRepo struct {
	mu        sync.Mutex
	campaigns map[string]*model.Campaign
	failMark  bool
	marked    chan string
}

func (m *MockPostingRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *MockPostingRepo) List(ctx context.Context, f repository.CampaignFilter) ([]model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Campaign{}
	for _, c := range m.campaigns {
		if f.Status == "" || c.Status == f.Status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *MockPostingRepo) MarkPosted(ctx context.Context, id string, at time.Time) error {
	if m.failMark {
		return errors.New("db down")
	}
	m.mu.Lock()
	c := m.campaigns[id]
	c.Status = model.StatusPosted
	c.PostedAt = &at
	m.mu.Unlock()
	if m.marked != nil {
		m.marked <- id
	}
	return nil
}

func (m *MockPostingRepo) status(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.campaigns[id].Status
}

var workerNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newWorker(repo *MockPostingRepo) *service.PostingWorker {
	w := service.NewPostingWorker(repo, time.UTC)
	w.Now = func() time.Time { return workerNow }
	return w
}

func TestPostingWorker_Process(t *testing.T) {
	repo := &MockPostingRepo{
		campaigns: map[string]*model.Campaign{
			"1": {ID: "1", Status: model.StatusDraft},
			"2": {ID: "2", Status: model.StatusScheduled, Schedule: "2026-10-16T11:59"},
			"3": {ID: "3", Status: model.StatusScheduled, Schedule: "2099-01-01T09:00:00"},
			"4": {ID: "4", Status: model.StatusScheduled},
			"5": {ID: "5", Status: model.StatusScheduled, Schedule: "someday"},
		},
	}
	worker := newWorker(repo)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4", "5", "404"} {
		if err := worker.Process(ctx, id); err != nil {
			t.Errorf("process %s: %v", id, err)
		}
	}

	want := map[string]string{
		"1": model.StatusDraft,
		"2": model.StatusPosted,
		"3": model.StatusScheduled,
		"4": model.StatusPosted,
		"5": model.StatusScheduled,
	}
	for id, status := range want {
		if got := repo.status(id); got != status {
			t.Errorf("campaign %s: status %s, want %s", id, got, status)
		}
	}
	if c, _ := repo.GetByID(ctx, "2"); c.PostedAt == nil || !c.PostedAt.Equal(workerNow) {
		t.Errorf("postedAt not stamped: %v", c.PostedAt)
	}
}

func TestPostingWorker_ScheduleReadInLocation(t *testing.T) {
	repo := &MockPostingRepo{
		campaigns: map[string]*model.Campaign{
			// 14:00 in UTC+3 is 11:00 UTC, an hour before workerNow
			"1": {ID: "1", Status: model.StatusScheduled, Schedule: "2026-10-16T14:00"},
		},
	}
	worker := newWorker(repo)
	worker.Location = time.FixedZone("EAT", 3*60*60)

	if err := worker.Process(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}
	if got := repo.status("1"); got != model.StatusPosted {
		t.Errorf("expected posted, got %s", got)
	}
}

func TestPostingWorker_RepositoryFailure(t *testing.T) {
	repo := &MockPostingRepo{
		campaigns: map[string]*model.Campaign{"2": {ID: "2", Status: model.StatusScheduled}},
		failMark:  true,
	}
	if err := newWorker(repo).Process(context.Background(), "2"); err == nil {
		t.Error("repository failure should be returned for redelivery")
	}
}

func TestPostingWorker_PostDue(t *testing.T) {
	repo := &MockPostingRepo{
		campaigns: map[string]*model.Campaign{
			"1": {ID: "1", Status: model.StatusScheduled, Schedule: "2026-10-15T09:00"},
			"2": {ID: "2", Status: model.StatusScheduled, Schedule: "2026-10-17T09:00"},
			"3": {ID: "3", Status: model.StatusPosted},
		},
	}
	worker := newWorker(repo)

	n, err := worker.PostDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || repo.status("1") != model.StatusPosted || repo.status("2") != model.StatusScheduled {
		t.Fatalf("posted %d, statuses %s/%s", n, repo.status("1"), repo.status("2"))
	}

	// a day later the second one is due
	worker.Now = func() time.Time { return workerNow.Add(24 * time.Hour) }
	if n, _ := worker.PostDue(context.Background()); n != 1 || repo.status("2") != model.StatusPosted {
		t.Errorf("second sweep posted %d, status %s", n, repo.status("2"))
	}
}

func TestPostingWorker_Start(t *testing.T) {
	repo := &MockPostingRepo{
		campaigns: map[string]*model.Campaign{
			"1": {ID: "1", Status: model.StatusScheduled, Schedule: "2026-01-01T00:00"},
		},
		marked: make(chan string, 1),
	}
	worker := newWorker(repo)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx, time.Hour)
		close(done)
	}()

	select {
	case id := <-repo.marked:
		if id != "1" {
			t.Errorf("marked %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first sweep never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
