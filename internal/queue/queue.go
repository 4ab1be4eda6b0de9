package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/unclebandit/campaign-studio/internal/logx"
)

// PostingJob asks the worker to post one campaign.
type PostingJob struct {
	CampaignID string `json:"campaign_id"`
}

type Handler func(ctx context.Context, job PostingJob) error

// Publisher is the half of a queue the backend needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, job PostingJob) error
}

// Queue interface
type Queue interface {
	Publisher
	Subscribe(topic string, handler Handler) error
	Close() error
}

// InMemoryQueue delivers jobs to in-process subscribers with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	wg       sync.WaitGroup

	MaxRetries int
	Backoff    time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// Publish hands the job to every subscriber of topic
func (q *InMemoryQueue) Publish(ctx context.Context, topic string, job PostingJob) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	// jobs outlive the request that published them
	jobCtx := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		q.wg.Add(1)
		go func(h Handler) {
			defer q.wg.Done()
			q.processJob(jobCtx, h, job)
		}(handler)
	}
	return nil
}

// processJob retries a failing handler with linear backoff
func (q *InMemoryQueue) processJob(ctx context.Context, handler Handler, job PostingJob) {
	for attempt := 0; ; attempt++ {
		err := handler(ctx, job)
		if err == nil {
			logx.L().Debugw("job_processed", "campaign_id", job.CampaignID, "attempts", attempt+1)
			return
		}

		if attempt >= q.MaxRetries {
			logx.L().Errorw("job_failed_permanently", "campaign_id", job.CampaignID, "attempts", attempt+1, "error", err)
			return
		}
		logx.L().Warnw("job_failed", "campaign_id", job.CampaignID, "attempt", attempt+1, "max_retries", q.MaxRetries, "error", err)

		time.Sleep(time.Duration(attempt+1) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close waits for in-flight jobs.
func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}

// Processor is satisfied by the posting worker.
type Processor interface {
	Process(ctx context.Context, campaignID string) error
}

// StartPostingSubscriber routes posting jobs on topic to p.
func StartPostingSubscriber(q Queue, topic string, p Processor) error {
	err := q.Subscribe(topic, func(ctx context.Context, job PostingJob) error {
		if job.CampaignID == "" {
			logx.L().Warnw("posting_job_invalid", "reason", "empty campaign id")
			return nil
		}
		return p.Process(ctx, job.CampaignID)
	})
	if err != nil {
		return fmt.Errorf("failed to start subscriber for %s: %w", topic, err)
	}
	logx.L().Infow("posting_subscriber_started", "topic", topic)
	return nil
}
