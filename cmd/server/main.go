// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/campaign-studio/internal/config"
	"github.com/unclebandit/campaign-studio/internal/db"
	"github.com/unclebandit/campaign-studio/internal/handler"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/metrics"
	"github.com/unclebandit/campaign-studio/internal/middleware"
	"github.com/unclebandit/campaign-studio/internal/queue"
	"github.com/unclebandit/campaign-studio/internal/repository"
	"github.com/unclebandit/campaign-studio/internal/service"
)

func main() {
	logx.Init()
	defer logx.Sync()

	cfg, err := config.LoadServer()
	if err != nil {
		logx.L().Fatalw("config_error", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DB.DSN())
	if err != nil {
		logx.L().Fatalw("db_open_error", "error", err)
	}
	defer conn.Close()
	if err := db.EnsureSchema(ctx, conn); err != nil {
		logx.L().Fatalw("db_schema_error", "error", err)
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	toneRepo := &repository.ToneRepository{DB: conn}
	userRepo := &repository.UserRepository{DB: conn}

	// Without a broker the posting worker runs in-process.
	var q queue.Queue
	worker := service.NewPostingWorker(campaignRepo, cfg.Posting.Location)
	if cfg.RMQURL != "" {
		aq, err := queue.DialAMQP(cfg.RMQURL)
		if err != nil {
			logx.L().Fatalw("rmq_dial_error", "error", err)
		}
		q = aq
		logx.L().Infow("queue_selected", "kind", "amqp", "topic", cfg.Queue)
	} else {
		q = queue.NewInMemoryQueue()
		if err := queue.StartPostingSubscriber(q, cfg.Queue, worker); err != nil {
			logx.L().Fatalw("subscriber_error", "error", err)
		}
		go worker.Start(ctx, cfg.Posting.Interval)
		logx.L().Infow("queue_selected", "kind", "memory", "topic", cfg.Queue)
	}
	defer q.Close()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Observability)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	handler.NewCampaignHandler(campaignRepo, q, cfg.Queue).Routes(r)
	(&handler.ToneHandler{Repo: toneRepo}).Routes(r)
	(&handler.UserHandler{Repo: userRepo}).Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logx.L().Infow("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.L().Errorw("server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logx.L().Infow("server_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.L().Errorw("server_shutdown_error", "error", err)
	}
}
