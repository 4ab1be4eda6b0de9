package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/campaign-studio/internal/config"
	"github.com/unclebandit/campaign-studio/internal/db"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/queue"
	"github.com/unclebandit/campaign-studio/internal/repository"
	"github.com/unclebandit/campaign-studio/internal/service"
)

func main() {
	logx.Init()
	defer logx.Sync()

	cfg, err := config.LoadWorker()
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

	q, err := queue.DialAMQP(cfg.RMQURL)
	if err != nil {
		logx.L().Fatalw("rmq_dial_error", "error", err)
	}
	defer q.Close()

	worker := service.NewPostingWorker(&repository.CampaignRepository{DB: conn}, cfg.Posting.Location)
	if err := queue.StartPostingSubscriber(q, cfg.Queue, worker); err != nil {
		logx.L().Fatalw("subscriber_error", "error", err)
	}
	// jobs post what is already due; the sweep catches schedules that come due later
	go worker.Start(ctx, cfg.Posting.Interval)

	logx.L().Infow("worker_running", "queue", cfg.Queue)
	<-ctx.Done()
	logx.L().Infow("worker_stopping")
}
