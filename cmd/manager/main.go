// cmd/manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/campaign-studio/internal/auth"
	"github.com/unclebandit/campaign-studio/internal/config"
	"github.com/unclebandit/campaign-studio/internal/controller"
	"github.com/unclebandit/campaign-studio/internal/generation"
	"github.com/unclebandit/campaign-studio/internal/localstore"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/remote"
	"github.com/unclebandit/campaign-studio/internal/service"
)

func main() {
	logx.Init()
	defer logx.Sync()

	cfg, err := config.LoadManager()
	if err != nil {
		logx.L().Fatalw("config_error", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := localstore.OpenSQLite(cfg.LocalDBPath)
	if err != nil {
		logx.L().Fatalw("local_store_error", "path", cfg.LocalDBPath, "error", err)
	}
	defer kv.Close()

	local := localstore.New(kv,
		localstore.WithLatency(cfg.LocalLatency),
		localstore.WithDemoUser(cfg.DemoUsername, cfg.DemoPassword),
	)
	if err := local.InitializeData(ctx); err != nil {
		logx.L().Fatalw("local_store_init_error", "error", err)
	}

	campaigns := &service.CampaignService{Local: local, Offline: cfg.Offline()}
	tones := &service.ToneService{Local: local, Offline: cfg.Offline()}
	users := &service.UserService{Local: local, Offline: cfg.Offline()}
	if !cfg.Offline() {
		rc := remote.NewClient(cfg.BackendURL, cfg.RemoteTimeout)
		campaigns.Remote = rc
		tones.Remote = rc
		users.Remote = rc
	}
	logx.L().Infow("data_mode", "mode", cfg.Mode, "backend", cfg.BackendURL, "offline", cfg.Offline())

	if cfg.OpenAIKey == "" {
		logx.L().Warnw("openai_key_missing", "hint", "content generation will fail")
	}

	app := &controller.App{
		Campaigns: campaigns,
		Tones:     tones,
		Auth:      auth.NewHolder(local, users),
		Generator: generation.NewClient(generation.Config{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
		}),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logx.L().Infow("manager_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.L().Errorw("server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logx.L().Infow("manager_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.L().Errorw("server_shutdown_error", "error", err)
	}
}
