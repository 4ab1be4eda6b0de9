//cmd/seeder/main.go
package main

import (
	"context"
	"time"

	"github.com/unclebandit/campaign-studio/internal/config"
	"github.com/unclebandit/campaign-studio/internal/db"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/repository"
	"github.com/unclebandit/campaign-studio/internal/security"
)

func main() {
	logx.Init()
	defer logx.Sync()

	cfg, err := config.LoadSeeder()
	if err != nil {
		logx.L().Fatalw("config_error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DB.DSN())
	if err != nil {
		logx.L().Fatalw("db_open_error", "error", err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		logx.L().Fatalw("db_schema_error", "error", err)
	}

	campaigns := &repository.CampaignRepository{DB: conn}
	existing, err := campaigns.List(ctx, repository.CampaignFilter{})
	if err != nil {
		logx.L().Fatalw("seed_campaigns_error", "error", err)
	}
	if len(existing) == 0 {
		for _, c := range model.DefaultCampaigns() {
			if err := campaigns.Create(ctx, &c); err != nil {
				logx.L().Fatalw("seed_campaigns_error", "brand", c.Brand, "error", err)
			}
		}
		logx.L().Infow("seeded", "table", "campaigns", "rows", len(model.DefaultCampaigns()))
	} else {
		logx.L().Infow("seed_skipped", "table", "campaigns", "rows", len(existing))
	}

	tones := &repository.ToneRepository{DB: conn}
	for _, t := range model.DefaultTones() {
		if err := tones.Upsert(ctx, t); err != nil {
			logx.L().Fatalw("seed_tones_error", "tone", t.ID, "error", err)
		}
	}
	logx.L().Infow("seeded", "table", "tones", "rows", len(model.DefaultTones()))

	hash, err := security.HashPassword(cfg.DemoPassword)
	if err != nil {
		logx.L().Fatalw("seed_users_error", "error", err)
	}
	if err := (&repository.UserRepository{DB: conn}).Upsert(ctx, cfg.DemoUsername, hash); err != nil {
		logx.L().Fatalw("seed_users_error", "username", cfg.DemoUsername, "error", err)
	}
	logx.L().Infow("seeded", "table", "users", "username", cfg.DemoUsername)

	logx.L().Infow("seed_completed")
}
