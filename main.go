package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ekinyalgin/consolevite-sub000/internal/config"
	"github.com/ekinyalgin/consolevite-sub000/internal/database"
	"github.com/ekinyalgin/consolevite-sub000/internal/metrics"
	"github.com/ekinyalgin/consolevite-sub000/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Error("init database", "err", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Error("migrate database", "err", err)
		os.Exit(1)
	}

	metrics.Init()
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Info("server listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Error("run server", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Log.Level == "debug" {
		level = slog.LevelDebug
	}
	var h slog.Handler
	if cfg.Server.Mode == "release" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(h)
}
