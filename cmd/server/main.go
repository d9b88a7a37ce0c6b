package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplycraft/internal/api"
	"supplycraft/internal/config"
	"supplycraft/internal/game"
	"supplycraft/internal/supplier"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the application config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn("config load problem, using defaults", "error", err)
	}

	gameCfg, errs := cfg.GameConfig()
	for _, err := range errs {
		log.Warn("scenario load problem, using defaults", "error", err)
	}

	sup := supplier.New(cfg.AI, log)
	if !cfg.AI.Enabled() {
		log.Info("no API key configured, supplier runs on fallback rules")
	}

	svc := game.NewService(gameCfg, sup, sup, log)
	srv := api.New(svc, log)

	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.Listen(cfg.Server.Addr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped cleanly")
}
