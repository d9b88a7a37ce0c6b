package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"supplycraft/internal/config"
	"supplycraft/internal/game"
	"supplycraft/internal/sim"
	"supplycraft/internal/supplier"
	"supplycraft/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the application config file")
	rounds := flag.Int("rounds", 10, "number of ordering rounds")
	method := flag.String("method", string(sim.DemandBootstrap), "demand method: bootstrap or normal")
	flag.Parse()

	// The TUI owns the terminal, so logs go to a file or nowhere.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if f, err := os.OpenFile("supplycraft.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		defer f.Close()
		log = slog.New(slog.NewTextHandler(f, nil))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn("config load problem, using defaults", "error", err)
	}
	gameCfg, errs := cfg.GameConfig()
	for _, err := range errs {
		log.Warn("scenario load problem, using defaults", "error", err)
	}

	sup := supplier.New(cfg.AI, log)
	svc := game.NewService(gameCfg, sup, sup, log)

	model := tui.NewModel(svc, *rounds, sim.DemandMethod(*method))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
