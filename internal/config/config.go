// Package config loads the application and scenario configuration.
// Every loader degrades to defaults: a missing file is not an error,
// and a broken file falls back with the error reported so the caller
// can log it. The server must always be able to start.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"supplycraft/internal/game"
	"supplycraft/internal/supplier"
)

// DefaultPath is where the server looks for its config by default.
const DefaultPath = "supplycraft.yaml"

// Config is the top-level application configuration.
type Config struct {
	Server   Server          `yaml:"server"`
	AI       supplier.Config `yaml:"ai"`
	Scenario Scenario        `yaml:"scenario"`

	// SessionCapacity bounds the in-memory session store.
	SessionCapacity int `yaml:"session_capacity"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

// Scenario points at the instructor's data files. Empty paths mean
// built-in defaults.
type Scenario struct {
	ParamsFile      string `yaml:"params_file"`
	HistoryFile     string `yaml:"history_file"`
	NegotiationFile string `yaml:"negotiation_file"`
}

func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		AI:     supplier.DefaultConfig(),
	}
}

// Load reads the application config from path. A missing file yields
// the defaults with no error; an unreadable or unparseable file yields
// the defaults plus the error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = Default().Server.Addr
	}
	return cfg, nil
}

// GameConfig assembles the game configuration from the scenario
// files, degrading each piece independently. Returned errors are
// advisory; the config is always usable.
func (c Config) GameConfig() (game.Config, []error) {
	var errs []error
	gc := game.DefaultConfig()
	gc.SessionCapacity = c.SessionCapacity

	if p, err := LoadParams(c.Scenario.ParamsFile); err != nil {
		errs = append(errs, err)
	} else {
		gc.Params = p
	}
	if h, err := LoadHistory(c.Scenario.HistoryFile); err != nil {
		errs = append(errs, err)
	} else {
		gc.History = h
	}
	if n, err := LoadNegotiation(c.Scenario.NegotiationFile); err != nil {
		errs = append(errs, err)
	} else {
		gc.Rules = n
	}

	return gc, errs
}
