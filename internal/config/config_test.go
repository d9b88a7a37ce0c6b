package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"supplycraft/internal/game"
	"supplycraft/internal/sim"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "supplycraft.yaml", `
server:
  addr: ":9090"
ai:
  api_key: sk-test
  model: gpt-4o
session_capacity: 64
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.Server.Addr)
	}
	if !cfg.AI.Enabled() || cfg.AI.Model != "gpt-4o" {
		t.Errorf("unexpected AI config %+v", cfg.AI)
	}
	if cfg.SessionCapacity != 64 {
		t.Errorf("expected capacity 64, got %d", cfg.SessionCapacity)
	}
}

func TestLoadBrokenConfigFallsBack(t *testing.T) {
	path := writeFile(t, "broken.yaml", "server: [not a map")

	cfg, err := Load(path)
	if err == nil {
		t.Error("expected advisory error for broken yaml")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("broken config must fall back to defaults, got %q", cfg.Server.Addr)
	}
}

func TestLoadParams(t *testing.T) {
	path := writeFile(t, "params.yaml", `
retail_price: 60
supplier_cost: 15
`)

	p, err := LoadParams(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RetailPrice != 60 || p.SupplierCost != 15 {
		t.Errorf("unexpected params %+v", p)
	}
	// Unset fields keep their defaults.
	if p.BuyerSalvage != sim.DefaultParams().BuyerSalvage {
		t.Errorf("expected default buyer salvage, got %v", p.BuyerSalvage)
	}
}

func TestLoadNegotiation(t *testing.T) {
	path := writeFile(t, "negotiation.yaml", `
contract_types_available: [buyback]
length_max: 5
cap_type_allowed: both
`)

	n, err := LoadNegotiation(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.ContractTypes) != 1 || n.ContractTypes[0] != sim.ContractBuyback {
		t.Errorf("unexpected types %v", n.ContractTypes)
	}
	if n.LengthMax != 5 {
		t.Errorf("expected length max 5, got %d", n.LengthMax)
	}
}

func TestLoadHistory(t *testing.T) {
	path := writeFile(t, "demand.csv", "demand\n450\n520\n\n480\n")

	h, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(h, []int{450, 520, 480}) {
		t.Errorf("unexpected history %v", h)
	}
}

func TestLoadHistoryFallsBack(t *testing.T) {
	empty := writeFile(t, "empty.csv", "header only\n")

	h, err := LoadHistory(empty)
	if err == nil {
		t.Error("expected advisory error for history with no rows")
	}
	if !slices.Equal(h, game.DefaultHistory()) {
		t.Errorf("expected default history, got %v", h)
	}

	h, err = LoadHistory("")
	if err != nil || !slices.Equal(h, game.DefaultHistory()) {
		t.Errorf("empty path must yield defaults, got %v (%v)", h, err)
	}
}

func TestGameConfigAssembly(t *testing.T) {
	cfg := Default()
	cfg.Scenario.ParamsFile = writeFile(t, "params.yaml", "supplier_cost: 20\n")

	gc, errs := cfg.GameConfig()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if gc.Params.SupplierCost != 20 {
		t.Errorf("expected supplier cost 20, got %v", gc.Params.SupplierCost)
	}
	if !slices.Equal(gc.History, game.DefaultHistory()) {
		t.Errorf("expected default history, got %v", gc.History)
	}
}
