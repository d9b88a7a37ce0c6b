package game

import (
	"supplycraft/internal/negotiation"
	"supplycraft/internal/session"
	"supplycraft/internal/sim"
)

// Config collects everything a game service needs: the economic
// environment, the seed demand history, and the negotiation rules.
type Config struct {
	Params  sim.Params
	History []int
	Rules   negotiation.Config

	// SessionCapacity bounds the in-memory session store.
	SessionCapacity int

	// Seed for the demand generator. Zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns the stock classroom setup.
func DefaultConfig() Config {
	return Config{
		Params:          sim.DefaultParams(),
		History:         DefaultHistory(),
		Rules:           negotiation.DefaultConfig(),
		SessionCapacity: session.DefaultCapacity,
	}
}

// DefaultHistory is the seed demand series used when no instructor
// data is loaded.
func DefaultHistory() []int {
	return []int{450, 520, 480, 600, 550, 530, 490}
}
