package game

import (
	"time"

	"supplycraft/internal/sim"
	"supplycraft/internal/supplier"
)

// Phase describes where a session sits in the negotiate-then-order
// loop. It is derived from state, never stored.
type Phase string

const (
	PhaseNoContract   Phase = "no_contract"
	PhaseChatOpen     Phase = "chat_open"
	PhaseDraftPending Phase = "draft_pending"
	PhaseActive       Phase = "active"
)

// Negotiation outcomes recorded in the session log.
const (
	OutcomeAccept    = "accept"
	OutcomeRejected  = "rejected"
	OutcomeOngoing   = "ongoing"
	OutcomeAbandoned = "abandoned"
)

// NegotiationRecord is one completed (or cut short) negotiation,
// preserved for the end-of-game summary.
type NegotiationRecord struct {
	Messages  []supplier.Message `json:"chat_messages"`
	Outcome   string             `json:"final_decision"`
	Contract  *sim.Contract      `json:"final_contract,omitempty"`
	StartedAt time.Time          `json:"start_time"`
	EndedAt   time.Time          `json:"end_time"`
}

// RoundRecord is the ledger entry for one played round. The contract
// snapshot reflects terms as of the end of the round.
type RoundRecord struct {
	RoundIndex     int `json:"round_index"`
	OrderQuantity  int `json:"order_quantity"`
	RealizedDemand int `json:"realized_demand"`
	Sales          int `json:"sales"`
	Returns        int `json:"returns"`
	Leftovers      int `json:"leftovers"`

	BuyerRevenue    float64 `json:"buyer_revenue"`
	BuyerCost       float64 `json:"buyer_cost"`
	BuyerProfit     float64 `json:"buyer_profit"`
	SupplierRevenue float64 `json:"supplier_revenue"`
	SupplierCost    float64 `json:"supplier_cost"`
	SupplierProfit  float64 `json:"supplier_profit"`

	Contract sim.Contract `json:"contract"`
}

// State is the full state of one game session. It is mutated only by
// Service methods while the session lock is held.
type State struct {
	RoundNumber int              `json:"round_number"`
	TotalRounds int              `json:"total_rounds"`
	Contract    sim.Contract     `json:"contract"`
	Method      sim.DemandMethod `json:"demand_method"`

	CumulativeBuyerProfit    float64 `json:"cumulative_buyer_profit"`
	CumulativeSupplierProfit float64 `json:"cumulative_supplier_profit"`

	// Seed history plus every demand realized during play.
	HistoricalDemands []int `json:"historical_demands"`

	TotalDemand    int `json:"total_demand"`
	TotalSales     int `json:"total_sales"`
	TotalReturns   int `json:"total_returns"`
	TotalLeftovers int `json:"total_leftovers"`

	Rounds []RoundRecord `json:"rounds"`

	// Live negotiation state. ContractTypeLock is set by the first
	// proposal and pins the type for the rest of that negotiation.
	ChatHistory      []supplier.Message `json:"chat_history"`
	Draft            *sim.Contract      `json:"draft_contract,omitempty"`
	ContractTypeLock sim.ContractType   `json:"initial_contract_type,omitempty"`
	NegotiationStart time.Time          `json:"-"`

	Negotiations []NegotiationRecord `json:"negotiation_history"`

	EndedEarly bool `json:"ended_early"`
}

// GameOver reports whether play has finished, by exhausting the
// rounds or by an early end.
func (s *State) GameOver() bool {
	return s.RoundNumber > s.TotalRounds || s.EndedEarly
}

// Phase derives the session's position in the game loop.
func (s *State) Phase() Phase {
	switch {
	case s.Contract.Active():
		return PhaseActive
	case s.Draft != nil:
		return PhaseDraftPending
	case len(s.ChatHistory) > 0:
		return PhaseChatOpen
	}
	return PhaseNoContract
}

// Summary is the end-of-game report card.
type Summary struct {
	SessionID         string `json:"session_id"`
	TotalRoundsPlayed int    `json:"total_rounds_played"`

	TotalDemand    int `json:"total_demand"`
	TotalSales     int `json:"total_sales"`
	TotalReturns   int `json:"total_returns"`
	TotalLeftovers int `json:"total_leftovers"`

	CumulativeBuyerProfit    float64 `json:"cumulative_buyer_profit"`
	CumulativeSupplierProfit float64 `json:"cumulative_supplier_profit"`

	AverageDemand float64 `json:"average_demand"`
	FillRate      float64 `json:"fill_rate"`
	ReturnRate    float64 `json:"return_rate"`
	LeftoverRate  float64 `json:"leftover_rate"`

	HistoricalDemands []int               `json:"historical_demands"`
	Rounds            []RoundRecord       `json:"rounds"`
	Negotiations      []NegotiationRecord `json:"negotiation_history"`
}
