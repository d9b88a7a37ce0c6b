// Package supplier provides the AI counterparty for contract
// negotiation: proposal evaluation and free-form chat. A remote
// model backs both when configured; a deterministic rule set keeps
// the game playable when it is not.
package supplier

import (
	"context"
	"log/slog"

	"supplycraft/internal/negotiation"
	"supplycraft/internal/sim"
)

// Decision is the supplier's verdict on a proposal.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Evaluation is the supplier's response to a first proposal. Initial
// proposals never get counteroffers; those emerge from chat.
type Evaluation struct {
	Decision Decision
	Message  string
}

// Chat roles as stored in the negotiation transcript.
const (
	RoleStudent  = "student"
	RoleSupplier = "supplier"
)

// Message is one turn of the negotiation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EvalContext carries everything the supplier sees when judging a
// first proposal.
type EvalContext struct {
	Proposal sim.Contract
	Params   sim.Params
	History  []int
}

// ChatContext carries the negotiation state for one chat turn.
// ContractType is the type locked in by the first proposal.
type ChatContext struct {
	Messages     []Message
	Draft        *sim.Contract
	ContractType sim.ContractType
	Params       sim.Params
	History      []int
	RoundNumber  int
	TotalRounds  int
	Rules        negotiation.Config
}

// ChatReply is the supplier's side of one chat turn. Candidate holds
// contract terms recovered from the reply, if any; it is raw material
// for a draft, not a validated contract.
type ChatReply struct {
	Message   string
	Candidate *negotiation.Candidate
	Complete  bool
}

// Evaluator judges first proposals.
type Evaluator interface {
	Evaluate(ctx context.Context, req EvalContext) (Evaluation, error)
}

// Responder holds up the supplier's end of negotiation chat.
type Responder interface {
	Chat(ctx context.Context, req ChatContext) (ChatReply, error)
}

// Supplier is the production counterparty: a remote model when
// configured, degrading to the deterministic Fallback when the model
// is absent or misbehaves. Degradation is silent to the player.
type Supplier struct {
	client   *Client
	fallback Fallback
	log      *slog.Logger
}

// New builds a Supplier from cfg. With no API key the Supplier runs
// entirely on the fallback rules.
func New(cfg Config, log *slog.Logger) *Supplier {
	s := &Supplier{log: log}
	if cfg.Enabled() {
		s.client = NewClient(cfg)
	}
	return s
}

func (s *Supplier) Evaluate(ctx context.Context, req EvalContext) (Evaluation, error) {
	if s.client != nil {
		ev, err := s.client.Evaluate(ctx, req)
		if err == nil {
			return ev, nil
		}
		s.log.Warn("model evaluation failed, using fallback rules", "error", err)
	}
	return s.fallback.Evaluate(ctx, req)
}

func (s *Supplier) Chat(ctx context.Context, req ChatContext) (ChatReply, error) {
	if s.client != nil {
		reply, err := s.client.Chat(ctx, req)
		if err == nil {
			return reply, nil
		}
		s.log.Warn("model chat failed, using fallback reply", "error", err)
	}
	return s.fallback.Chat(ctx, req)
}
