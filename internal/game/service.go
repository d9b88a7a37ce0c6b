package game

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"supplycraft/internal/negotiation"
	"supplycraft/internal/session"
	"supplycraft/internal/sim"
	"supplycraft/internal/supplier"
)

// Service runs the game loop for all sessions: negotiation, draft
// resolution, ordering rounds, and the final summary. Per-session
// locks serialize operations on one session while leaving independent
// sessions concurrent.
type Service struct {
	cfg   Config
	store session.Store[*State]
	gen   *sim.Generator
	eval  supplier.Evaluator
	chat  supplier.Responder
	log   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(cfg Config, eval supplier.Evaluator, chat supplier.Responder, log *slog.Logger) *Service {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(cfg.History) == 0 {
		cfg.History = DefaultHistory()
	}
	return &Service{
		cfg:   cfg,
		store: session.NewMemoryStore[*State](cfg.SessionCapacity),
		gen:   sim.NewGenerator(seed),
		eval:  eval,
		chat:  chat,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// Rules exposes the negotiation constraints in force.
func (s *Service) Rules() negotiation.Config { return s.cfg.Rules }

// Params exposes the economic environment.
func (s *Service) Params() sim.Params { return s.cfg.Params }

// History returns the seed demand history.
func (s *Service) History() []int { return slices.Clone(s.cfg.History) }

func (s *Service) lock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

// StartGame creates a new session with no contract and returns its ID.
func (s *Service) StartGame(rounds int, method sim.DemandMethod) (string, *State, error) {
	if rounds < 1 {
		return "", nil, ErrInvalidRounds
	}
	if !method.Valid() {
		return "", nil, &negotiation.ValidationError{Reason: "invalid demand method, use \"bootstrap\" or \"normal\""}
	}

	id := session.NewID()
	st := &State{
		RoundNumber:       1,
		TotalRounds:       rounds,
		Method:            method,
		HistoricalDemands: slices.Clone(s.cfg.History),
	}
	s.store.Put(id, st)

	s.log.Info("game started", "session", id, "rounds", rounds, "method", method)
	return id, st, nil
}

// GetState returns the session's current state.
func (s *Service) GetState(id string) (*State, error) {
	m := s.lock(id)
	m.Lock()
	defer m.Unlock()
	return s.store.Get(id)
}

// SubmitProposal runs the first step of a negotiation: the proposal is
// validated against the rules, then judged by the supplier. Accepted
// proposals become the active contract immediately. Rejections open
// the chat, seeded with the supplier's explanation. Any prior
// unfinished negotiation is archived as abandoned.
func (s *Service) SubmitProposal(ctx context.Context, id string, proposal sim.Contract) (supplier.Evaluation, *State, error) {
	m := s.lock(id)
	m.Lock()
	defer m.Unlock()

	st, err := s.store.Get(id)
	if err != nil {
		return supplier.Evaluation{}, nil, err
	}
	if st.GameOver() {
		return supplier.Evaluation{}, nil, ErrGameOver
	}
	if st.Contract.Active() {
		return supplier.Evaluation{}, nil, ErrContractActive
	}

	// Validate before touching any state so a bad proposal leaves the
	// session exactly as it was.
	normalized, err := negotiation.Validate(proposal, s.cfg.Rules)
	if err != nil {
		return supplier.Evaluation{}, nil, err
	}

	ev, err := s.eval.Evaluate(ctx, supplier.EvalContext{
		Proposal: normalized,
		Params:   s.cfg.Params,
		History:  st.HistoricalDemands,
	})
	if err != nil {
		return supplier.Evaluation{}, nil, err
	}

	s.archiveNegotiation(st, OutcomeAbandoned, nil)
	st.ChatHistory = nil
	st.Draft = nil
	st.NegotiationStart = time.Now()
	st.ContractTypeLock = normalized.ContractType

	switch ev.Decision {
	case supplier.DecisionAccept:
		normalized.RemainingRounds = normalized.Length
		st.Contract = normalized
		st.Negotiations = append(st.Negotiations, NegotiationRecord{
			Outcome:   OutcomeAccept,
			Contract:  &normalized,
			StartedAt: st.NegotiationStart,
			EndedAt:   time.Now(),
		})
		st.ChatHistory = nil
		st.Draft = nil
		st.NegotiationStart = time.Time{}
		s.log.Info("proposal accepted", "session", id, "type", normalized.ContractType, "wholesale", normalized.WholesalePrice)
	default:
		// The rejection message seeds the chat so the supplier has
		// context when the conversation continues.
		st.ChatHistory = append(st.ChatHistory, supplier.Message{
			Role:    supplier.RoleSupplier,
			Content: ev.Message,
		})
		s.log.Info("proposal rejected", "session", id, "type", normalized.ContractType)
	}

	s.store.Put(id, st)
	return ev, st, nil
}

// Chat sends one student message into the negotiation and returns the
// supplier's reply. Contract terms recovered from the reply become
// the session's draft, clamped to the rules with the contract type
// pinned to the one the negotiation opened with.
func (s *Service) Chat(ctx context.Context, id string, message string) (supplier.ChatReply, *State, error) {
	m := s.lock(id)
	m.Lock()
	defer m.Unlock()

	st, err := s.store.Get(id)
	if err != nil {
		return supplier.ChatReply{}, nil, err
	}
	if st.GameOver() {
		return supplier.ChatReply{}, nil, ErrGameOver
	}

	st.ChatHistory = append(st.ChatHistory, supplier.Message{
		Role:    supplier.RoleStudent,
		Content: message,
	})

	reply, err := s.chat.Chat(ctx, supplier.ChatContext{
		Messages:     st.ChatHistory,
		Draft:        st.Draft,
		ContractType: s.lockedType(st),
		Params:       s.cfg.Params,
		History:      st.HistoricalDemands,
		RoundNumber:  st.RoundNumber,
		TotalRounds:  st.TotalRounds,
		Rules:        s.cfg.Rules,
	})
	if err != nil {
		st.ChatHistory = st.ChatHistory[:len(st.ChatHistory)-1]
		return supplier.ChatReply{}, nil, err
	}

	st.ChatHistory = append(st.ChatHistory, supplier.Message{
		Role:    supplier.RoleSupplier,
		Content: reply.Message,
	})

	if reply.Candidate != nil {
		if draft, err := reply.Candidate.Contract(s.cfg.Rules); err == nil {
			draft.ContractType = s.lockedType(st)
			draft = negotiation.Clamp(draft, s.cfg.Rules)
			st.Draft = &draft
		} else {
			s.log.Warn("discarding unusable draft candidate", "session", id, "error", err)
		}
	}

	s.store.Put(id, st)
	return reply, st, nil
}

func (s *Service) lockedType(st *State) sim.ContractType {
	if st.ContractTypeLock.Valid() {
		return st.ContractTypeLock
	}
	return sim.ContractBuyback
}

// ResolveDraft accepts or rejects the chat-derived draft contract.
// Accepting activates it; rejecting discards it but keeps the chat
// open so negotiation can continue.
func (s *Service) ResolveDraft(id string, accept bool) (*State, error) {
	m := s.lock(id)
	m.Lock()
	defer m.Unlock()

	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if st.GameOver() {
		return nil, ErrGameOver
	}

	if !accept {
		if st.Draft != nil {
			st.ChatHistory = append(st.ChatHistory, supplier.Message{
				Role:    supplier.RoleStudent,
				Content: "I've rejected the previous counteroffer. Let's continue discussing terms.",
			})
		}
		st.Draft = nil
		s.store.Put(id, st)
		return st, nil
	}

	if st.Draft == nil {
		return nil, ErrNoDraft
	}

	st.ChatHistory = append(st.ChatHistory, supplier.Message{
		Role:    supplier.RoleStudent,
		Content: "I accept the counteroffer.",
	})

	contract := *st.Draft
	contract.RemainingRounds = contract.Length

	st.Negotiations = append(st.Negotiations, NegotiationRecord{
		Messages:  slices.Clone(st.ChatHistory),
		Outcome:   OutcomeAccept,
		Contract:  &contract,
		StartedAt: st.NegotiationStart,
		EndedAt:   time.Now(),
	})

	st.Contract = contract
	st.ChatHistory = nil
	st.Draft = nil
	st.NegotiationStart = time.Time{}

	s.store.Put(id, st)
	s.log.Info("draft accepted", "session", id, "type", contract.ContractType, "wholesale", contract.WholesalePrice)
	return st, nil
}

// PlaceOrder plays one round: demand is realized, the round is
// simulated under the active contract, and the session ledger is
// updated. The contract burns one round; the game advances one round.
func (s *Service) PlaceOrder(id string, quantity int) (sim.RoundOutput, *State, error) {
	m := s.lock(id)
	m.Lock()
	defer m.Unlock()

	st, err := s.store.Get(id)
	if err != nil {
		return sim.RoundOutput{}, nil, err
	}
	if st.GameOver() {
		return sim.RoundOutput{}, nil, ErrGameOver
	}
	if !st.Contract.Active() {
		return sim.RoundOutput{}, nil, ErrNoActiveContract
	}
	if quantity < 0 {
		return sim.RoundOutput{}, nil, sim.ErrNegativeQuantity
	}

	demand, err := s.gen.Generate(st.HistoricalDemands, st.Method)
	if err != nil {
		return sim.RoundOutput{}, nil, err
	}

	out, err := sim.Simulate(s.cfg.Params, st.Contract, quantity, demand)
	if err != nil {
		return sim.RoundOutput{}, nil, err
	}

	st.HistoricalDemands = append(st.HistoricalDemands, demand)
	st.CumulativeBuyerProfit += out.BuyerProfit
	st.CumulativeSupplierProfit += out.SupplierProfit
	st.TotalDemand += demand
	st.TotalSales += out.Sales
	st.TotalReturns += out.Returns
	st.TotalLeftovers += out.Leftovers

	st.Contract.RemainingRounds--

	st.Rounds = append(st.Rounds, RoundRecord{
		RoundIndex:      st.RoundNumber,
		OrderQuantity:   quantity,
		RealizedDemand:  demand,
		Sales:           out.Sales,
		Returns:         out.Returns,
		Leftovers:       out.Leftovers,
		BuyerRevenue:    out.BuyerRevenue,
		BuyerCost:       out.BuyerCost,
		BuyerProfit:     out.BuyerProfit,
		SupplierRevenue: out.SupplierRevenue,
		SupplierCost:    out.SupplierCost,
		SupplierProfit:  out.SupplierProfit,
		Contract:        st.Contract,
	})
	st.RoundNumber++

	s.store.Put(id, st)
	s.log.Info("round played", "session", id, "round", st.RoundNumber-1, "quantity", quantity, "demand", demand, "buyer_profit", out.BuyerProfit)
	return out, st, nil
}

// EndEarly stops play before all rounds are used. Ending an already
// finished game is a no-op.
func (s *Service) EndEarly(id string) (*State, error) {
	m := s.lock(id)
	m.Lock()
	defer m.Unlock()

	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if st.GameOver() {
		return st, nil
	}

	st.EndedEarly = true
	s.archiveOngoing(st)

	s.store.Put(id, st)
	s.log.Info("game ended early", "session", id, "rounds_played", st.RoundNumber-1)
	return st, nil
}

// Summarize builds the end-of-game report. The game must be over.
func (s *Service) Summarize(id string) (Summary, error) {
	m := s.lock(id)
	m.Lock()
	defer m.Unlock()

	st, err := s.store.Get(id)
	if err != nil {
		return Summary{}, err
	}
	if !st.GameOver() {
		return Summary{}, ErrGameNotOver
	}

	// A negotiation cut off by the natural end of the game still
	// belongs in the log.
	s.archiveOngoing(st)
	s.store.Put(id, st)

	played := st.RoundNumber - 1
	if played < 0 {
		played = 0
	}

	sum := Summary{
		SessionID:                id,
		TotalRoundsPlayed:        played,
		TotalDemand:              st.TotalDemand,
		TotalSales:               st.TotalSales,
		TotalReturns:             st.TotalReturns,
		TotalLeftovers:           st.TotalLeftovers,
		CumulativeBuyerProfit:    st.CumulativeBuyerProfit,
		CumulativeSupplierProfit: st.CumulativeSupplierProfit,
		HistoricalDemands:        slices.Clone(st.HistoricalDemands),
		Rounds:                   slices.Clone(st.Rounds),
		Negotiations:             slices.Clone(st.Negotiations),
	}

	if played > 0 {
		sum.AverageDemand = float64(st.TotalDemand) / float64(played)
	}
	if st.TotalDemand > 0 {
		sum.FillRate = float64(st.TotalSales) / float64(st.TotalDemand)
		sum.ReturnRate = float64(st.TotalReturns) / float64(st.TotalDemand)
		sum.LeftoverRate = float64(st.TotalLeftovers) / float64(st.TotalDemand)
	}

	return sum, nil
}

// archiveNegotiation moves the live negotiation, if any, into the log.
func (s *Service) archiveNegotiation(st *State, outcome string, contract *sim.Contract) {
	if len(st.ChatHistory) == 0 && st.Draft == nil {
		return
	}
	st.Negotiations = append(st.Negotiations, NegotiationRecord{
		Messages:  slices.Clone(st.ChatHistory),
		Outcome:   outcome,
		Contract:  contract,
		StartedAt: st.NegotiationStart,
		EndedAt:   time.Now(),
	})
}

// archiveOngoing archives the live negotiation at game end: ongoing if
// a draft was on the table, rejected otherwise. The live state is kept
// so repeated summaries do not duplicate the record.
func (s *Service) archiveOngoing(st *State) {
	if len(st.ChatHistory) == 0 && st.Draft == nil {
		return
	}
	outcome := OutcomeRejected
	if st.Draft != nil {
		outcome = OutcomeOngoing
	}
	s.archiveNegotiation(st, outcome, st.Draft)
	st.ChatHistory = nil
	st.Draft = nil
	st.NegotiationStart = time.Time{}
}
