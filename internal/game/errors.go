package game

import "errors"

// Operation errors. Each maps to a client-visible failure; none of
// them leaves the session in a partially mutated state.
var (
	ErrGameOver         = errors.New("game is over, start a new game")
	ErrGameNotOver      = errors.New("game is not over yet")
	ErrContractActive   = errors.New("a contract is already active, wait until it expires before proposing a new one")
	ErrNoActiveContract = errors.New("no active contract, negotiate terms before ordering")
	ErrNoDraft          = errors.New("no draft contract available to accept")
	ErrInvalidRounds    = errors.New("total rounds must be at least 1")
)
