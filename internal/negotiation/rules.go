package negotiation

import (
	"fmt"
	"math"

	"supplycraft/internal/sim"
)

// ValidationError describes why a proposal was refused. It is always a
// client error; nothing about the game changes when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a proposed contract against the negotiation
// constraints, short-circuiting on the first violation. On success it
// returns the normalized contract: revenue share zeroed for pure
// buyback, buyback price zeroed for pure revenue sharing.
func Validate(proposal sim.Contract, cfg Config) (sim.Contract, error) {
	if !proposal.ContractType.Valid() || !cfg.TypeAvailable(proposal.ContractType) {
		return sim.Contract{}, invalidf("contract type %q is not available", proposal.ContractType)
	}

	if proposal.Length < cfg.LengthMin || proposal.Length > cfg.LengthMax {
		return sim.Contract{}, invalidf("contract length must be between %d and %d rounds",
			cfg.LengthMin, cfg.LengthMax)
	}

	if !proposal.CapType.Valid() || !cfg.CapTypeAllowed.Permits(proposal.CapType) {
		return sim.Contract{}, invalidf("cap type %q is not allowed", proposal.CapType)
	}

	if proposal.CapValue < cfg.CapValueMin || proposal.CapValue > cfg.CapValueMax {
		return sim.Contract{}, invalidf("cap value must be between %g and %g",
			cfg.CapValueMin, cfg.CapValueMax)
	}

	if proposal.ContractType.UsesRevenueShare() {
		if proposal.RevenueShare < cfg.RevenueShareMin || proposal.RevenueShare > cfg.RevenueShareMax {
			return sim.Contract{}, invalidf("revenue share must be between %g and %g",
				cfg.RevenueShareMin, cfg.RevenueShareMax)
		}
	} else {
		proposal.RevenueShare = 0
	}

	if proposal.ContractType.UsesBuyback() {
		if proposal.BuybackPrice >= proposal.WholesalePrice {
			return sim.Contract{}, invalidf("buyback price must be below the wholesale price")
		}
	} else {
		proposal.BuybackPrice = 0
	}

	return proposal, nil
}

// Clamp coerces a chat-derived candidate contract into the configured
// ranges instead of rejecting it. Only drafts that emerged from
// conversation go through here; first proposals always use Validate.
func Clamp(candidate sim.Contract, cfg Config) sim.Contract {
	candidate.Length = clampInt(candidate.Length, cfg.LengthMin, cfg.LengthMax)

	if !candidate.CapType.Valid() || !cfg.CapTypeAllowed.Permits(candidate.CapType) {
		if cfg.CapTypeAllowed == CapAllowedUnit {
			candidate.CapType = sim.CapUnit
		} else {
			candidate.CapType = sim.CapFraction
		}
	}
	switch candidate.CapType {
	case sim.CapFraction:
		candidate.CapValue = clampFloat(candidate.CapValue, cfg.CapValueMin, cfg.CapValueMax)
	case sim.CapUnit:
		// Unit caps are absolute counts; only the lower bound applies.
		candidate.CapValue = math.Max(candidate.CapValue, cfg.CapValueMin)
	}

	if candidate.WholesalePrice < 0 {
		candidate.WholesalePrice = 0
	}

	if candidate.ContractType.UsesRevenueShare() {
		candidate.RevenueShare = clampFloat(candidate.RevenueShare, cfg.RevenueShareMin, cfg.RevenueShareMax)
	} else {
		candidate.RevenueShare = 0
	}

	if candidate.ContractType.UsesBuyback() {
		if candidate.BuybackPrice < 0 {
			candidate.BuybackPrice = 0
		}
		if candidate.BuybackPrice >= candidate.WholesalePrice && candidate.WholesalePrice > 0 {
			candidate.BuybackPrice = candidate.WholesalePrice - 1
			if candidate.BuybackPrice < 0 {
				candidate.BuybackPrice = 0
			}
		}
	} else {
		candidate.BuybackPrice = 0
	}

	return candidate
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
