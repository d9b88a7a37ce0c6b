package negotiation

import (
	"encoding/json"
	"strconv"

	"supplycraft/internal/sim"
)

// Candidate is a contract-shaped value recovered from the supplier
// capability's free-form output. It is deliberately loose: fields may
// be absent and numbers may arrive as strings. A Candidate never enters
// the game directly; it must pass through Contract() and Clamp first.
type Candidate struct {
	WholesalePrice *float64
	BuybackPrice   *float64
	CapType        string
	CapValue       *float64
	Length         *int
	ContractType   string
	RevenueShare   *float64
}

// candidateFromMap coerces a decoded JSON object into a Candidate.
// Accepts both "length" and "contract_length" for the horizon field.
func candidateFromMap(m map[string]any) Candidate {
	var c Candidate
	if v, ok := toFloat(m["wholesale_price"]); ok {
		c.WholesalePrice = &v
	}
	if v, ok := toFloat(m["buyback_price"]); ok {
		c.BuybackPrice = &v
	}
	if v, ok := toFloat(m["cap_value"]); ok {
		c.CapValue = &v
	}
	if v, ok := toFloat(m["revenue_share"]); ok {
		c.RevenueShare = &v
	}
	if v, ok := toFloat(m["contract_length"]); ok {
		n := int(v)
		c.Length = &n
	} else if v, ok := toFloat(m["length"]); ok {
		n := int(v)
		c.Length = &n
	}
	if s, ok := m["cap_type"].(string); ok {
		c.CapType = s
	}
	if s, ok := m["contract_type"].(string); ok {
		c.ContractType = s
	}
	return c
}

// Empty reports whether no usable term was recovered at all.
func (c Candidate) Empty() bool {
	return c.WholesalePrice == nil && c.BuybackPrice == nil && c.CapValue == nil &&
		c.Length == nil && c.RevenueShare == nil && c.CapType == "" && c.ContractType == ""
}

// Contract converts the candidate into a strict contract, filling gaps
// from the configured defaults. It rejects structurally broken
// candidates (no positive wholesale price, buyback at or above
// wholesale) rather than guessing.
func (c Candidate) Contract(cfg Config) (sim.Contract, error) {
	if c.WholesalePrice == nil || *c.WholesalePrice <= 0 {
		return sim.Contract{}, invalidf("candidate has no usable wholesale price")
	}

	out := sim.Contract{
		WholesalePrice: *c.WholesalePrice,
		CapValue:       cfg.CapValueMax,
		Length:         cfg.LengthMin,
		RevenueShare:   cfg.RevenueShareMin,
	}

	if c.BuybackPrice != nil {
		if *c.BuybackPrice < 0 || *c.BuybackPrice >= out.WholesalePrice {
			return sim.Contract{}, invalidf("candidate buyback price is incompatible with its wholesale price")
		}
		out.BuybackPrice = *c.BuybackPrice
	}
	if c.CapValue != nil {
		out.CapValue = *c.CapValue
	}
	if c.Length != nil {
		out.Length = *c.Length
	}
	if c.RevenueShare != nil {
		out.RevenueShare = *c.RevenueShare
	}

	out.CapType = sim.CapType(c.CapType)
	if !out.CapType.Valid() {
		if cfg.CapTypeAllowed == CapAllowedUnit {
			out.CapType = sim.CapUnit
		} else {
			out.CapType = sim.CapFraction
		}
	}

	out.ContractType = sim.ContractType(c.ContractType)
	if !out.ContractType.Valid() {
		out.ContractType = sim.ContractBuyback
	}

	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
