package negotiation

import "supplycraft/internal/sim"

// CapTypeAllowed restricts which cap types proposals may carry.
type CapTypeAllowed string

const (
	CapAllowedFraction CapTypeAllowed = "fraction"
	CapAllowedUnit     CapTypeAllowed = "unit"
	CapAllowedBoth     CapTypeAllowed = "both"
)

// Permits reports whether the restriction accepts the given cap type.
func (a CapTypeAllowed) Permits(c sim.CapType) bool {
	switch a {
	case CapAllowedBoth:
		return c.Valid()
	case CapAllowedFraction:
		return c == sim.CapFraction
	case CapAllowedUnit:
		return c == sim.CapUnit
	}
	return false
}

// Config holds the instructor-set negotiation constraints plus the
// prompt template handed to the supplier capability.
type Config struct {
	ContractTypes   []sim.ContractType `yaml:"contract_types_available"`
	LengthMin       int                `yaml:"length_min"`
	LengthMax       int                `yaml:"length_max"`
	CapTypeAllowed  CapTypeAllowed     `yaml:"cap_type_allowed"`
	CapValueMin     float64            `yaml:"cap_value_min"`
	CapValueMax     float64            `yaml:"cap_value_max"`
	RevenueShareMin float64            `yaml:"revenue_share_min"`
	RevenueShareMax float64            `yaml:"revenue_share_max"`

	// SystemPromptTemplate seeds the supplier chat persona. Placeholders
	// are substituted by the supplier package.
	SystemPromptTemplate string `yaml:"system_prompt_template"`
}

// DefaultConfig returns the stock negotiation constraints.
func DefaultConfig() Config {
	return Config{
		ContractTypes: []sim.ContractType{
			sim.ContractBuyback,
			sim.ContractRevenueSharing,
			sim.ContractHybrid,
		},
		LengthMin:       1,
		LengthMax:       10,
		CapTypeAllowed:  CapAllowedFraction,
		CapValueMin:     0.0,
		CapValueMax:     0.5,
		RevenueShareMin: 0.0,
		RevenueShareMax: 1.0,
	}
}

// TypeAvailable reports whether t is one of the offered contract types.
func (c Config) TypeAvailable(t sim.ContractType) bool {
	for _, ct := range c.ContractTypes {
		if ct == t {
			return true
		}
	}
	return false
}
