package sim

// ContractType selects which settlement mechanisms a contract carries.
type ContractType string

const (
	// ContractBuyback lets the buyer return unsold units up to a cap.
	ContractBuyback ContractType = "buyback"
	// ContractRevenueSharing gives the supplier a cut of retail revenue; no returns.
	ContractRevenueSharing ContractType = "revenue_sharing"
	// ContractHybrid combines buyback returns with a revenue share.
	ContractHybrid ContractType = "hybrid"
)

// Valid reports whether t is one of the known contract types.
func (t ContractType) Valid() bool {
	switch t {
	case ContractBuyback, ContractRevenueSharing, ContractHybrid:
		return true
	}
	return false
}

// UsesBuyback reports whether the type settles returns through a buyback cap.
func (t ContractType) UsesBuyback() bool {
	return t == ContractBuyback || t == ContractHybrid
}

// UsesRevenueShare reports whether the type pays a share of retail revenue.
func (t ContractType) UsesRevenueShare() bool {
	return t == ContractRevenueSharing || t == ContractHybrid
}

// CapType selects how a buyback cap is expressed.
type CapType string

const (
	// CapFraction caps returns at a fraction of the round's order quantity.
	CapFraction CapType = "fraction"
	// CapUnit caps returns at an absolute unit count, independent of Q.
	CapUnit CapType = "unit"
)

// Valid reports whether c is one of the known cap types.
func (c CapType) Valid() bool {
	return c == CapFraction || c == CapUnit
}

// Contract holds the agreed terms between buyer and supplier.
// A zero-length contract (Length == 0, RemainingRounds == 0) means
// "no active contract".
type Contract struct {
	WholesalePrice  float64      `json:"wholesale_price" yaml:"wholesale_price"`
	BuybackPrice    float64      `json:"buyback_price" yaml:"buyback_price"`
	CapType         CapType      `json:"cap_type" yaml:"cap_type"`
	CapValue        float64      `json:"cap_value" yaml:"cap_value"`
	Length          int          `json:"length" yaml:"length"`
	RemainingRounds int          `json:"remaining_rounds" yaml:"remaining_rounds"`
	ContractType    ContractType `json:"contract_type" yaml:"contract_type"`
	RevenueShare    float64      `json:"revenue_share" yaml:"revenue_share"`
}

// Active reports whether the contract still covers at least one round.
func (c Contract) Active() bool {
	return c.RemainingRounds > 0
}
