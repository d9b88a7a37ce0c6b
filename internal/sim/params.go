package sim

// Params defines the economic environment shared by every contract.
// Loaded once at startup and treated as immutable for the life of a game.
type Params struct {
	// RetailPrice is the price at which the buyer sells to customers.
	RetailPrice float64 `json:"retail_price" yaml:"retail_price"`
	// BuyerSalvage is the per-unit value of leftover inventory kept by the buyer.
	BuyerSalvage float64 `json:"buyer_salvage_value" yaml:"buyer_salvage_value"`
	// SupplierSalvage is the per-unit value the supplier recovers from returned units.
	SupplierSalvage float64 `json:"supplier_salvage_value" yaml:"supplier_salvage_value"`
	// SupplierCost is the supplier's per-unit production cost.
	SupplierCost float64 `json:"supplier_cost" yaml:"supplier_cost"`
	// ReturnShippingBuyer is the per-unit cost the buyer pays to ship returns.
	ReturnShippingBuyer float64 `json:"return_shipping_buyer" yaml:"return_shipping_buyer"`
	// ReturnHandlingSupplier is the per-unit cost the supplier pays to process returns.
	ReturnHandlingSupplier float64 `json:"return_handling_supplier" yaml:"return_handling_supplier"`
}

// DefaultParams returns the stock classroom environment.
func DefaultParams() Params {
	return Params{
		RetailPrice:            50.0,
		BuyerSalvage:           3.0,
		SupplierSalvage:        12.0,
		SupplierCost:           12.0,
		ReturnShippingBuyer:    1.0,
		ReturnHandlingSupplier: 0.5,
	}
}
