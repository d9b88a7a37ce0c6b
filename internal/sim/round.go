package sim

import (
	"errors"
	"math"
)

var ErrNegativeQuantity = errors.New("order quantity and demand must be non-negative")

// RoundOutput is the full financial breakdown of one simulated round.
// Quantities are unit counts; monetary fields are real-valued. All
// monetary fields are non-negative except the two profits.
type RoundOutput struct {
	OrderQuantity  int `json:"order_quantity"`
	RealizedDemand int `json:"realized_demand"`

	Sales     int `json:"sales"`
	Unsold    int `json:"unsold"`
	Returns   int `json:"returns"`
	Leftovers int `json:"leftovers"`

	BuyerRevenue    float64 `json:"buyer_revenue"`
	BuyerCost       float64 `json:"buyer_cost"`
	BuyerProfit     float64 `json:"buyer_profit"`
	SupplierRevenue float64 `json:"supplier_revenue"`
	SupplierCost    float64 `json:"supplier_cost"`
	SupplierProfit  float64 `json:"supplier_profit"`

	// Buyer-side components.
	RetailRevenue            float64 `json:"retail_revenue"`
	SalvageRevenueBuyer      float64 `json:"salvage_revenue_buyer"`
	BuybackRefundBuyer       float64 `json:"buyback_refund_buyer"`
	WholesaleCostBuyer       float64 `json:"wholesale_cost_buyer"`
	ReturnShippingCostBuyer  float64 `json:"return_shipping_cost_buyer"`
	RevenueSharePaymentBuyer float64 `json:"revenue_share_payment_buyer"`

	// Supplier-side components.
	WholesaleRevenueSupplier    float64 `json:"wholesale_revenue_supplier"`
	SalvageRevenueSupplier      float64 `json:"salvage_revenue_supplier"`
	ProductionCostSupplier      float64 `json:"production_cost_supplier"`
	BuybackCostSupplier         float64 `json:"buyback_cost_supplier"`
	ReturnHandlingCostSupplier  float64 `json:"return_handling_cost_supplier"`
	RevenueShareRevenueSupplier float64 `json:"revenue_share_revenue_supplier"`
}

// returnCap computes the maximum returnable units for this round.
// Fraction caps scale with Q and are floored; unit caps are absolute.
func returnCap(c Contract, q int) int {
	if c.CapType == CapFraction {
		return int(math.Floor(c.CapValue * float64(q)))
	}
	return int(math.Floor(c.CapValue))
}

// Simulate computes one round's physical flows and the buyer/supplier
// revenue, cost and profit breakdown under the given contract. It is
// pure: the caller owns the remaining-rounds decrement and all state
// updates.
func Simulate(p Params, c Contract, q, d int) (RoundOutput, error) {
	if q < 0 || d < 0 {
		return RoundOutput{}, ErrNegativeQuantity
	}

	out := RoundOutput{
		OrderQuantity:  q,
		RealizedDemand: d,
		Sales:          min(q, d),
		Unsold:         max(q-d, 0),
	}
	out.Leftovers = out.Unsold

	if c.ContractType.UsesBuyback() {
		out.Returns = min(out.Unsold, returnCap(c, q))
		out.Leftovers = out.Unsold - out.Returns
	}

	share := 0.0
	if c.ContractType.UsesRevenueShare() {
		share = math.Min(math.Max(c.RevenueShare, 0), 1)
	}

	// Buyer side. Retail revenue is shared once; the buyback and
	// revenue-share terms never touch the same units twice.
	out.RetailRevenue = p.RetailPrice * float64(out.Sales)
	out.SalvageRevenueBuyer = p.BuyerSalvage * float64(out.Leftovers)
	out.WholesaleCostBuyer = c.WholesalePrice * float64(q)
	if c.ContractType.UsesBuyback() {
		out.BuybackRefundBuyer = c.BuybackPrice * float64(out.Returns)
		out.ReturnShippingCostBuyer = p.ReturnShippingBuyer * float64(out.Returns)
	}
	if c.ContractType.UsesRevenueShare() {
		out.RevenueSharePaymentBuyer = share * out.RetailRevenue
	}

	out.BuyerRevenue = out.RetailRevenue + out.SalvageRevenueBuyer + out.BuybackRefundBuyer
	out.BuyerCost = out.WholesaleCostBuyer + out.ReturnShippingCostBuyer + out.RevenueSharePaymentBuyer
	out.BuyerProfit = out.BuyerRevenue - out.BuyerCost

	// Supplier side.
	out.WholesaleRevenueSupplier = c.WholesalePrice * float64(q)
	out.ProductionCostSupplier = p.SupplierCost * float64(q)
	if c.ContractType.UsesBuyback() {
		out.SalvageRevenueSupplier = p.SupplierSalvage * float64(out.Returns)
		out.BuybackCostSupplier = c.BuybackPrice * float64(out.Returns)
		out.ReturnHandlingCostSupplier = p.ReturnHandlingSupplier * float64(out.Returns)
	}
	if c.ContractType.UsesRevenueShare() {
		out.RevenueShareRevenueSupplier = share * out.RetailRevenue
	}

	out.SupplierRevenue = out.WholesaleRevenueSupplier + out.SalvageRevenueSupplier + out.RevenueShareRevenueSupplier
	out.SupplierCost = out.ProductionCostSupplier + out.BuybackCostSupplier + out.ReturnHandlingCostSupplier
	out.SupplierProfit = out.SupplierRevenue - out.SupplierCost

	return out, nil
}
