package sim

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimulateBuyback(t *testing.T) {
	p := DefaultParams()
	c := Contract{
		WholesalePrice:  25,
		BuybackPrice:    12,
		CapType:         CapFraction,
		CapValue:        0.5,
		Length:          3,
		RemainingRounds: 3,
		ContractType:    ContractBuyback,
	}

	out, err := Simulate(p, c, 100, 95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Sales != 95 {
		t.Errorf("expected sales 95, got %d", out.Sales)
	}
	if out.Unsold != 5 {
		t.Errorf("expected unsold 5, got %d", out.Unsold)
	}
	// cap = floor(0.5 * 100) = 50, so all 5 unsold units go back
	if out.Returns != 5 {
		t.Errorf("expected returns 5, got %d", out.Returns)
	}
	if out.Leftovers != 0 {
		t.Errorf("expected leftovers 0, got %d", out.Leftovers)
	}

	// 50*95 + 3*0 + 12*5 - 25*100 - 1*5 = 2305
	if !almostEqual(out.BuyerProfit, 2305) {
		t.Errorf("expected buyer profit 2305, got %v", out.BuyerProfit)
	}
	// 25*100 + 12*5 - 12*100 - 12*5 - 0.5*5 = 1297.5
	if !almostEqual(out.SupplierProfit, 1297.5) {
		t.Errorf("expected supplier profit 1297.5, got %v", out.SupplierProfit)
	}
	if out.RevenueSharePaymentBuyer != 0 || out.RevenueShareRevenueSupplier != 0 {
		t.Error("buyback contract must not carry revenue share terms")
	}
}

func TestSimulateBuybackUnitCap(t *testing.T) {
	p := DefaultParams()
	c := Contract{
		WholesalePrice: 25,
		BuybackPrice:   10,
		CapType:        CapUnit,
		CapValue:       3,
		ContractType:   ContractBuyback,
	}

	out, err := Simulate(p, c, 100, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// unit cap is absolute, not scaled by Q
	if out.Returns != 3 {
		t.Errorf("expected returns 3, got %d", out.Returns)
	}
	if out.Leftovers != 17 {
		t.Errorf("expected leftovers 17, got %d", out.Leftovers)
	}
}

func TestSimulateRevenueSharing(t *testing.T) {
	p := DefaultParams()
	c := Contract{
		WholesalePrice: 20,
		CapType:        CapFraction,
		ContractType:   ContractRevenueSharing,
		RevenueShare:   0.2,
	}

	out, err := Simulate(p, c, 100, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Returns != 0 {
		t.Errorf("expected no returns, got %d", out.Returns)
	}
	if out.Leftovers != 10 {
		t.Errorf("expected leftovers 10, got %d", out.Leftovers)
	}

	retail := 50.0 * 90
	sharePay := 0.2 * retail
	// retail - share + salvage - wholesale
	wantBuyer := retail - sharePay + 3.0*10 - 20.0*100
	if !almostEqual(out.BuyerProfit, wantBuyer) {
		t.Errorf("expected buyer profit %v, got %v", wantBuyer, out.BuyerProfit)
	}
	// wholesale + share - production
	wantSupplier := 20.0*100 + sharePay - 12.0*100
	if !almostEqual(out.SupplierProfit, wantSupplier) {
		t.Errorf("expected supplier profit %v, got %v", wantSupplier, out.SupplierProfit)
	}
}

func TestSimulateHybrid(t *testing.T) {
	p := DefaultParams()
	c := Contract{
		WholesalePrice: 25,
		BuybackPrice:   8,
		CapType:        CapFraction,
		CapValue:       0.1,
		ContractType:   ContractHybrid,
		RevenueShare:   0.15,
	}

	out, err := Simulate(p, c, 100, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// cap = floor(0.1*100) = 10 of 40 unsold
	if out.Returns != 10 {
		t.Errorf("expected returns 10, got %d", out.Returns)
	}
	if out.Leftovers != 30 {
		t.Errorf("expected leftovers 30, got %d", out.Leftovers)
	}

	retail := 50.0 * 60
	sharePay := 0.15 * retail
	wantBuyer := retail - sharePay + 3.0*30 + 8.0*10 - 25.0*100 - 1.0*10
	if !almostEqual(out.BuyerProfit, wantBuyer) {
		t.Errorf("expected buyer profit %v, got %v", wantBuyer, out.BuyerProfit)
	}
	wantSupplier := 25.0*100 + sharePay + 12.0*10 - 12.0*100 - 8.0*10 - 0.5*10
	if !almostEqual(out.SupplierProfit, wantSupplier) {
		t.Errorf("expected supplier profit %v, got %v", wantSupplier, out.SupplierProfit)
	}
}

func TestSimulateFlowConservation(t *testing.T) {
	p := DefaultParams()

	cases := []struct {
		name string
		ct   ContractType
		q, d int
	}{
		{"buyback oversupply", ContractBuyback, 120, 80},
		{"buyback stockout", ContractBuyback, 50, 200},
		{"buyback exact", ContractBuyback, 100, 100},
		{"revenue sharing oversupply", ContractRevenueSharing, 90, 40},
		{"hybrid oversupply", ContractHybrid, 150, 30},
		{"zero order", ContractBuyback, 0, 75},
		{"zero demand", ContractHybrid, 60, 0},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := Contract{
				WholesalePrice: 22,
				BuybackPrice:   9,
				CapType:        CapFraction,
				CapValue:       0.3,
				ContractType:   tt.ct,
				RevenueShare:   0.25,
			}

			out, err := Simulate(p, c, tt.q, tt.d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out.Sales+out.Unsold != tt.q {
				t.Errorf("sales %d + unsold %d != Q %d", out.Sales, out.Unsold, tt.q)
			}
			if tt.ct.UsesBuyback() {
				if out.Returns+out.Leftovers != out.Unsold {
					t.Errorf("returns %d + leftovers %d != unsold %d", out.Returns, out.Leftovers, out.Unsold)
				}
			} else {
				if out.Returns != 0 || out.Leftovers != out.Unsold {
					t.Errorf("revenue sharing must keep all unsold: returns %d leftovers %d unsold %d",
						out.Returns, out.Leftovers, out.Unsold)
				}
			}

			if !almostEqual(out.BuyerProfit, out.BuyerRevenue-out.BuyerCost) {
				t.Error("buyer profit must equal revenue minus cost")
			}
			if !almostEqual(out.SupplierProfit, out.SupplierRevenue-out.SupplierCost) {
				t.Error("supplier profit must equal revenue minus cost")
			}
		})
	}
}

func TestSimulateMoneyConservation(t *testing.T) {
	// Every dollar is either retail revenue, salvage, or a cost borne by
	// one side; the transfers (wholesale, buyback refund, revenue share)
	// must cancel out of the system total.
	p := DefaultParams()
	c := Contract{
		WholesalePrice: 25,
		BuybackPrice:   10,
		CapType:        CapFraction,
		CapValue:       0.4,
		ContractType:   ContractHybrid,
		RevenueShare:   0.1,
	}

	out, err := Simulate(p, c, 100, 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	system := out.RetailRevenue +
		p.BuyerSalvage*float64(out.Leftovers) +
		p.SupplierSalvage*float64(out.Returns) -
		p.SupplierCost*float64(out.OrderQuantity) -
		p.ReturnShippingBuyer*float64(out.Returns) -
		p.ReturnHandlingSupplier*float64(out.Returns)

	if !almostEqual(out.BuyerProfit+out.SupplierProfit, system) {
		t.Errorf("profits %v do not sum to system margin %v",
			out.BuyerProfit+out.SupplierProfit, system)
	}
}

func TestSimulateNegativeInputs(t *testing.T) {
	p := DefaultParams()
	c := Contract{WholesalePrice: 20, ContractType: ContractBuyback, CapType: CapFraction}

	if _, err := Simulate(p, c, -1, 10); err != ErrNegativeQuantity {
		t.Errorf("expected ErrNegativeQuantity, got %v", err)
	}
	if _, err := Simulate(p, c, 10, -1); err != ErrNegativeQuantity {
		t.Errorf("expected ErrNegativeQuantity, got %v", err)
	}
}
