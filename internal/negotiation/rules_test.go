package negotiation

import (
	"testing"

	"supplycraft/internal/sim"
)

func validProposal() sim.Contract {
	return sim.Contract{
		WholesalePrice: 25,
		BuybackPrice:   12,
		CapType:        sim.CapFraction,
		CapValue:       0.5,
		Length:         3,
		ContractType:   sim.ContractBuyback,
	}
}

func TestValidateAccepts(t *testing.T) {
	got, err := Validate(validProposal(), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RevenueShare != 0 {
		t.Errorf("buyback proposal must carry zero revenue share, got %v", got.RevenueShare)
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name   string
		mutate func(*sim.Contract)
	}{
		{"unknown type", func(c *sim.Contract) { c.ContractType = "consignment" }},
		{"length below min", func(c *sim.Contract) { c.Length = 0 }},
		{"length above max", func(c *sim.Contract) { c.Length = 11 }},
		{"disallowed cap type", func(c *sim.Contract) { c.CapType = sim.CapUnit }},
		{"cap above max", func(c *sim.Contract) { c.CapValue = 0.6 }},
		{"cap below min", func(c *sim.Contract) { c.CapValue = -0.1 }},
		{"buyback at wholesale", func(c *sim.Contract) { c.BuybackPrice = 25 }},
		{"buyback above wholesale", func(c *sim.Contract) { c.BuybackPrice = 30 }},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			p := validProposal()
			tt.mutate(&p)
			if _, err := Validate(p, cfg); err == nil {
				t.Error("expected validation error")
			} else if _, ok := err.(*ValidationError); !ok {
				t.Errorf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateTypeRestriction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContractTypes = []sim.ContractType{sim.ContractRevenueSharing}

	if _, err := Validate(validProposal(), cfg); err == nil {
		t.Error("buyback must be rejected when only revenue sharing is offered")
	}
}

func TestValidateRevenueShareRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RevenueShareMax = 0.4

	p := sim.Contract{
		WholesalePrice: 20,
		CapType:        sim.CapFraction,
		CapValue:       0.2,
		Length:         2,
		ContractType:   sim.ContractRevenueSharing,
		RevenueShare:   0.5,
	}
	if _, err := Validate(p, cfg); err == nil {
		t.Error("expected rejection for share above configured max")
	}

	p.RevenueShare = 0.3
	got, err := Validate(p, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BuybackPrice != 0 {
		t.Errorf("revenue sharing proposal must carry zero buyback price, got %v", got.BuybackPrice)
	}
}

func TestValidateHybridNeedsBothTerms(t *testing.T) {
	p := sim.Contract{
		WholesalePrice: 25,
		BuybackPrice:   24,
		CapType:        sim.CapFraction,
		CapValue:       0.3,
		Length:         4,
		ContractType:   sim.ContractHybrid,
		RevenueShare:   0.2,
	}

	got, err := Validate(p, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BuybackPrice != 24 || got.RevenueShare != 0.2 {
		t.Errorf("hybrid must keep both terms, got buyback %v share %v", got.BuybackPrice, got.RevenueShare)
	}
}

func TestClampCoercesIntoRange(t *testing.T) {
	cfg := DefaultConfig()

	c := sim.Contract{
		WholesalePrice: 30,
		BuybackPrice:   35,
		CapType:        sim.CapUnit,
		CapValue:       0.9,
		Length:         25,
		ContractType:   sim.ContractBuyback,
		RevenueShare:   0.4,
	}
	got := Clamp(c, cfg)

	if got.Length != cfg.LengthMax {
		t.Errorf("expected length clamped to %d, got %d", cfg.LengthMax, got.Length)
	}
	if got.CapType != sim.CapFraction {
		t.Errorf("disallowed cap type must fall back to fraction, got %q", got.CapType)
	}
	if got.CapValue != cfg.CapValueMax {
		t.Errorf("expected cap clamped to %g, got %g", cfg.CapValueMax, got.CapValue)
	}
	if got.BuybackPrice >= got.WholesalePrice {
		t.Errorf("clamped buyback %v must stay below wholesale %v", got.BuybackPrice, got.WholesalePrice)
	}
	if got.RevenueShare != 0 {
		t.Errorf("buyback draft must carry zero revenue share, got %v", got.RevenueShare)
	}
}

func TestClampUnitCapKeepsAbsoluteValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapTypeAllowed = CapAllowedUnit

	c := sim.Contract{
		WholesalePrice: 20,
		CapType:        sim.CapUnit,
		CapValue:       40,
		Length:         2,
		ContractType:   sim.ContractBuyback,
	}
	got := Clamp(c, cfg)

	// A unit cap is an absolute count; the fraction ceiling must not apply.
	if got.CapValue != 40 {
		t.Errorf("unit cap must survive clamping, got %g", got.CapValue)
	}
}
