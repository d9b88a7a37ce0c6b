package negotiation

import (
	"testing"

	"supplycraft/internal/sim"
)

func TestExtractJSONBody(t *testing.T) {
	reply := `{"response": "Deal.", "contract": {"wholesale_price": 24.5, "buyback_price": 10, "cap_type": "fraction", "cap_value": 0.3, "contract_length": 4, "contract_type": "buyback"}, "negotiation_complete": true}`

	c, ok := ExtractCandidate(reply)
	if !ok {
		t.Fatal("expected a candidate from JSON envelope")
	}
	if c.WholesalePrice == nil || *c.WholesalePrice != 24.5 {
		t.Errorf("wrong wholesale: %+v", c.WholesalePrice)
	}
	if c.BuybackPrice == nil || *c.BuybackPrice != 10 {
		t.Errorf("wrong buyback: %+v", c.BuybackPrice)
	}
	if c.Length == nil || *c.Length != 4 {
		t.Errorf("wrong length: %+v", c.Length)
	}
	if c.ContractType != "buyback" || c.CapType != "fraction" {
		t.Errorf("wrong type fields: %q %q", c.ContractType, c.CapType)
	}
}

func TestExtractBareContractObject(t *testing.T) {
	reply := `{"wholesale_price": "22", "length": 3}`

	c, ok := ExtractCandidate(reply)
	if !ok {
		t.Fatal("expected a candidate from bare object")
	}
	// String-typed numbers still count.
	if c.WholesalePrice == nil || *c.WholesalePrice != 22 {
		t.Errorf("wrong wholesale: %+v", c.WholesalePrice)
	}
	if c.Length == nil || *c.Length != 3 {
		t.Errorf("wrong length: %+v", c.Length)
	}
}

func TestExtractFencedJSON(t *testing.T) {
	reply := "Here is my counter-offer:\n```json\n{\"wholesale_price\": 23, \"buyback_price\": 9}\n```\nLet me know."

	c, ok := ExtractCandidate(reply)
	if !ok {
		t.Fatal("expected a candidate from fenced block")
	}
	if c.WholesalePrice == nil || *c.WholesalePrice != 23 {
		t.Errorf("wrong wholesale: %+v", c.WholesalePrice)
	}
}

func TestExtractProsePatterns(t *testing.T) {
	reply := "I can do a wholesale price of $24.50 with a buyback of $9 over 5 rounds, return cap at 30%."

	c, ok := ExtractCandidate(reply)
	if !ok {
		t.Fatal("expected a candidate from prose")
	}
	if c.WholesalePrice == nil || *c.WholesalePrice != 24.5 {
		t.Errorf("wrong wholesale: %+v", c.WholesalePrice)
	}
	if c.BuybackPrice == nil || *c.BuybackPrice != 9 {
		t.Errorf("wrong buyback: %+v", c.BuybackPrice)
	}
	if c.Length == nil || *c.Length != 5 {
		t.Errorf("wrong length: %+v", c.Length)
	}
	if c.CapValue == nil || *c.CapValue != 0.3 {
		t.Errorf("wrong cap: %+v", c.CapValue)
	}
}

func TestExtractNothing(t *testing.T) {
	for _, reply := range []string{
		"Let's keep talking about the terms.",
		"",
		"{\"response\": \"I need more margin.\"}",
	} {
		if _, ok := ExtractCandidate(reply); ok {
			t.Errorf("expected no candidate from %q", reply)
		}
	}
}

func TestCandidateContractFillsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	w := 24.0
	c := Candidate{WholesalePrice: &w}

	got, err := c.Contract(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ContractType != sim.ContractBuyback {
		t.Errorf("expected default type buyback, got %q", got.ContractType)
	}
	if got.CapType != sim.CapFraction {
		t.Errorf("expected default cap type fraction, got %q", got.CapType)
	}
	if got.CapValue != cfg.CapValueMax {
		t.Errorf("expected default cap %g, got %g", cfg.CapValueMax, got.CapValue)
	}
	if got.Length != cfg.LengthMin {
		t.Errorf("expected default length %d, got %d", cfg.LengthMin, got.Length)
	}
}

func TestCandidateContractRejectsBroken(t *testing.T) {
	cfg := DefaultConfig()
	zero, w, bb := 0.0, 20.0, 25.0

	cases := []struct {
		name string
		c    Candidate
	}{
		{"no wholesale", Candidate{}},
		{"zero wholesale", Candidate{WholesalePrice: &zero}},
		{"buyback above wholesale", Candidate{WholesalePrice: &w, BuybackPrice: &bb}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.c.Contract(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
