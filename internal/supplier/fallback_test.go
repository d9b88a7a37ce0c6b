package supplier

import (
	"context"
	"testing"

	"supplycraft/internal/sim"
)

func TestFallbackEvaluate(t *testing.T) {
	p := sim.DefaultParams() // supplier cost 12

	cases := []struct {
		name      string
		wholesale float64
		buyback   float64
		want      Decision
	}{
		{"below floor", 12.5, 0, DecisionReject},
		{"at floor but under buffer", 13, 0, DecisionReject},
		{"just under acceptable", 16.9, 0, DecisionReject},
		{"acceptable", 17, 0, DecisionAccept},
		{"generous", 25, 12, DecisionAccept},
		{"buyback too close to wholesale", 25, 24.5, DecisionReject},
		{"buyback at max gap", 25, 24, DecisionAccept},
	}

	var f Fallback
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := f.Evaluate(context.Background(), EvalContext{
				Proposal: sim.Contract{
					WholesalePrice: tt.wholesale,
					BuybackPrice:   tt.buyback,
					ContractType:   sim.ContractBuyback,
				},
				Params: p,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.Decision != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, ev.Decision, ev.Message)
			}
			if ev.Message == "" {
				t.Error("decision must carry a message")
			}
		})
	}
}

func TestFallbackChat(t *testing.T) {
	var f Fallback
	reply, err := f.Chat(context.Background(), ChatContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Message == "" {
		t.Error("fallback chat must always reply")
	}
	if reply.Candidate != nil || reply.Complete {
		t.Error("fallback chat must never produce a draft")
	}
}
