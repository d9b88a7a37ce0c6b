package supplier

import "context"

// Fallback is the deterministic counterparty used when no model is
// configured or the model call fails. Its thresholds are derived from
// the supplier's production cost so the game still teaches the basic
// margin intuition.
type Fallback struct{}

const (
	// Margin over production cost below which no deal happens.
	minMarginOverCost = 1.0
	// Extra buffer over the floor before the supplier accepts outright.
	acceptBufferOverFloor = 4.0
	// Minimum gap the buyback price must keep below the wholesale price.
	minBuybackGap = 1.0
)

func (Fallback) Evaluate(_ context.Context, req EvalContext) (Evaluation, error) {
	minWholesale := req.Params.SupplierCost + minMarginOverCost
	acceptableWholesale := minWholesale + acceptBufferOverFloor
	maxBuyback := req.Proposal.WholesalePrice - minBuybackGap

	if req.Proposal.WholesalePrice < minWholesale {
		return Evaluation{
			Decision: DecisionReject,
			Message:  "The wholesale price is too low for me to operate profitably. Please propose a higher wholesale price.",
		}, nil
	}
	if req.Proposal.BuybackPrice > maxBuyback {
		return Evaluation{
			Decision: DecisionReject,
			Message:  "The buyback price is too high relative to the wholesale price. The buyback should be at least $1 below the wholesale price.",
		}, nil
	}
	if req.Proposal.WholesalePrice < acceptableWholesale {
		return Evaluation{
			Decision: DecisionReject,
			Message:  "The wholesale price is too low given the demand risk. I'd need a higher price to make this work.",
		}, nil
	}

	return Evaluation{
		Decision: DecisionAccept,
		Message:  "These terms are acceptable to me. The contract is now active.",
	}, nil
}

// Chat keeps the conversation open without ever producing a draft.
func (Fallback) Chat(_ context.Context, _ ChatContext) (ChatReply, error) {
	return ChatReply{
		Message: "I'm open to discussing contract terms. What would you like to adjust?",
	}, nil
}
