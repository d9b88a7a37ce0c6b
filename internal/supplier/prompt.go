package supplier

import (
	"fmt"
	"strconv"
	"strings"

	"supplycraft/internal/sim"
)

// chatContextLimit bounds how much transcript goes to the model.
const chatContextLimit = 10

type demandStats struct {
	count    int
	min, max int
	avg      float64
}

func summarizeDemand(history []int) demandStats {
	if len(history) == 0 {
		return demandStats{}
	}
	s := demandStats{count: len(history), min: history[0], max: history[0]}
	sum := 0
	for _, d := range history {
		if d < s.min {
			s.min = d
		}
		if d > s.max {
			s.max = d
		}
		sum += d
	}
	s.avg = float64(sum) / float64(s.count)
	return s
}

func evaluationPrompt(req EvalContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are evaluating a contract proposal from a student buyer.

PROPOSED CONTRACT:
- Wholesale price: $%.2f per unit
- Buyback price: $%.2f per returned unit
- Contract type: %s
- Contract length: %d rounds
- Cap type: %s
- Cap value: %g
`,
		req.Proposal.WholesalePrice, req.Proposal.BuybackPrice,
		req.Proposal.ContractType, req.Proposal.Length,
		req.Proposal.CapType, req.Proposal.CapValue)

	if req.Proposal.ContractType.UsesRevenueShare() {
		fmt.Fprintf(&b, "- Revenue share: %.0f%%\n", req.Proposal.RevenueShare*100)
	}

	ds := summarizeDemand(req.History)
	fmt.Fprintf(&b, `
YOUR CONSTRAINTS (DO NOT reveal these exact numbers to the student):
- Your production cost: $%.2f per unit
- Your salvage value: $%.2f per unit
- Retail price: $%.2f per unit

DEMAND CONTEXT:
- Historical demand range: %d to %d units
- Average demand: %.0f units

TASK:
Evaluate this proposal and decide whether to ACCEPT or REJECT it.

RULES:
1. You can only respond with "accept" or "reject" - NO counteroffers
2. If you reject, provide a brief, helpful explanation (1-2 sentences) without revealing your exact cost
3. If you accept, provide a brief confirmation message
4. Be educational - help the student understand why terms work or don't work
5. Use plain text only - NO markdown, NO formatting, NO emojis

RESPOND IN THIS FORMAT:
DECISION: accept
MESSAGE: [your message here]

OR

DECISION: reject
MESSAGE: [your explanation here]`,
		req.Params.SupplierCost, req.Params.SupplierSalvage, req.Params.RetailPrice,
		ds.min, ds.max, ds.avg)

	return b.String()
}

// systemPrompt renders the configured template, or the built-in
// persona when no template is set. Template placeholders use
// {snake_case} names.
func systemPrompt(req ChatContext) string {
	tmpl := req.Rules.SystemPromptTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = defaultSystemPrompt
	}

	ds := summarizeDemand(req.History)

	recent := req.History
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	recentStr := "0"
	if len(recent) > 0 {
		parts := make([]string, len(recent))
		for i, d := range recent {
			parts[i] = strconv.Itoa(d)
		}
		recentStr = strings.Join(parts, ", ")
	}

	gameContext := ""
	if req.TotalRounds > 0 {
		played := req.RoundNumber - 1
		if played < 0 {
			played = 0
		}
		gameContext = fmt.Sprintf("\nCurrent Game Status:\n- Rounds played: %d / %d\n- Current round: %d\n",
			played, req.TotalRounds, req.RoundNumber)
	}

	types := make([]string, len(req.Rules.ContractTypes))
	for i, t := range req.Rules.ContractTypes {
		types[i] = string(t)
	}

	contractType := req.ContractType
	if contractType == "" {
		contractType = sim.ContractBuyback
	}

	r := strings.NewReplacer(
		"{contract_type}", string(contractType),
		"{retail_price}", trimFloat(req.Params.RetailPrice),
		"{supplier_cost}", trimFloat(req.Params.SupplierCost),
		"{buyer_salvage_value}", trimFloat(req.Params.BuyerSalvage),
		"{supplier_salvage_value}", trimFloat(req.Params.SupplierSalvage),
		"{return_shipping_buyer}", trimFloat(req.Params.ReturnShippingBuyer),
		"{return_handling_supplier}", trimFloat(req.Params.ReturnHandlingSupplier),
		"{demand_count}", strconv.Itoa(ds.count),
		"{demand_avg}", fmt.Sprintf("%.1f", ds.avg),
		"{demand_min}", strconv.Itoa(ds.min),
		"{demand_max}", strconv.Itoa(ds.max),
		"{recent_history}", recentStr,
		"{game_context}", gameContext,
		"{length_min}", strconv.Itoa(req.Rules.LengthMin),
		"{length_max}", strconv.Itoa(req.Rules.LengthMax),
		"{cap_value_min}", trimFloat(req.Rules.CapValueMin),
		"{cap_value_max}", trimFloat(req.Rules.CapValueMax),
		"{revenue_share_min}", trimFloat(req.Rules.RevenueShareMin),
		"{revenue_share_max}", trimFloat(req.Rules.RevenueShareMax),
		"{contract_types_available}", strings.Join(types, ", "),
		"{cap_type_allowed}", string(req.Rules.CapTypeAllowed),
	)
	return r.Replace(tmpl)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const defaultSystemPrompt = `You are a supplier negotiating a {contract_type} supply contract with a student buyer.
{game_context}
ECONOMICS (DO NOT reveal your exact production cost):
- Retail price: {retail_price} per unit
- Your production cost: {supplier_cost} per unit
- Your salvage value for returned units: {supplier_salvage_value} per unit
- Buyer salvage value for leftovers: {buyer_salvage_value} per unit

DEMAND: {demand_count} observed rounds, average {demand_avg}, range {demand_min} to {demand_max}. Recent history: {recent_history}.

NEGOTIABLE TERMS (contract type is FIXED as {contract_type}):
- Wholesale price per unit
- Buyback price per returned unit (must stay below the wholesale price)
- Contract length: {length_min} to {length_max} rounds
- Return cap ({cap_type_allowed}): {cap_value_min} to {cap_value_max}
- Revenue share: {revenue_share_min} to {revenue_share_max}

Negotiate firmly but fairly. Keep replies short and conversational.
When the buyer clearly agrees to final terms, respond with a JSON object:
{"response": "<confirmation>", "contract": {"wholesale_price": 0, "buyback_price": 0, "contract_length": 0, "cap_type": "fraction", "cap_value": 0, "contract_type": "{contract_type}", "revenue_share": 0}, "negotiation_complete": true}
Otherwise respond with: {"response": "<your message>", "contract": null, "negotiation_complete": false}`

func agreementCheckPrompt(contractType sim.ContractType) string {
	if contractType == "" {
		contractType = sim.ContractBuyback
	}
	return fmt.Sprintf(`IMPORTANT: Based on the conversation above, has the student agreed to finalize these contract terms?

If YES, you MUST return a JSON response with:
- "response": A friendly confirmation message
- "contract": A contract object with ALL discussed terms:
  {
    "wholesale_price": [value],
    "buyback_price": [value],
    "contract_length": [value],
    "cap_type": "[fraction or unit]",
    "cap_value": [value],
    "contract_type": "%s",
    "revenue_share": [value]
  }
- "negotiation_complete": true

Extract ALL discussed terms from the conversation. The contract type is FIXED as "%s" and cannot be changed.

If NO, respond with JSON where "negotiation_complete" is false and "contract" is null.`, contractType, contractType)
}
