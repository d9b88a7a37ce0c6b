package panels

import "supplycraft/internal/sim"

// ProposalSubmitMsg is sent when the proposal form is submitted.
type ProposalSubmitMsg struct {
	Proposal sim.Contract
}

// ChatSubmitMsg is sent when the student sends a chat message.
type ChatSubmitMsg struct {
	Text string
}

// DraftDecisionMsg is sent when the student accepts or rejects the
// draft contract on the table.
type DraftDecisionMsg struct {
	Accept bool
}

// OrderSubmitMsg is sent when an order quantity is submitted.
type OrderSubmitMsg struct {
	Quantity int
}

// FormErrorMsg reports a local form validation problem to the status bar.
type FormErrorMsg struct {
	Text string
}
