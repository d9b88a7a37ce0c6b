package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"supplycraft/internal/game"
	"supplycraft/internal/sim"
	"supplycraft/internal/supplier"
	"supplycraft/tui/panels"
)

type acceptAll struct{}

func (acceptAll) Evaluate(context.Context, supplier.EvalContext) (supplier.Evaluation, error) {
	return supplier.Evaluation{Decision: supplier.DecisionAccept, Message: "Deal."}, nil
}

type echoChat struct{}

func (echoChat) Chat(context.Context, supplier.ChatContext) (supplier.ChatReply, error) {
	return supplier.ChatReply{Message: "Let's talk terms."}, nil
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Seed = 1
	cfg.History = []int{95}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := game.NewService(cfg, acceptAll{}, echoChat{}, log)

	m := NewModel(svc, 3, sim.DemandBootstrap)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	// Run the session-start command synchronously.
	mm, _ := m.Update(m.startGame()())
	return mm.(*Model)
}

func TestStartSetsSession(t *testing.T) {
	m := newTestModel(t)
	if m.sessionID == "" {
		t.Fatal("expected a session ID after start")
	}
	if m.gameOver {
		t.Error("fresh game must not be over")
	}
}

func TestFocusCycling(t *testing.T) {
	m := newTestModel(t)
	if m.focusedPanel != FocusProposal {
		t.Fatalf("expected proposal focus initially, got %d", m.focusedPanel)
	}

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = mm.(*Model)
	if m.focusedPanel != FocusChat {
		t.Errorf("expected chat focus after tab, got %d", m.focusedPanel)
	}

	for i := 0; i < int(numPanels)-1; i++ {
		mm, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = mm.(*Model)
	}
	if m.focusedPanel != FocusProposal {
		t.Errorf("tab must wrap around, got %d", m.focusedPanel)
	}
}

func TestProposalAcceptMovesFocusToOrder(t *testing.T) {
	m := newTestModel(t)

	proposal := sim.Contract{
		WholesalePrice: 25,
		BuybackPrice:   12,
		CapType:        sim.CapFraction,
		CapValue:       0.5,
		Length:         3,
		ContractType:   sim.ContractBuyback,
	}
	mm, cmd := m.Update(panels.ProposalSubmitMsg{Proposal: proposal})
	m = mm.(*Model)
	if cmd == nil {
		t.Fatal("proposal submit must produce a command")
	}

	mm, _ = m.Update(cmd())
	m = mm.(*Model)
	if m.focusedPanel != FocusOrder {
		t.Errorf("accepted proposal must focus the order panel, got %d", m.focusedPanel)
	}
	if !strings.Contains(m.statusMsg, "accepted") {
		t.Errorf("unexpected status %q", m.statusMsg)
	}
}

func TestOrderRoundUpdatesStatus(t *testing.T) {
	m := newTestModel(t)

	_, _, err := m.svc.SubmitProposal(context.Background(), m.sessionID, sim.Contract{
		WholesalePrice: 25,
		BuybackPrice:   12,
		CapType:        sim.CapFraction,
		CapValue:       0.5,
		Length:         3,
		ContractType:   sim.ContractBuyback,
	})
	if err != nil {
		t.Fatal(err)
	}

	mm, cmd := m.Update(panels.OrderSubmitMsg{Quantity: 100})
	m = mm.(*Model)
	if cmd == nil {
		t.Fatal("order submit must produce a command")
	}

	mm, _ = m.Update(cmd())
	m = mm.(*Model)
	if !strings.Contains(m.statusMsg, "demand 95") {
		t.Errorf("unexpected status %q", m.statusMsg)
	}
	if m.gameOver {
		t.Error("one round of three must not end the game")
	}
}

func TestEndEarlyShowsSummary(t *testing.T) {
	m := newTestModel(t)

	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	m = mm.(*Model)
	if cmd == nil {
		t.Fatal("ctrl+e must produce a command")
	}

	mm, cmd = m.Update(cmd())
	m = mm.(*Model)
	if !m.gameOver {
		t.Fatal("end early must finish the game")
	}
	if cmd == nil {
		t.Fatal("game over must trigger the summary fetch")
	}

	mm, _ = m.Update(cmd())
	m = mm.(*Model)
	if !strings.Contains(m.View(), "Game over") {
		t.Error("summary view must render after the game ends")
	}
}
