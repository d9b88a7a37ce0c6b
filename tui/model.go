// Package tui is the terminal front end. It drives the game service
// in-process: panel events become service calls issued as commands,
// and the refreshed session state fans back out to every panel.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supplycraft/internal/game"
	"supplycraft/internal/sim"
	"supplycraft/internal/supplier"
	"supplycraft/tui/panels"
	"supplycraft/tui/styles"
)

// PanelFocus identifies which panel receives key input.
type PanelFocus int

const (
	FocusProposal PanelFocus = iota
	FocusChat
	FocusOrder
	FocusLedger
	FocusContract
	numPanels
)

type sessionStartedMsg struct {
	id    string
	state *game.State
}

type stateMsg struct {
	state *game.State
}

type proposalResultMsg struct {
	eval  supplier.Evaluation
	state *game.State
}

type chatResultMsg struct {
	reply supplier.ChatReply
	state *game.State
}

type roundResultMsg struct {
	out   sim.RoundOutput
	state *game.State
}

type summaryMsg struct {
	summary game.Summary
}

type errMsg struct {
	err error
}

// Model is the root bubbletea model.
type Model struct {
	svc       *game.Service
	sessionID string
	rounds    int
	method    sim.DemandMethod

	contractPanel *panels.ContractPanel
	proposalPanel *panels.ProposalPanel
	chatPanel     *panels.ChatPanel
	orderPanel    *panels.OrderPanel
	ledgerPanel   *panels.LedgerPanel
	summaryPanel  *panels.SummaryPanel

	focusedPanel PanelFocus
	width        int
	height       int
	statusMsg    string
	ready        bool
	gameOver     bool
}

// NewModel builds the TUI around an already configured game service.
func NewModel(svc *game.Service, rounds int, method sim.DemandMethod) *Model {
	m := &Model{
		svc:           svc,
		rounds:        rounds,
		method:        method,
		contractPanel: panels.NewContractPanel(svc.Params()),
		proposalPanel: panels.NewProposalPanel(svc.Rules()),
		chatPanel:     panels.NewChatPanel(),
		orderPanel:    panels.NewOrderPanel(),
		ledgerPanel:   panels.NewLedgerPanel(),
		summaryPanel:  panels.NewSummaryPanel(),
		focusedPanel:  FocusProposal,
		statusMsg:     "Welcome! Propose a contract to get started.",
	}
	m.applyFocus()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startGame(),
		m.proposalPanel.Init(),
		m.chatPanel.Init(),
		m.orderPanel.Init(),
	)
}

func (m *Model) startGame() tea.Cmd {
	return func() tea.Msg {
		id, st, err := m.svc.StartGame(m.rounds, m.method)
		if err != nil {
			return errMsg{err}
		}
		return sessionStartedMsg{id: id, state: st}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Text inputs need the letter while the game runs.
			if m.gameOver {
				return m, tea.Quit
			}
		case "ctrl+e":
			if !m.gameOver {
				return m, m.endEarly()
			}
			return m, nil
		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % numPanels
			m.applyFocus()
			return m, nil
		case "shift+tab":
			m.focusedPanel = (m.focusedPanel - 1 + numPanels) % numPanels
			m.applyFocus()
			return m, nil
		case "f1":
			return m.focus(FocusProposal)
		case "f2":
			return m.focus(FocusChat)
		case "f3":
			return m.focus(FocusOrder)
		case "f4":
			return m.focus(FocusLedger)
		case "f5":
			return m.focus(FocusContract)
		}
		return m, m.updateFocusedPanel(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case sessionStartedMsg:
		m.sessionID = msg.id
		m.applyState(msg.state)
		m.statusMsg = fmt.Sprintf("Session started: %d rounds, %s demand.", msg.state.TotalRounds, msg.state.Method)
		return m, nil

	case stateMsg:
		m.applyState(msg.state)
		return m, m.maybeSummarize()

	case proposalResultMsg:
		m.applyState(msg.state)
		if msg.eval.Decision == supplier.DecisionAccept {
			m.statusMsg = "Proposal accepted! Place your first order."
			m.focusedPanel = FocusOrder
		} else {
			m.statusMsg = "Proposal rejected. The supplier wants to talk."
			m.focusedPanel = FocusChat
		}
		m.applyFocus()
		return m, nil

	case chatResultMsg:
		m.applyState(msg.state)
		if msg.state.Draft != nil {
			m.statusMsg = "The supplier put a draft on the table. ctrl+y to accept, ctrl+n to reject."
		} else {
			m.statusMsg = ""
		}
		return m, nil

	case roundResultMsg:
		m.applyState(msg.state)
		m.orderPanel.SetResult(msg.out)
		m.statusMsg = fmt.Sprintf("Round played: demand %d, buyer profit %.2f.", msg.out.RealizedDemand, msg.out.BuyerProfit)
		return m, m.maybeSummarize()

	case summaryMsg:
		m.summaryPanel.SetSummary(msg.summary)
		m.statusMsg = "Game over. Press q to quit."
		return m, nil

	case panels.ProposalSubmitMsg:
		m.statusMsg = "Evaluating proposal..."
		return m, m.submitProposal(msg.Proposal)

	case panels.ChatSubmitMsg:
		m.chatEcho(msg.Text)
		return m, m.sendChat(msg.Text)

	case panels.DraftDecisionMsg:
		return m, m.resolveDraft(msg.Accept)

	case panels.OrderSubmitMsg:
		return m, m.placeOrder(msg.Quantity)

	case panels.FormErrorMsg:
		m.statusMsg = msg.Text
		return m, nil

	case errMsg:
		m.statusMsg = "Error: " + msg.err.Error()
		// A failed chat call leaves the transcript untouched; re-sync.
		return m, m.refreshState()
	}

	return m, m.updateFocusedPanel(msg)
}

func (m *Model) focus(f PanelFocus) (tea.Model, tea.Cmd) {
	m.focusedPanel = f
	m.applyFocus()
	return m, nil
}

func (m *Model) applyFocus() {
	m.proposalPanel.SetFocus(m.focusedPanel == FocusProposal)
	m.chatPanel.SetFocus(m.focusedPanel == FocusChat)
	m.orderPanel.SetFocus(m.focusedPanel == FocusOrder)
	m.ledgerPanel.SetFocus(m.focusedPanel == FocusLedger)
	m.contractPanel.SetFocus(m.focusedPanel == FocusContract)
}

func (m *Model) updateFocusedPanel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focusedPanel {
	case FocusProposal:
		m.proposalPanel, cmd = m.proposalPanel.Update(msg)
	case FocusChat:
		m.chatPanel, cmd = m.chatPanel.Update(msg)
	case FocusOrder:
		m.orderPanel, cmd = m.orderPanel.Update(msg)
	case FocusLedger:
		m.ledgerPanel, cmd = m.ledgerPanel.Update(msg)
	case FocusContract:
		m.contractPanel, cmd = m.contractPanel.Update(msg)
	}
	return cmd
}

// applyState fans a fresh session snapshot out to the display panels.
func (m *Model) applyState(st *game.State) {
	if st == nil {
		return
	}
	m.contractPanel.SetState(st)
	m.chatPanel.SetTranscript(st.ChatHistory, st.Draft != nil)
	m.ledgerPanel.SetRounds(st.Rounds)
	m.gameOver = st.GameOver()
}

// chatEcho shows the student's message immediately, before the reply
// lands; the next state refresh replaces the transcript wholesale.
func (m *Model) chatEcho(text string) {
	st, err := m.svc.GetState(m.sessionID)
	if err != nil {
		return
	}
	msgs := append(st.ChatHistory, supplier.Message{Role: supplier.RoleStudent, Content: text})
	m.chatPanel.SetTranscript(msgs, st.Draft != nil)
	m.chatPanel.SetWaiting(true)
	m.statusMsg = "Waiting for the supplier..."
}

func (m *Model) maybeSummarize() tea.Cmd {
	if !m.gameOver {
		return nil
	}
	return func() tea.Msg {
		sum, err := m.svc.Summarize(m.sessionID)
		if err != nil {
			return errMsg{err}
		}
		return summaryMsg{summary: sum}
	}
}

func (m *Model) refreshState() tea.Cmd {
	return func() tea.Msg {
		st, err := m.svc.GetState(m.sessionID)
		if err != nil {
			return nil
		}
		return stateMsg{state: st}
	}
}

func (m *Model) submitProposal(proposal sim.Contract) tea.Cmd {
	return func() tea.Msg {
		ev, st, err := m.svc.SubmitProposal(context.Background(), m.sessionID, proposal)
		if err != nil {
			return errMsg{err}
		}
		return proposalResultMsg{eval: ev, state: st}
	}
}

func (m *Model) sendChat(text string) tea.Cmd {
	return func() tea.Msg {
		reply, st, err := m.svc.Chat(context.Background(), m.sessionID, text)
		if err != nil {
			return errMsg{err}
		}
		return chatResultMsg{reply: reply, state: st}
	}
}

func (m *Model) resolveDraft(accept bool) tea.Cmd {
	return func() tea.Msg {
		st, err := m.svc.ResolveDraft(m.sessionID, accept)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{state: st}
	}
}

func (m *Model) placeOrder(quantity int) tea.Cmd {
	return func() tea.Msg {
		out, st, err := m.svc.PlaceOrder(m.sessionID, quantity)
		if err != nil {
			return errMsg{err}
		}
		return roundResultMsg{out: out, state: st}
	}
}

func (m *Model) endEarly() tea.Cmd {
	return func() tea.Msg {
		st, err := m.svc.EndEarly(m.sessionID)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{state: st}
	}
}

// layout distributes the window between the panels.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	statusHeight := 1
	bodyHeight := m.height - statusHeight
	topHeight := bodyHeight * 60 / 100
	bottomHeight := bodyHeight - topHeight

	leftWidth := m.width / 3
	midWidth := m.width / 3
	rightWidth := m.width - leftWidth - midWidth

	m.contractPanel.SetSize(leftWidth, topHeight)
	m.proposalPanel.SetSize(midWidth, topHeight)
	m.chatPanel.SetSize(rightWidth, topHeight)

	orderWidth := m.width * 2 / 5
	m.orderPanel.SetSize(orderWidth, bottomHeight)
	m.ledgerPanel.SetSize(m.width-orderWidth, bottomHeight)

	m.summaryPanel.SetSize(m.width, bodyHeight)
}

func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.gameOver {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.summaryPanel.View(),
			m.renderStatusBar(),
		)
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.contractPanel.View(),
		m.proposalPanel.View(),
		m.chatPanel.View(),
	)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.orderPanel.View(),
		m.ledgerPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	keys := []struct{ key, desc string }{
		{"tab", "switch panel"},
		{"f1-f5", "focus"},
		{"ctrl+e", "end game"},
		{"ctrl+c", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, styles.StatusBarKeyStyle.Render(k.key)+" "+styles.StatusBarDescStyle.Render(k.desc))
	}
	help := ""
	for i, p := range parts {
		if i > 0 {
			help += "  "
		}
		help += p
	}

	status := m.statusMsg
	if status != "" {
		status = "  |  " + status
	}
	return styles.StatusBarStyle.Width(m.width).Render(help + status)
}
