package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supplycraft/internal/game"
	"supplycraft/tui/styles"
)

// LedgerPanel lists every played round with its financial outcome.
type LedgerPanel struct {
	rounds        []game.RoundRecord
	selectedIndex int
	focused       bool
	width         int
	height        int
}

func NewLedgerPanel() *LedgerPanel {
	return &LedgerPanel{}
}

func (p *LedgerPanel) Init() tea.Cmd { return nil }

func (p *LedgerPanel) Update(msg tea.Msg) (*LedgerPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.rounds)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// SetRounds replaces the ledger contents and keeps the newest row selected.
func (p *LedgerPanel) SetRounds(rounds []game.RoundRecord) {
	grew := len(rounds) > len(p.rounds)
	p.rounds = rounds
	if grew && len(rounds) > 0 {
		p.selectedIndex = len(rounds) - 1
	}
}

func (p *LedgerPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%3s %6s %6s %5s %5s %10s %10s",
		"Rd", "Order", "Dem", "Ret", "Left", "Buyer", "Supplier")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	if len(p.rounds) == 0 {
		content.WriteString(styles.MutedStyle.Render("no rounds played yet"))
	}

	visible := p.height - 5
	if visible < 1 {
		visible = 1
	}
	start := 0
	if p.selectedIndex >= visible {
		start = p.selectedIndex - visible + 1
	}
	end := start + visible
	if end > len(p.rounds) {
		end = len(p.rounds)
	}

	for i := start; i < end; i++ {
		r := p.rounds[i]
		row := fmt.Sprintf("%3d %6d %6d %5d %5d %10.2f %10.2f",
			r.RoundIndex, r.OrderQuantity, r.RealizedDemand,
			r.Returns, r.Leftovers, r.BuyerProfit, r.SupplierProfit)

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Round Ledger", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *LedgerPanel) SetFocus(focused bool) { p.focused = focused }

func (p *LedgerPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
