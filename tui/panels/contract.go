package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supplycraft/internal/game"
	"supplycraft/internal/sim"
	"supplycraft/tui/styles"
)

// ContractPanel shows the session at a glance: round counter, phase,
// the active contract's terms, and the running profit totals.
type ContractPanel struct {
	state   *game.State
	params  sim.Params
	focused bool
	width   int
	height  int
}

func NewContractPanel(params sim.Params) *ContractPanel {
	return &ContractPanel{params: params}
}

func (p *ContractPanel) Init() tea.Cmd { return nil }

func (p *ContractPanel) Update(msg tea.Msg) (*ContractPanel, tea.Cmd) {
	return p, nil
}

// SetState replaces the displayed session snapshot.
func (p *ContractPanel) SetState(st *game.State) {
	p.state = st
}

func (p *ContractPanel) View() string {
	var content strings.Builder

	if p.state == nil {
		content.WriteString(styles.MutedStyle.Render("starting session..."))
	} else {
		st := p.state
		round := st.RoundNumber
		if round > st.TotalRounds {
			round = st.TotalRounds
		}
		content.WriteString(fmt.Sprintf("%s %d/%d   %s %s\n",
			styles.LabelStyle.Render("Round"), round, st.TotalRounds,
			styles.LabelStyle.Render("Phase"), styles.PhaseStyle.Render(string(st.Phase()))))
		content.WriteString(fmt.Sprintf("%s %s   %s %s\n\n",
			styles.LabelStyle.Render("Buyer P&L"), styles.Money(st.CumulativeBuyerProfit),
			styles.LabelStyle.Render("Supplier P&L"), styles.Money(st.CumulativeSupplierProfit)))

		if st.Contract.Active() {
			content.WriteString(renderContract(st.Contract))
		} else if st.Draft != nil {
			content.WriteString(styles.HeaderStyle.Render("Draft on the table") + "\n")
			content.WriteString(renderContract(*st.Draft))
		} else {
			content.WriteString(styles.MutedStyle.Render("no active contract"))
		}

		content.WriteString("\n\n")
		content.WriteString(fmt.Sprintf("%s retail %.2f  cost %.2f  salvage %.2f/%.2f",
			styles.LabelStyle.Render("Market"),
			p.params.RetailPrice, p.params.SupplierCost,
			p.params.BuyerSalvage, p.params.SupplierSalvage))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Contract", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func renderContract(c sim.Contract) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", styles.LabelStyle.Render("Type"), c.ContractType))
	b.WriteString(fmt.Sprintf("%s %.2f", styles.LabelStyle.Render("Wholesale"), c.WholesalePrice))
	if c.ContractType.UsesBuyback() {
		b.WriteString(fmt.Sprintf("  %s %.2f (%s cap %.2f)",
			styles.LabelStyle.Render("Buyback"), c.BuybackPrice, c.CapType, c.CapValue))
	}
	if c.ContractType.UsesRevenueShare() {
		b.WriteString(fmt.Sprintf("  %s %.0f%%", styles.LabelStyle.Render("Rev share"), c.RevenueShare*100))
	}
	b.WriteString(fmt.Sprintf("\n%s %d rounds", styles.LabelStyle.Render("Length"), c.Length))
	if c.RemainingRounds > 0 {
		b.WriteString(fmt.Sprintf(", %d remaining", c.RemainingRounds))
	}
	return b.String()
}

func (p *ContractPanel) SetFocus(focused bool) { p.focused = focused }

func (p *ContractPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
