package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supplycraft/internal/game"
	"supplycraft/tui/styles"
)

// SummaryPanel renders the end-of-game report card.
type SummaryPanel struct {
	summary *game.Summary
	width   int
	height  int
}

func NewSummaryPanel() *SummaryPanel {
	return &SummaryPanel{}
}

func (p *SummaryPanel) Init() tea.Cmd { return nil }

func (p *SummaryPanel) Update(msg tea.Msg) (*SummaryPanel, tea.Cmd) {
	return p, nil
}

func (p *SummaryPanel) SetSummary(sum game.Summary) {
	p.summary = &sum
}

func (p *SummaryPanel) View() string {
	var content strings.Builder

	if p.summary == nil {
		content.WriteString(styles.MutedStyle.Render("computing summary..."))
	} else {
		s := p.summary
		content.WriteString(styles.HeaderStyle.Render("Game over") + "\n\n")
		content.WriteString(fmt.Sprintf("%s %d\n", styles.LabelStyle.Render("Rounds played     "), s.TotalRoundsPlayed))
		content.WriteString(fmt.Sprintf("%s %s\n", styles.LabelStyle.Render("Buyer profit      "), styles.Money(s.CumulativeBuyerProfit)))
		content.WriteString(fmt.Sprintf("%s %s\n\n", styles.LabelStyle.Render("Supplier profit   "), styles.Money(s.CumulativeSupplierProfit)))

		content.WriteString(fmt.Sprintf("%s %d units (avg %.1f/round)\n", styles.LabelStyle.Render("Total demand      "), s.TotalDemand, s.AverageDemand))
		content.WriteString(fmt.Sprintf("%s %d sold, %d returned, %d left over\n", styles.LabelStyle.Render("Units             "), s.TotalSales, s.TotalReturns, s.TotalLeftovers))
		content.WriteString(fmt.Sprintf("%s fill %.1f%%  returns %.1f%%  leftovers %.1f%%\n\n",
			styles.LabelStyle.Render("Rates             "),
			s.FillRate*100, s.ReturnRate*100, s.LeftoverRate*100))

		content.WriteString(styles.HeaderStyle.Render("Negotiations") + "\n")
		if len(s.Negotiations) == 0 {
			content.WriteString(styles.MutedStyle.Render("none"))
		}
		for i, n := range s.Negotiations {
			line := fmt.Sprintf("%d. %s (%d messages)", i+1, n.Outcome, len(n.Messages))
			if n.Contract != nil {
				line += fmt.Sprintf("  %s w=%.2f", n.Contract.ContractType, n.Contract.WholesalePrice)
			}
			content.WriteString(line + "\n")
		}
	}

	title := styles.RenderTitle("Summary", true)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return styles.FocusedPanelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *SummaryPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
