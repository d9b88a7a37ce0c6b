package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supplycraft/internal/sim"
	"supplycraft/tui/styles"
)

// OrderPanel takes the round's order quantity and shows the financial
// breakdown of the last round played.
type OrderPanel struct {
	input   textinput.Model
	last    *sim.RoundOutput
	focused bool
	width   int
	height  int
}

func NewOrderPanel() *OrderPanel {
	in := textinput.New()
	in.Placeholder = "Quantity"
	in.Width = 10
	in.CharLimit = 9
	return &OrderPanel{input: in}
}

func (p *OrderPanel) Init() tea.Cmd {
	return textinput.Blink
}

func (p *OrderPanel) Update(msg tea.Msg) (*OrderPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, key.NewBinding(key.WithKeys("enter"))) {
			raw := strings.TrimSpace(p.input.Value())
			qty, err := strconv.Atoi(raw)
			if err != nil || qty < 0 {
				return p, formError("order quantity must be a non-negative whole number")
			}
			p.input.SetValue("")
			return p, func() tea.Msg { return OrderSubmitMsg{Quantity: qty} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// SetResult records the outcome of the most recent round.
func (p *OrderPanel) SetResult(out sim.RoundOutput) {
	p.last = &out
}

func (p *OrderPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.LabelStyle.Render("Order") + " " + p.input.View() + "\n\n")

	if p.last == nil {
		content.WriteString(styles.MutedStyle.Render("no rounds played yet"))
	} else {
		o := p.last
		content.WriteString(fmt.Sprintf("%s Q=%d  D=%d  sold %d  returned %d  left %d\n",
			styles.HeaderStyle.Render("Last round"),
			o.OrderQuantity, o.RealizedDemand, o.Sales, o.Returns, o.Leftovers))
		content.WriteString(fmt.Sprintf("%s rev %.2f  cost %.2f  profit %s\n",
			styles.LabelStyle.Render("Buyer   "),
			o.BuyerRevenue, o.BuyerCost, styles.Money(o.BuyerProfit)))
		content.WriteString(fmt.Sprintf("%s rev %.2f  cost %.2f  profit %s",
			styles.LabelStyle.Render("Supplier"),
			o.SupplierRevenue, o.SupplierCost, styles.Money(o.SupplierProfit)))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Order", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *OrderPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

func (p *OrderPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
