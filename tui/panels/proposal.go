package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supplycraft/internal/negotiation"
	"supplycraft/internal/sim"
	"supplycraft/tui/styles"
)

// ProposalField identifies the focused form field.
type ProposalField int

const (
	FieldContractType ProposalField = iota
	FieldWholesale
	FieldBuyback
	FieldCapType
	FieldCapValue
	FieldLength
	FieldRevShare
	FieldSubmit
)

// ProposalPanel is the first-proposal form. Option fields cycle with
// left/right; numeric fields are free text parsed on submit.
type ProposalPanel struct {
	rules negotiation.Config

	typeOptions []sim.ContractType
	typeIndex   int

	capOptions []sim.CapType
	capIndex   int

	wholesaleInput textinput.Model
	buybackInput   textinput.Model
	capValueInput  textinput.Model
	lengthInput    textinput.Model
	revShareInput  textinput.Model

	currentField ProposalField

	focused bool
	width   int
	height  int
}

func NewProposalPanel(rules negotiation.Config) *ProposalPanel {
	capOptions := []sim.CapType{sim.CapFraction, sim.CapUnit}
	switch rules.CapTypeAllowed {
	case negotiation.CapAllowedFraction:
		capOptions = []sim.CapType{sim.CapFraction}
	case negotiation.CapAllowedUnit:
		capOptions = []sim.CapType{sim.CapUnit}
	}

	newInput := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = 10
		in.CharLimit = 12
		return in
	}

	p := &ProposalPanel{
		rules:          rules,
		typeOptions:    rules.ContractTypes,
		capOptions:     capOptions,
		wholesaleInput: newInput("e.g. 25"),
		buybackInput:   newInput("e.g. 12"),
		capValueInput:  newInput("e.g. 0.5"),
		lengthInput:    newInput(fmt.Sprintf("%d-%d", rules.LengthMin, rules.LengthMax)),
		revShareInput:  newInput("0-1"),
		currentField:   FieldContractType,
	}
	p.syncInputFocus()
	return p
}

func (p *ProposalPanel) Init() tea.Cmd {
	return textinput.Blink
}

func (p *ProposalPanel) Update(msg tea.Msg) (*ProposalPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			p.prevField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if p.currentField == FieldSubmit {
				return p, p.submit()
			}
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
			if p.cycleOption(-1) {
				return p, nil
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
			if p.cycleOption(1) {
				return p, nil
			}
		}
	}

	var cmd tea.Cmd
	switch p.currentField {
	case FieldWholesale:
		p.wholesaleInput, cmd = p.wholesaleInput.Update(msg)
	case FieldBuyback:
		p.buybackInput, cmd = p.buybackInput.Update(msg)
	case FieldCapValue:
		p.capValueInput, cmd = p.capValueInput.Update(msg)
	case FieldLength:
		p.lengthInput, cmd = p.lengthInput.Update(msg)
	case FieldRevShare:
		p.revShareInput, cmd = p.revShareInput.Update(msg)
	}
	return p, cmd
}

func (p *ProposalPanel) cycleOption(dir int) bool {
	switch p.currentField {
	case FieldContractType:
		p.typeIndex = clampIndex(p.typeIndex+dir, len(p.typeOptions))
		return true
	case FieldCapType:
		p.capIndex = clampIndex(p.capIndex+dir, len(p.capOptions))
		return true
	}
	return false
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// contractType returns the currently selected contract type.
func (p *ProposalPanel) contractType() sim.ContractType {
	if len(p.typeOptions) == 0 {
		return sim.ContractBuyback
	}
	return p.typeOptions[clampIndex(p.typeIndex, len(p.typeOptions))]
}

func (p *ProposalPanel) capType() sim.CapType {
	if len(p.capOptions) == 0 {
		return sim.CapFraction
	}
	return p.capOptions[clampIndex(p.capIndex, len(p.capOptions))]
}

// fieldVisible hides fields the selected contract type does not use.
func (p *ProposalPanel) fieldVisible(f ProposalField) bool {
	ct := p.contractType()
	switch f {
	case FieldBuyback, FieldCapType, FieldCapValue:
		return ct.UsesBuyback()
	case FieldRevShare:
		return ct.UsesRevenueShare()
	}
	return true
}

func (p *ProposalPanel) nextField() {
	for {
		p.currentField++
		if p.currentField > FieldSubmit {
			p.currentField = FieldContractType
		}
		if p.fieldVisible(p.currentField) {
			break
		}
	}
	p.syncInputFocus()
}

func (p *ProposalPanel) prevField() {
	for {
		p.currentField--
		if p.currentField < FieldContractType {
			p.currentField = FieldSubmit
		}
		if p.fieldVisible(p.currentField) {
			break
		}
	}
	p.syncInputFocus()
}

func (p *ProposalPanel) syncInputFocus() {
	inputs := map[ProposalField]*textinput.Model{
		FieldWholesale: &p.wholesaleInput,
		FieldBuyback:   &p.buybackInput,
		FieldCapValue:  &p.capValueInput,
		FieldLength:    &p.lengthInput,
		FieldRevShare:  &p.revShareInput,
	}
	for f, in := range inputs {
		if f == p.currentField && p.focused {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (p *ProposalPanel) submit() tea.Cmd {
	ct := p.contractType()

	proposal := sim.Contract{
		ContractType: ct,
		CapType:      p.capType(),
	}

	parse := func(name, raw string, dst *float64) string {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return name + " is required"
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return name + " must be a number"
		}
		*dst = v
		return ""
	}

	if msg := parse("wholesale price", p.wholesaleInput.Value(), &proposal.WholesalePrice); msg != "" {
		return formError(msg)
	}
	if ct.UsesBuyback() {
		if msg := parse("buyback price", p.buybackInput.Value(), &proposal.BuybackPrice); msg != "" {
			return formError(msg)
		}
		if msg := parse("cap value", p.capValueInput.Value(), &proposal.CapValue); msg != "" {
			return formError(msg)
		}
	}
	if ct.UsesRevenueShare() {
		if msg := parse("revenue share", p.revShareInput.Value(), &proposal.RevenueShare); msg != "" {
			return formError(msg)
		}
	}

	length, err := strconv.Atoi(strings.TrimSpace(p.lengthInput.Value()))
	if err != nil {
		return formError("length must be a whole number")
	}
	proposal.Length = length

	return func() tea.Msg { return ProposalSubmitMsg{Proposal: proposal} }
}

func formError(text string) tea.Cmd {
	return func() tea.Msg { return FormErrorMsg{Text: text} }
}

func (p *ProposalPanel) View() string {
	var content strings.Builder

	label := func(f ProposalField, text string) string {
		if f == p.currentField && p.focused {
			return styles.FocusedLabelStyle.Render("> " + text)
		}
		return styles.LabelStyle.Render("  " + text)
	}

	// Contract type selector
	content.WriteString(label(FieldContractType, "Type     "))
	for i, t := range p.typeOptions {
		style := styles.OptionStyle
		if i == p.typeIndex {
			style = styles.SelectedOptionStyle
		}
		content.WriteString(" " + style.Render(string(t)))
	}
	content.WriteString("\n")

	content.WriteString(label(FieldWholesale, "Wholesale") + " " + p.wholesaleInput.View() + "\n")

	if p.fieldVisible(FieldBuyback) {
		content.WriteString(label(FieldBuyback, "Buyback  ") + " " + p.buybackInput.View() + "\n")

		content.WriteString(label(FieldCapType, "Cap type "))
		for i, c := range p.capOptions {
			style := styles.OptionStyle
			if i == p.capIndex {
				style = styles.SelectedOptionStyle
			}
			content.WriteString(" " + style.Render(string(c)))
		}
		content.WriteString("\n")

		content.WriteString(label(FieldCapValue, "Cap value") + " " + p.capValueInput.View() + "\n")
	}

	content.WriteString(label(FieldLength, "Length   ") + " " + p.lengthInput.View() + "\n")

	if p.fieldVisible(FieldRevShare) {
		content.WriteString(label(FieldRevShare, "Rev share") + " " + p.revShareInput.View() + "\n")
	}

	submitStyle := styles.SubmitStyle
	if p.currentField == FieldSubmit && p.focused {
		submitStyle = styles.FocusedSubmitStyle
	}
	content.WriteString("\n" + submitStyle.Render("[ Propose ]"))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Proposal", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ProposalPanel) SetFocus(focused bool) {
	p.focused = focused
	p.syncInputFocus()
}

func (p *ProposalPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
