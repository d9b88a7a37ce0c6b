package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supplycraft/internal/supplier"
	"supplycraft/tui/styles"
)

// ChatPanel holds the negotiation transcript and the message input.
// When a draft contract is on the table, ctrl+y accepts it and ctrl+n
// rejects it.
type ChatPanel struct {
	messages []supplier.Message
	hasDraft bool
	waiting  bool
	input    textinput.Model
	focused  bool
	width    int
	height   int
}

func NewChatPanel() *ChatPanel {
	in := textinput.New()
	in.Placeholder = "Message the supplier..."
	in.CharLimit = 500
	return &ChatPanel{input: in}
}

func (p *ChatPanel) Init() tea.Cmd {
	return textinput.Blink
}

func (p *ChatPanel) Update(msg tea.Msg) (*ChatPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			text := strings.TrimSpace(p.input.Value())
			if text == "" || p.waiting {
				return p, nil
			}
			p.input.SetValue("")
			p.waiting = true
			return p, func() tea.Msg { return ChatSubmitMsg{Text: text} }

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+y"))):
			if p.hasDraft {
				return p, func() tea.Msg { return DraftDecisionMsg{Accept: true} }
			}
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+n"))):
			if p.hasDraft {
				return p, func() tea.Msg { return DraftDecisionMsg{Accept: false} }
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// SetTranscript replaces the displayed conversation.
func (p *ChatPanel) SetTranscript(msgs []supplier.Message, hasDraft bool) {
	p.messages = msgs
	p.hasDraft = hasDraft
	p.waiting = false
}

// SetWaiting toggles the typing indicator while a reply is in flight.
func (p *ChatPanel) SetWaiting(waiting bool) {
	p.waiting = waiting
}

func (p *ChatPanel) View() string {
	innerWidth := p.width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	var lines []string
	wrap := lipgloss.NewStyle().Width(innerWidth)
	for _, m := range p.messages {
		speaker := styles.SupplierStyle.Render("Supplier:")
		if m.Role == supplier.RoleStudent {
			speaker = styles.StudentStyle.Render("You:")
		}
		block := wrap.Render(speaker + " " + m.Content)
		lines = append(lines, strings.Split(block, "\n")...)
	}
	if p.waiting {
		lines = append(lines, styles.MutedStyle.Render("supplier is typing..."))
	}
	if len(p.messages) == 0 && !p.waiting {
		lines = append(lines, styles.MutedStyle.Render("Submit a proposal first, or just start talking."))
	}

	// Keep the tail of the transcript visible.
	footer := 3
	if p.hasDraft {
		footer = 4
	}
	visible := p.height - 4 - footer
	if visible < 1 {
		visible = 1
	}
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}

	var content strings.Builder
	content.WriteString(strings.Join(lines, "\n"))
	content.WriteString("\n\n")
	if p.hasDraft {
		content.WriteString(styles.PhaseStyle.Render("Draft on the table:") +
			styles.MutedStyle.Render(" ctrl+y accept, ctrl+n reject") + "\n")
	}
	p.input.Width = innerWidth - 3
	content.WriteString(p.input.View())

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Negotiation", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChatPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
