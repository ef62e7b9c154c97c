package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/omochice/wstest/internal/chat"
)

const (
	headerHeight = 4
	labelHeight  = 1
	inputHeight  = 3
	frameSize    = 2
)

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	inner := max(width-frameSize, 1)
	m.messages.Width = inner
	m.messages.Height = max(height-headerHeight-labelHeight-inputHeight-frameSize, 1)
	m.endpoint.Width = inner - 1
	m.draft.Width = inner - 1

	if len(m.entries) > 0 {
		m.messages.SetContent(m.renderEntries())
	}
}

func (m Model) renderEntries() string {
	wrap := lipgloss.NewStyle().Width(m.messages.Width)
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		style := m.styles.Peer
		if entry.Author == chat.AuthorOperator {
			style = m.styles.Operator
		}
		lines = append(lines, wrap.Render(style.Render(entry.Author.String()+":")+" "+entry.Content))
	}
	return strings.Join(lines, "\n")
}

// View renders the header, the message log and the focused input field.
func (m Model) View() string {
	inner := max(m.width-frameSize, 1)

	header := m.styles.Header.Width(inner).Render(
		m.styles.Title.Render("WSTest") + "\n" + m.help.View(m.keys),
	)

	messages := m.styles.Messages.Width(inner).Render(m.messages.View())

	var label, field string
	if m.focus == FocusEndpoint {
		label = m.styles.Label.Render("WS URL")
		field = m.endpoint.View()
	} else {
		label = m.styles.Label.Render("Chat Message")
		field = m.draft.View()
	}

	input := m.styles.Input
	if m.sendFailed {
		label += " " + m.styles.SendError.Render("send failed")
		input = m.styles.InputErr
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		messages,
		label,
		input.Width(inner).Render(field),
	)
}
