package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepterm/internal/ui/theme"
)

// Choice is one selectable option with its submission letter.
type Choice struct {
	Letter string
	Text   string
}

// MultiChoice is a multiple-choice selector. Grading is external: the
// component locks on Lock() and colors options once SetResult is called
// with the server's correct letter.
type MultiChoice struct {
	Question string
	Choices  []Choice
	Selected int

	locked        bool
	correctLetter string
	graded        bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, choices []Choice) MultiChoice {
	return MultiChoice{
		Question: question,
		Choices:  choices,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Locked components ignore input.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Choices)-1 {
			m.Selected++
		}
	}

	return m, nil
}

// SelectedLetter returns the letter of the highlighted choice.
func (m MultiChoice) SelectedLetter() string {
	if m.Selected < 0 || m.Selected >= len(m.Choices) {
		return ""
	}
	return m.Choices[m.Selected].Letter
}

// Lock freezes the selection while grading is in flight.
func (m *MultiChoice) Lock() {
	m.locked = true
}

// SetResult records the server's correct letter and switches the view to
// graded colors.
func (m *MultiChoice) SetResult(correctLetter string) {
	m.locked = true
	m.graded = true
	m.correctLetter = correctLetter
}

// Graded reports whether a result has been recorded.
func (m MultiChoice) Graded() bool {
	return m.graded
}

// View renders the choices.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, choice := range m.Choices {
		prefix := "  "
		if i == m.Selected && !m.locked {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, choice.Letter, choice.Text)

		if m.graded {
			switch {
			case choice.Letter == m.correctLetter:
				s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
			case i == m.Selected:
				s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
			continue
		}

		if i == m.Selected {
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
