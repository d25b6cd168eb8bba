package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// AnswerArea wraps bubbles/textarea for long-form answers.
type AnswerArea struct {
	Model textarea.Model
}

// NewAnswerArea creates a focused multi-line input.
func NewAnswerArea(placeholder string) AnswerArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Focus()
	return AnswerArea{Model: ta}
}

// Init returns the initial command.
func (a AnswerArea) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages.
func (a AnswerArea) Update(msg tea.Msg) (AnswerArea, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the textarea.
func (a AnswerArea) View() string {
	return a.Model.View()
}

// Value returns the current text.
func (a AnswerArea) Value() string {
	return a.Model.Value()
}

// Reset clears the text.
func (a *AnswerArea) Reset() {
	a.Model.Reset()
}

// SetSize resizes the textarea.
func (a *AnswerArea) SetSize(width, height int) {
	a.Model.SetWidth(width)
	a.Model.SetHeight(height)
}
