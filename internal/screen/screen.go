// Package screen defines the contract every routed view implements.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepterm/internal/ui/layout"
)

// Screen is one view on the router stack. View receives the frame size
// with the header and footer already subtracted.
type Screen interface {
	// Init returns the command to run when the screen becomes active.
	Init() tea.Cmd

	// Update handles a message and returns the updated screen and a command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen body for the given content area.
	View(width, height int) string

	// Title is shown in the header bar.
	Title() string
}

// KeyHintProvider lets a screen supply its own footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that must release resources, such as
// cancelling in-flight fetches, when the router removes them.
type Closer interface {
	Close()
}

// AuthRequiredMsg reports that the backend rejected the stored credentials
// and the user must sign in again.
type AuthRequiredMsg struct{}

// Reauth is the command a screen returns when a backend call failed with
// an authentication error.
func Reauth() tea.Msg { return AuthRequiredMsg{} }
