// Package home renders the top-level menu.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/auth"
	"github.com/abhisek/prepterm/internal/identity"
	"github.com/abhisek/prepterm/internal/interview"
	"github.com/abhisek/prepterm/internal/mcq"
	"github.com/abhisek/prepterm/internal/practice"
	"github.com/abhisek/prepterm/internal/progress"
	"github.com/abhisek/prepterm/internal/router"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/screens/dashboard"
	"github.com/abhisek/prepterm/internal/screens/interviewroom"
	"github.com/abhisek/prepterm/internal/screens/login"
	"github.com/abhisek/prepterm/internal/screens/quiz"
	"github.com/abhisek/prepterm/internal/screens/setup"
	"github.com/abhisek/prepterm/internal/ui/components"
	"github.com/abhisek/prepterm/internal/ui/theme"
)

// Deps bundles the shared services the menu screens need.
type Deps struct {
	Client    *api.Client
	Tokens    *auth.Store
	Identity  *identity.Manager
	Practice  *practice.Orchestrator
	Interview *interview.Controller
	Quiz      *mcq.Quiz
	Progress  *progress.Fetcher
}

// HomeScreen implements screen.Screen for the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	s := &HomeScreen{deps: deps}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Practice", Hint: "Generate, answer, and score drill questions", Action: func() tea.Cmd {
			return push(setup.New(deps.Practice))
		}},
		{Label: "Mock Interview", Hint: "Adaptive multi-turn interview with follow-ups", Action: func() tea.Cmd {
			return push(interviewroom.New(deps.Interview))
		}},
		{Label: "Quick Quiz", Hint: "Five multiple-choice questions on your topic", Action: func() tea.Cmd {
			return push(quiz.New(deps.Quiz, deps.Practice.Config()))
		}},
		{Label: "Dashboard", Hint: "Scores, weak topics, and recent work", Action: func() tea.Cmd {
			return push(dashboard.New(deps.Client, deps.Progress, deps.Identity))
		}},
		{Label: "Sign Out", Action: s.signOut},
	})
	return s
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (s *HomeScreen) signOut() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		_ = deps.Tokens.Clear()
		next := login.New(deps.Client, deps.Tokens, func() screen.Screen {
			return New(deps)
		})
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *HomeScreen) Init() tea.Cmd {
	return nil
}

func (s *HomeScreen) Title() string {
	return "Home"
}

func (s *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("What do you want to work on?") + "\n\n")
	b.WriteString(s.menu.View())

	card := components.Card(b.String(), cw)
	return components.CenterFrame(card, width, height)
}
