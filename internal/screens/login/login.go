// Package login renders the sign-in / sign-up form. On success it hands the
// stack off to the home screen.
package login

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/auth"
	"github.com/abhisek/prepterm/internal/router"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/ui/components"
	"github.com/abhisek/prepterm/internal/ui/layout"
	"github.com/abhisek/prepterm/internal/ui/theme"
)

const (
	fieldEmail = iota
	fieldPassword
)

// NextScreen builds the screen to replace login with after authentication.
type NextScreen func() screen.Screen

// authDoneMsg reports the outcome of a signup/login call.
type authDoneMsg struct {
	token *api.AuthToken
	err   error
}

// LoginScreen implements screen.Screen for authentication.
type LoginScreen struct {
	client *api.Client
	tokens *auth.Store
	next   NextScreen

	email    components.TextInput
	password components.TextInput
	focused  int
	signup   bool
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen. next builds the screen shown after a
// successful sign-in.
func New(client *api.Client, tokens *auth.Store, next NextScreen) *LoginScreen {
	email := components.NewTextInput("you@example.com", 64)
	password := components.NewTextInput("password", 64)
	password.Model.EchoMode = textinput.EchoPassword
	password.Model.Blur()

	return &LoginScreen{
		client:   client,
		tokens:   tokens,
		next:     next,
		email:    email,
		password: password,
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Init()
}

func (s *LoginScreen) Title() string {
	if s.signup {
		return "Sign Up"
	}
	return "Sign In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+S", Description: "Toggle sign up"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: s.next()}
		}

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			return s, s.toggleFocus()
		case "ctrl+s":
			s.signup = !s.signup
			s.errMsg = ""
			return s, nil
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focused == fieldEmail {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) toggleFocus() tea.Cmd {
	if s.focused == fieldEmail {
		s.focused = fieldPassword
		s.email.Model.Blur()
		return s.password.Model.Focus()
	}
	s.focused = fieldEmail
	s.password.Model.Blur()
	return s.email.Model.Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()
	if email == "" || password == "" {
		s.errMsg = "email and password are required"
		return nil
	}

	s.busy = true
	s.errMsg = ""
	client := s.client
	tokens := s.tokens
	signup := s.signup

	return func() tea.Msg {
		ctx := context.Background()
		creds := api.Credentials{Email: email, Password: password}

		var token *api.AuthToken
		var err error
		if signup {
			token, err = client.Signup(ctx, creds)
		} else {
			token, err = client.Login(ctx, creds)
		}
		if err != nil {
			return authDoneMsg{err: err}
		}
		if err := tokens.SetToken(ctx, token.AccessToken); err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{token: token}
	}
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	heading := "Sign in to your account"
	if s.signup {
		heading = "Create an account"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(heading) + "\n\n")
	b.WriteString(theme.Body.Render("Email") + "\n")
	b.WriteString(s.email.View() + "\n\n")
	b.WriteString(theme.Body.Render("Password") + "\n")
	b.WriteString(s.password.View() + "\n")

	if s.busy {
		b.WriteString("\n" + theme.Hint.Render("Authenticating…"))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := components.Card(b.String(), cw)
	return components.CenterFrame(card, width, height)
}
