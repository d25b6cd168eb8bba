// Package app wires the services together and runs the root Bubble Tea
// program.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/auth"
	"github.com/abhisek/prepterm/internal/config"
	"github.com/abhisek/prepterm/internal/identity"
	"github.com/abhisek/prepterm/internal/interview"
	"github.com/abhisek/prepterm/internal/localstate"
	"github.com/abhisek/prepterm/internal/logging"
	"github.com/abhisek/prepterm/internal/mcq"
	"github.com/abhisek/prepterm/internal/practice"
	"github.com/abhisek/prepterm/internal/progress"
	"github.com/abhisek/prepterm/internal/router"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/screens/home"
	"github.com/abhisek/prepterm/internal/screens/login"
	"github.com/abhisek/prepterm/internal/ui/layout"
)

// userDoneMsg carries the profile fetch used for the header.
type userDoneMsg struct {
	user *api.User
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	client *api.Client
	tokens *auth.Store
	deps   home.Deps
	ids    *identity.Manager
	log    zerolog.Logger
	email  string
	width  int
	height int
}

// newAppModel builds the model. Signed-out users land on the login screen;
// everyone else goes straight to the menu.
func newAppModel(client *api.Client, tokens *auth.Store, deps home.Deps, log zerolog.Logger) AppModel {
	var start screen.Screen
	if tokens.SignedIn() {
		start = home.New(deps)
	} else {
		start = login.New(client, tokens, func() screen.Screen {
			return home.New(deps)
		})
	}
	return AppModel{
		router: router.New(start),
		client: client,
		tokens: tokens,
		deps:   deps,
		ids:    deps.Identity,
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.fetchUser())
}

// fetchUser refreshes the signed-in email shown in the header. Failures are
// fine; the header just stays blank.
func (m AppModel) fetchUser() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		if err != nil {
			return userDoneMsg{}
		}
		return userDoneMsg{user: user}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case userDoneMsg:
		if msg.user != nil {
			m.email = msg.user.Email
		} else {
			m.email = ""
		}
		return m, nil

	case screen.AuthRequiredMsg:
		// The token was already cleared by the API client. Drop the whole
		// stack and start over at login.
		m.email = ""
		deps := m.deps
		next := login.New(m.client, m.tokens, func() screen.Screen {
			return home.New(deps)
		})
		return m, m.router.Reset(next)

	case router.ReplaceScreenMsg:
		// The top screen is swapped on auth transitions, so the header
		// identity is refreshed alongside.
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, m.fetchUser())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.email, m.ids.SessionID(), m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(provider.KeyHints(), footerHints...)
	} else if m.router.Depth() > 1 {
		footerHints = append([]layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}, footerHints...)
	} else {
		footerHints = append([]layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}, footerHints...)
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Options configures Run.
type Options struct {
	// DBPath overrides the local state database location.
	DBPath string
}

// Run wires the services and starts the Bubble Tea program.
func Run(opts Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath, err = localstate.DefaultDBPath()
		if err != nil {
			return err
		}
	}
	slots, err := localstate.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open local state: %w", err)
	}
	defer slots.Close()

	ctx := context.Background()

	tokens, err := auth.NewStore(ctx, slots)
	if err != nil {
		return fmt.Errorf("load auth token: %w", err)
	}

	client := api.New(cfg.BaseURL, tokens,
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithLogger(log),
	)

	ids := identity.New(slots)
	if err := ids.Load(ctx); err != nil {
		return fmt.Errorf("load session state: %w", err)
	}

	deps := home.Deps{
		Client:    client,
		Tokens:    tokens,
		Identity:  ids,
		Practice:  practice.NewOrchestrator(client, ids, practice.NewConfig()),
		Interview: interview.NewController(client, ids),
		Quiz:      mcq.NewQuiz(client, ids),
		Progress:  progress.NewFetcher(client),
	}

	log.Info().Str("base_url", cfg.BaseURL).Msg("starting")

	p := tea.NewProgram(newAppModel(client, tokens, deps, log))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
