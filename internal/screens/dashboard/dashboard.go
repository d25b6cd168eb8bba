// Package dashboard renders the latest-session progress summary.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/identity"
	"github.com/abhisek/prepterm/internal/progress"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/ui/components"
	"github.com/abhisek/prepterm/internal/ui/layout"
	"github.com/abhisek/prepterm/internal/ui/theme"
)

// dashboardDoneMsg carries the fetched aggregate.
type dashboardDoneMsg struct {
	dash *api.Dashboard
	err  error
}

// weakTopicsDoneMsg carries a completed weak-topics fetch.
type weakTopicsDoneMsg struct {
	result progress.Result
}

// sessionResolvedMsg carries the backend's active session id, fetched when
// no id is known locally.
type sessionResolvedMsg struct {
	id  int
	err error
}

// DashboardScreen implements screen.Screen for the progress summary.
type DashboardScreen struct {
	client *api.Client
	weak   *progress.Fetcher
	ids    *identity.Manager
	dash   *api.Dashboard
	busy   bool
	noData bool
	errMsg string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Closer = (*DashboardScreen)(nil)

// New creates the dashboard screen. Both fetches start on entry.
func New(client *api.Client, weak *progress.Fetcher, ids *identity.Manager) *DashboardScreen {
	return &DashboardScreen{client: client, weak: weak, ids: ids}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return tea.Batch(s.fetchDashboard(), s.fetchWeakTopics())
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDoneMsg:
		s.busy = false
		switch {
		case errors.Is(msg.err, api.ErrUnauthorized):
			return s, screen.Reauth
		case errors.Is(msg.err, api.ErrNoSession):
			s.noData = true
		case msg.err != nil:
			s.errMsg = msg.err.Error()
		default:
			s.dash = msg.dash
		}
		return s, nil

	case weakTopicsDoneMsg:
		s.weak.Accept(msg.result)
		return s, nil

	case sessionResolvedMsg:
		switch {
		case errors.Is(msg.err, api.ErrUnauthorized):
			return s, screen.Reauth
		case msg.err != nil:
			// No resolvable session; the weak-topics section just stays
			// empty while the dashboard fetch reports its own state.
			return s, nil
		}
		if err := s.ids.Set(context.Background(), msg.id); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, s.beginWeakTopics(msg.id)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "r":
			return s, tea.Batch(s.fetchDashboard(), s.fetchWeakTopics())
		}
	}
	return s, nil
}

func (s *DashboardScreen) fetchDashboard() tea.Cmd {
	s.busy = true
	s.noData = false
	s.errMsg = ""
	client := s.client
	return func() tea.Msg {
		dash, err := client.Dashboard(context.Background())
		return dashboardDoneMsg{dash: dash, err: err}
	}
}

// fetchWeakTopics uses the locally known session id when present, else
// resolves the most recent session from the backend first.
func (s *DashboardScreen) fetchWeakTopics() tea.Cmd {
	if id := s.ids.SessionID(); id != 0 {
		return s.beginWeakTopics(id)
	}
	client := s.client
	return func() tea.Msg {
		id, err := client.ActiveSession(context.Background())
		return sessionResolvedMsg{id: id, err: err}
	}
}

func (s *DashboardScreen) beginWeakTopics(id int) tea.Cmd {
	fetch := s.weak.Begin(context.Background(), id)
	return func() tea.Msg {
		return weakTopicsDoneMsg{result: fetch()}
	}
}

// Close cancels any weak-topics fetch still in flight when the screen
// leaves the stack.
func (s *DashboardScreen) Close() {
	s.weak.Stop()
}

func (s *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Loading dashboard…") + "\n")

	case s.noData:
		b.WriteString(theme.Body.Render("No sessions yet. Start a practice session first.") + "\n")

	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg) + "\n")

	case s.dash != nil:
		b.WriteString(s.renderDashboard(cw))
	}

	return components.CenterFrame(components.Card(b.String(), cw), width, height)
}

func (s *DashboardScreen) renderDashboard(cw int) string {
	d := s.dash

	var b strings.Builder
	meta := fmt.Sprintf("session #%d · %s · %s/%s", d.SessionID, d.Mode, d.Track, d.Level)
	b.WriteString(theme.Subtitle.Render(meta) + "\n\n")

	avg := "—"
	if d.Totals.AvgOverall != nil {
		avg = fmt.Sprintf("%.1f", *d.Totals.AvgOverall)
	}
	totals := fmt.Sprintf("Answered %d of %d · avg %s", d.Totals.Answered, d.Totals.QuestionsTotal, avg)
	b.WriteString(theme.Body.Render(totals) + "\n")

	if len(d.BySkill) > 0 {
		b.WriteString("\n" + theme.Title.Render("By skill") + "\n")
		for _, row := range d.BySkill {
			label := fmt.Sprintf("%s (%d)", row.Skill, row.Attempts)
			b.WriteString(components.ScoreBar(label, row.AvgOverall, cw-10) + "\n")
		}
	}

	b.WriteString("\n" + theme.Title.Render("Weak topics") + "\n")
	switch {
	case s.weak.Busy:
		b.WriteString(theme.Hint.Render("Loading…") + "\n")
	case s.weak.Err != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.weak.Err) + "\n")
	case len(s.weak.Topics) == 0:
		b.WriteString(theme.Hint.Render("Nothing flagged yet.") + "\n")
	default:
		for _, wt := range s.weak.Topics {
			line := fmt.Sprintf("  • %s · avg %.1f over %d attempts", wt.Topic, wt.AvgOverall, wt.Attempts)
			b.WriteString(theme.Body.Render(line) + "\n")
		}
	}

	if len(d.Recent) > 0 {
		b.WriteString("\n" + theme.Title.Render("Recent") + "\n")
		for _, item := range d.Recent {
			score := "unanswered"
			if item.Overall != nil {
				score = fmt.Sprintf("%.1f", *item.Overall)
			}
			head := fmt.Sprintf("  %s/%s · d%d · %s", item.Skill, item.Topic, item.Difficulty, score)
			b.WriteString(theme.Hint.Render(head) + "\n")
			b.WriteString(theme.Body.Render("  "+components.Wrap(item.Question, cw-8)) + "\n")
		}
	}

	return b.String()
}
