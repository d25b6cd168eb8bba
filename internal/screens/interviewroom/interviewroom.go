// Package interviewroom renders the multi-turn mock-interview flow: a
// start form, then the running transcript with an answer box.
package interviewroom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/interview"
	"github.com/abhisek/prepterm/internal/practice"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/ui/components"
	"github.com/abhisek/prepterm/internal/ui/layout"
	"github.com/abhisek/prepterm/internal/ui/theme"
)

// interviewTypes lists the selectable interview flavors, matching the
// values the server accepts.
var interviewTypes = []string{"Technical", "HR", "Scenario"}

const (
	rowTrack = iota
	rowLevel
	rowType
	rowCount
)

// startDoneMsg carries a finished start call back to the UI loop.
type startDoneMsg struct {
	result interview.StartResult
}

// answerDoneMsg carries a finished answer cycle.
type answerDoneMsg struct {
	result interview.TurnResult
}

// nextDoneMsg carries a finished next-question retry.
type nextDoneMsg struct {
	result interview.NextResult
}

// InterviewScreen implements screen.Screen for the mock interview.
type InterviewScreen struct {
	ctrl *interview.Controller

	// Start form state.
	row   int
	track practice.Track
	level practice.Level
	iType int

	answer    components.AnswerArea
	busyLabel string
	errMsg    string
}

var _ screen.Screen = (*InterviewScreen)(nil)
var _ screen.KeyHintProvider = (*InterviewScreen)(nil)

// New creates the interview screen over the shared controller.
func New(ctrl *interview.Controller) *InterviewScreen {
	return &InterviewScreen{
		ctrl:   ctrl,
		track:  practice.TrackBackend,
		level:  practice.LevelIntermediate,
		answer: components.NewAnswerArea("Answer aloud, then type the gist here…"),
	}
}

func (s *InterviewScreen) Init() tea.Cmd {
	return s.answer.Init()
}

func (s *InterviewScreen) Title() string {
	return "Mock Interview"
}

func (s *InterviewScreen) KeyHints() []layout.KeyHint {
	switch s.ctrl.State() {
	case interview.NotStarted:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Change"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case interview.Complete:
		return []layout.KeyHint{
			{Key: "R", Description: "New interview"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Ctrl+D", Description: "Submit answer"},
			{Key: "Ctrl+R", Description: "Restart"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *InterviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startDoneMsg:
		s.busyLabel = ""
		if err := s.ctrl.ApplyStart(context.Background(), msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.ctrl.Err
		} else {
			s.answer.Reset()
		}
		return s, nil

	case answerDoneMsg:
		s.busyLabel = ""
		if err := s.ctrl.ApplySubmit(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.ctrl.Err
		} else {
			s.answer.Reset()
		}
		return s, nil

	case nextDoneMsg:
		s.busyLabel = ""
		if err := s.ctrl.ApplyNext(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.ctrl.Err
		}
		return s, nil

	case tea.KeyMsg:
		if s.busyLabel != "" {
			return s, nil
		}
		switch s.ctrl.State() {
		case interview.NotStarted:
			return s.updateForm(msg)
		case interview.Complete:
			if msg.String() == "r" {
				s.ctrl.Reset()
				s.errMsg = ""
			}
			return s, nil
		case interview.NextQuestionPending:
			if msg.String() == "enter" {
				return s, s.retryNext()
			}
			return s, nil
		default:
			switch msg.String() {
			case "ctrl+d":
				return s, s.submit()
			case "ctrl+r":
				s.ctrl.Reset()
				s.errMsg = ""
				s.answer.Reset()
				return s, nil
			}
		}
	}

	if s.ctrl.State() == interview.AwaitingAnswer {
		var cmd tea.Cmd
		s.answer, cmd = s.answer.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *InterviewScreen) updateForm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up":
		if s.row > 0 {
			s.row--
		}
	case "down":
		if s.row < rowCount-1 {
			s.row++
		}
	case "left":
		s.cycle(-1)
	case "right":
		s.cycle(1)
	case "enter":
		return s, s.start()
	}
	return s, nil
}

func (s *InterviewScreen) cycle(delta int) {
	switch s.row {
	case rowTrack:
		s.track = cycleSlice(practice.Tracks, s.track, delta)
	case rowLevel:
		s.level = cycleSlice(practice.Levels, s.level, delta)
	case rowType:
		s.iType = (s.iType + delta + len(interviewTypes)) % len(interviewTypes)
	}
}

func cycleSlice[T comparable](values []T, current T, delta int) T {
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(values)) % len(values)
	return values[idx]
}

func (s *InterviewScreen) start() tea.Cmd {
	call := s.ctrl.BeginStart(context.Background(),
		string(s.track), string(s.level), interviewTypes[s.iType])
	s.busyLabel = "Starting interview…"
	s.errMsg = ""
	return func() tea.Msg {
		return startDoneMsg{result: call()}
	}
}

func (s *InterviewScreen) submit() tea.Cmd {
	call, err := s.ctrl.BeginSubmit(context.Background(), s.answer.Value())
	if err != nil {
		s.errMsg = s.ctrl.Err
		return nil
	}
	s.busyLabel = "Evaluating answer…"
	s.errMsg = ""
	return func() tea.Msg {
		return answerDoneMsg{result: call()}
	}
}

func (s *InterviewScreen) retryNext() tea.Cmd {
	call, err := s.ctrl.BeginNext(context.Background())
	if err != nil {
		s.errMsg = s.ctrl.Err
		return nil
	}
	s.busyLabel = "Fetching next question…"
	s.errMsg = ""
	return func() tea.Msg {
		return nextDoneMsg{result: call()}
	}
}

func (s *InterviewScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.ctrl.State() == interview.NotStarted {
		return s.viewForm(width, height, cw)
	}

	s.answer.SetSize(cw-6, 4)

	var b strings.Builder
	meta := fmt.Sprintf("turn %d · difficulty %d · %s",
		s.ctrl.Turn(), s.ctrl.Difficulty(), s.ctrl.State())
	b.WriteString(theme.Subtitle.Render(meta) + "\n\n")

	b.WriteString(s.renderTranscript(cw))

	switch {
	case s.busyLabel != "":
		b.WriteString("\n" + theme.Hint.Render(s.busyLabel))
	case s.ctrl.State() == interview.AwaitingAnswer:
		b.WriteString("\n" + s.answer.View())
	case s.ctrl.State() == interview.NextQuestionPending:
		b.WriteString("\n" + theme.Hint.Render("Press Enter to fetch the next question."))
	case s.ctrl.State() == interview.Complete:
		b.WriteString("\n" + theme.Correct.Render("Interview complete.") +
			theme.Hint.Render("  Press R to start another."))
	}

	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := components.Card(b.String(), cw)
	return components.CenterFrame(card, width, height)
}

func (s *InterviewScreen) viewForm(width, height, cw int) string {
	rows := []struct {
		label string
		value string
	}{
		{"Track", string(s.track)},
		{"Level", string(s.level)},
		{"Interview type", interviewTypes[s.iType]},
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Set up your interview") + "\n\n")
	for i, row := range rows {
		label := fmt.Sprintf("%-16s", row.label)
		if i == s.row {
			b.WriteString(theme.Selected.Render("▸ "+label) + row.value + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+label) + row.value + "\n")
		}
	}
	if s.busyLabel != "" {
		b.WriteString("\n" + theme.Hint.Render(s.busyLabel))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := components.Card(b.String(), cw)
	return components.CenterFrame(card, width, height)
}

// renderTranscript shows the last few transcript entries so the active
// question stays on screen.
func (s *InterviewScreen) renderTranscript(cw int) string {
	entries := s.ctrl.Transcript()
	const keep = 6
	if len(entries) > keep {
		entries = entries[len(entries)-keep:]
	}

	var b strings.Builder
	for _, e := range entries {
		switch e.Kind {
		case interview.EntryQuestion:
			label := "Interviewer"
			if e.FollowUp {
				label = "Interviewer (follow-up)"
			}
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label) + "\n")
			b.WriteString(theme.Body.Render(components.Wrap(e.Text, cw-6)) + "\n\n")
		case interview.EntryAnswer:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("You") + "\n")
			b.WriteString(theme.Body.Render(components.Wrap(e.Text, cw-6)) + "\n\n")
		case interview.EntryEvaluation:
			if e.Evaluation == nil {
				continue
			}
			line := fmt.Sprintf("Scored %.1f / 5", e.Evaluation.Overall)
			if len(e.Evaluation.Gaps) > 0 {
				line += " · gap: " + e.Evaluation.Gaps[0]
			}
			b.WriteString(theme.Hint.Render(components.Wrap(line, cw-6)) + "\n\n")
		}
	}
	return b.String()
}

