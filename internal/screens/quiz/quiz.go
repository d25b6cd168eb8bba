// Package quiz runs a multiple-choice batch against the active session.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/mcq"
	"github.com/abhisek/prepterm/internal/practice"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/ui/components"
	"github.com/abhisek/prepterm/internal/ui/layout"
	"github.com/abhisek/prepterm/internal/ui/theme"
)

// generateDoneMsg carries the finished batch fetch back to the UI loop.
type generateDoneMsg struct {
	result mcq.GenerateResult
}

// submitDoneMsg carries grading of the current question.
type submitDoneMsg struct {
	result mcq.SubmitResult
}

// reportDoneMsg carries the end-of-run report.
type reportDoneMsg struct {
	result mcq.ReportResult
}

// QuizScreen implements screen.Screen for an MCQ run.
type QuizScreen struct {
	quiz *mcq.Quiz
	cfg  *practice.Config

	choice    components.MultiChoice
	report    *api.MCQReport
	busyLabel string
	errMsg    string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen. The batch is generated from the shared
// practice config on entry.
func New(q *mcq.Quiz, cfg *practice.Config) *QuizScreen {
	return &QuizScreen{quiz: q, cfg: cfg}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.generate()
}

func (s *QuizScreen) Title() string {
	return "Quick Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	cur := s.quiz.Current()
	if cur != nil && cur.Result != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Choose"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generateDoneMsg:
		s.busyLabel = ""
		if err := s.quiz.ApplyGenerate(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.quiz.Err
			return s, nil
		}
		s.loadCurrent()
		return s, nil

	case submitDoneMsg:
		s.busyLabel = ""
		if err := s.quiz.ApplySubmit(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.quiz.Err
			return s, nil
		}
		if cur := s.quiz.Current(); cur != nil && cur.Result != nil {
			s.choice.SetResult(cur.Result.CorrectAnswer)
		}
		return s, nil

	case reportDoneMsg:
		s.busyLabel = ""
		if err := s.quiz.ApplyReport(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.quiz.Err
			return s, nil
		}
		s.report = msg.result.Report
		return s, nil

	case tea.KeyMsg:
		if s.busyLabel != "" {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	cur := s.quiz.Current()

	if msg.String() == "enter" {
		switch {
		case cur == nil:
			return s, nil
		case cur.Result == nil:
			return s, s.submit()
		default:
			if s.quiz.Advance() {
				s.loadCurrent()
				return s, nil
			}
			if s.report == nil {
				return s, s.fetchReport()
			}
			return s, nil
		}
	}

	if cur != nil && cur.Result == nil {
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		s.quiz.Select(s.choice.SelectedLetter())
		return s, cmd
	}
	return s, nil
}

// loadCurrent rebuilds the choice component for the question under the
// cursor.
func (s *QuizScreen) loadCurrent() {
	cur := s.quiz.Current()
	if cur == nil {
		return
	}
	choices := make([]components.Choice, 0, len(cur.Options))
	for _, opt := range cur.Options {
		choices = append(choices, components.Choice{Letter: opt.Letter, Text: opt.Text})
	}
	s.choice = components.NewMultiChoice(cur.Question, choices)
}

func (s *QuizScreen) generate() tea.Cmd {
	call, err := s.quiz.BeginGenerate(context.Background(), s.cfg.Skill, s.cfg.Topic, s.cfg.Difficulty)
	if err != nil {
		s.errMsg = s.quiz.Err
		return nil
	}
	s.busyLabel = "Generating questions…"
	s.errMsg = ""
	s.report = nil
	return func() tea.Msg {
		return generateDoneMsg{result: call()}
	}
}

func (s *QuizScreen) submit() tea.Cmd {
	s.quiz.Select(s.choice.SelectedLetter())
	call, err := s.quiz.BeginSubmit(context.Background())
	if err != nil {
		s.errMsg = s.quiz.Err
		return nil
	}
	s.busyLabel = "Checking answer…"
	s.errMsg = ""
	s.choice.Lock()
	return func() tea.Msg {
		return submitDoneMsg{result: call()}
	}
}

func (s *QuizScreen) fetchReport() tea.Cmd {
	call, err := s.quiz.BeginReport(context.Background())
	if err != nil {
		s.errMsg = s.quiz.Err
		return nil
	}
	s.busyLabel = "Building report…"
	s.errMsg = ""
	return func() tea.Msg {
		return reportDoneMsg{result: call()}
	}
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder

	meta := fmt.Sprintf("%s · %s · difficulty %d", s.cfg.Skill, s.cfg.Topic, s.cfg.Difficulty)
	b.WriteString(theme.Subtitle.Render(meta) + "\n\n")

	switch {
	case s.busyLabel != "":
		b.WriteString(theme.Hint.Render(s.busyLabel) + "\n")

	case s.report != nil:
		b.WriteString(s.renderReport(cw))

	case s.quiz.Current() != nil:
		cur := s.quiz.Current()
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.quiz.Cursor+1, len(s.quiz.Items))) + "\n\n")
		b.WriteString(s.choice.View())
		if cur.Result != nil {
			b.WriteString("\n" + s.renderResult(cur, cw))
		}

	case len(s.quiz.Items) == 0:
		b.WriteString(theme.Body.Render("No questions yet.") + "\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return components.CenterFrame(components.Card(b.String(), cw), width, height)
}

func (s *QuizScreen) renderResult(cur *mcq.Item, cw int) string {
	var b strings.Builder
	if cur.Result.Correct {
		b.WriteString(theme.Correct.Render("Correct") + "\n")
	} else {
		b.WriteString(theme.Incorrect.Render("Incorrect · answer: "+cur.Result.CorrectAnswer) + "\n")
	}
	if cur.Result.Explanation != "" {
		b.WriteString(theme.Body.Render(components.Wrap(cur.Result.Explanation, cw-6)) + "\n")
	}
	return b.String()
}

func (s *QuizScreen) renderReport(cw int) string {
	correct, graded := s.quiz.Score()

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Run complete: %d/%d correct", correct, graded)) + "\n\n")
	for _, row := range s.report.BySkill {
		label := fmt.Sprintf("%s (%d)", row.Skill, row.Attempts)
		b.WriteString(components.NewProgressBar(label, row.Accuracy, true, cw-10).View() + "\n")
	}
	b.WriteString("\n" + theme.Hint.Render("Esc to go back") + "\n")
	return b.String()
}
