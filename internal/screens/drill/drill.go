// Package drill renders the question/answer/evaluation loop for a practice
// session.
package drill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/practice"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/ui/components"
	"github.com/abhisek/prepterm/internal/ui/layout"
	"github.com/abhisek/prepterm/internal/ui/theme"
)

// questionDoneMsg carries a finished generate call back to the UI loop.
type questionDoneMsg struct {
	result practice.QuestionResult
}

// evalDoneMsg carries a finished evaluate call.
type evalDoneMsg struct {
	result practice.EvaluationResult
}

// hintDoneMsg carries a finished hint call, separate so hints never block
// the question flow.
type hintDoneMsg struct {
	result practice.HintResult
}

// DrillScreen implements screen.Screen for the active practice loop.
type DrillScreen struct {
	orch *practice.Orchestrator

	answer    components.AnswerArea
	hintLevel int
	busyLabel string
	hintBusy  bool
	errMsg    string
	width     int
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)

// New creates the drill screen over the shared orchestrator.
func New(orch *practice.Orchestrator) *DrillScreen {
	return &DrillScreen{
		orch:   orch,
		answer: components.NewAnswerArea("Type your answer…"),
	}
}

func (s *DrillScreen) Init() tea.Cmd {
	return tea.Batch(s.answer.Init(), s.generate())
}

func (s *DrillScreen) Title() string {
	return "Practice"
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+E", Description: "Evaluate"},
		{Key: "Ctrl+H", Description: "Hint"},
		{Key: "Ctrl+N", Description: "New question"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionDoneMsg:
		s.busyLabel = ""
		if err := s.orch.ApplyGenerate(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.orch.Err
		}
		return s, nil

	case evalDoneMsg:
		s.busyLabel = ""
		if err := s.orch.ApplyEvaluate(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.orch.Err
		}
		return s, nil

	case hintDoneMsg:
		s.hintBusy = false
		if err := s.orch.ApplyHint(msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.orch.Err
		}
		return s, nil

	case tea.KeyMsg:
		if s.busyLabel != "" {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+n":
			return s, s.generate()
		case "ctrl+e":
			return s, s.evaluate()
		case "ctrl+h":
			return s, s.hint()
		}
	}

	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(msg)
	s.orch.SetAnswer(s.answer.Value())
	return s, cmd
}

func (s *DrillScreen) generate() tea.Cmd {
	call, err := s.orch.BeginGenerate(context.Background())
	if err != nil {
		s.errMsg = s.orch.Err
		return nil
	}
	s.busyLabel = "Generating question…"
	s.errMsg = ""
	s.hintLevel = 0
	s.answer.Reset()
	return func() tea.Msg {
		return questionDoneMsg{result: call()}
	}
}

func (s *DrillScreen) evaluate() tea.Cmd {
	s.orch.SetAnswer(s.answer.Value())
	call, err := s.orch.BeginEvaluate(context.Background())
	if err != nil {
		s.errMsg = s.orch.Err
		return nil
	}
	s.busyLabel = "Evaluating answer…"
	s.errMsg = ""
	return func() tea.Msg {
		return evalDoneMsg{result: call()}
	}
}

// hint escalates through the three tiers on repeated presses.
func (s *DrillScreen) hint() tea.Cmd {
	if s.hintBusy {
		return nil
	}
	level := s.hintLevel
	if level < practice.HintNearSolution {
		level++
	}
	s.orch.SetAnswer(s.answer.Value())
	call, err := s.orch.BeginHint(context.Background(), level)
	if err != nil {
		s.errMsg = s.orch.Err
		return nil
	}
	s.hintLevel = level
	s.hintBusy = true
	s.errMsg = ""
	return func() tea.Msg {
		return hintDoneMsg{result: call()}
	}
}

func (s *DrillScreen) View(width, height int) string {
	s.width = width
	cw := components.ContentWidth(width)
	s.answer.SetSize(cw-6, 6)

	var b strings.Builder

	cfg := s.orch.Config()
	meta := fmt.Sprintf("%s · %s · difficulty %d", cfg.Skill, cfg.Topic, cfg.Difficulty)
	b.WriteString(theme.Subtitle.Render(meta) + "\n\n")

	if s.busyLabel != "" {
		b.WriteString(theme.Hint.Render(s.busyLabel) + "\n")
		return components.CenterFrame(components.Card(b.String(), cw), width, height)
	}

	if s.orch.Question != "" {
		b.WriteString(theme.Body.Render(components.Wrap(s.orch.Question, cw-6)) + "\n\n")
		b.WriteString(s.answer.View() + "\n")
	}

	if s.hintBusy {
		b.WriteString("\n" + theme.Hint.Render("Fetching hint…"))
	} else if s.orch.Hint != "" {
		label := fmt.Sprintf("Hint %d/3: ", s.hintLevel)
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render(label) +
			theme.Body.Render(components.Wrap(s.orch.Hint, cw-16)))
		b.WriteString("\n")
	}

	if s.orch.Evaluation != nil {
		b.WriteString("\n" + s.renderEvaluation(cw))
	}

	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := components.Card(b.String(), cw)
	return components.CenterFrame(card, width, height)
}

func (s *DrillScreen) renderEvaluation(cw int) string {
	eval := s.orch.Evaluation
	barWidth := cw - 10

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Overall %.1f / 5", s.orch.Overall)) + "\n\n")
	b.WriteString(components.ScoreBar("Correctness", float64(eval.Scores.Correctness), barWidth) + "\n")
	b.WriteString(components.ScoreBar("Completeness", float64(eval.Scores.Completeness), barWidth) + "\n")
	b.WriteString(components.ScoreBar("Clarity", float64(eval.Scores.Clarity), barWidth) + "\n")
	b.WriteString(components.ScoreBar("Depth", float64(eval.Scores.Depth), barWidth) + "\n")
	b.WriteString(components.ScoreBar("Reasoning", float64(eval.Scores.Reasoning), barWidth) + "\n")

	writeList := func(title string, items []string, style lipgloss.Style) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + style.Render(title) + "\n")
		for _, item := range items {
			b.WriteString(theme.Body.Render("  • "+components.Wrap(item, cw-10)) + "\n")
		}
	}
	writeList("Strengths", eval.Strengths, theme.Correct)
	writeList("Gaps", eval.Gaps, theme.Incorrect)
	writeList("Improvements", eval.Improvements, lipgloss.NewStyle().Foreground(theme.Accent))

	if eval.ModelAnswer != "" {
		b.WriteString("\n" + theme.Hint.Render("Model answer") + "\n")
		b.WriteString(theme.Body.Render(components.Wrap(eval.ModelAnswer, cw-6)) + "\n")
	}
	if eval.NextDrillTopic != "" {
		b.WriteString("\n" + theme.Hint.Render("Next drill topic: "+eval.NextDrillTopic) + "\n")
	}
	return b.String()
}

