// Package setup renders the practice configuration form and starts a
// session from it.
package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepterm/internal/api"
	"github.com/abhisek/prepterm/internal/practice"
	"github.com/abhisek/prepterm/internal/router"
	"github.com/abhisek/prepterm/internal/screen"
	"github.com/abhisek/prepterm/internal/screens/drill"
	"github.com/abhisek/prepterm/internal/ui/components"
	"github.com/abhisek/prepterm/internal/ui/layout"
	"github.com/abhisek/prepterm/internal/ui/theme"
)

const (
	rowTrack = iota
	rowLevel
	rowSkill
	rowTopic
	rowQuestionType
	rowDifficulty
	rowCount
)

// sessionDoneMsg carries the outcome of session creation back to the UI
// loop.
type sessionDoneMsg struct {
	result practice.SessionResult
}

// SetupScreen implements screen.Screen for the practice config form.
type SetupScreen struct {
	orch *practice.Orchestrator

	row    int
	topic  components.TextInput
	busy   bool
	errMsg string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen over the shared orchestrator.
func New(orch *practice.Orchestrator) *SetupScreen {
	topic := components.NewTextInput("topic (blank for a suggested one)", 80)
	topic.Model.SetValue(orch.Config().Topic)
	topic.Model.Blur()
	return &SetupScreen{orch: orch, topic: topic}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Practice Setup"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start session"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionDoneMsg:
		s.busy = false
		if err := s.orch.ApplyCreateSession(context.Background(), msg.result); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return s, screen.Reauth
			}
			s.errMsg = s.orch.Err
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: drill.New(s.orch)}
		}

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "up":
			return s, s.moveRow(-1)
		case "down":
			return s, s.moveRow(1)
		case "left":
			s.cycle(-1)
			return s, nil
		case "right":
			s.cycle(1)
			return s, nil
		case "enter":
			return s, s.start()
		}
	}

	if s.row == rowTopic {
		var cmd tea.Cmd
		s.topic, cmd = s.topic.Update(msg)
		s.orch.Config().SetTopic(s.topic.Value())
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) moveRow(delta int) tea.Cmd {
	s.row += delta
	if s.row < 0 {
		s.row = 0
	}
	if s.row >= rowCount {
		s.row = rowCount - 1
	}
	if s.row == rowTopic {
		return s.topic.Model.Focus()
	}
	s.topic.Model.Blur()
	return nil
}

// cycle steps the focused enum row. The topic row is free text and does
// not cycle.
func (s *SetupScreen) cycle(delta int) {
	cfg := s.orch.Config()
	switch s.row {
	case rowTrack:
		cfg.SetTrack(cycleSlice(practice.Tracks, cfg.Track, delta))
		s.topic.Model.SetValue(cfg.Topic)
	case rowLevel:
		cfg.Level = cycleSlice(practice.Levels, cfg.Level, delta)
	case rowSkill:
		skills := practice.AllowedSkills(cfg.Track)
		cfg.SetSkill(cycleSlice(skills, cfg.Skill, delta))
		s.topic.Model.SetValue(cfg.Topic)
	case rowQuestionType:
		cfg.QuestionType = cycleSlice(practice.QuestionTypes, cfg.QuestionType, delta)
	case rowDifficulty:
		cfg.SetDifficulty(cfg.Difficulty + delta)
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

func (s *SetupScreen) start() tea.Cmd {
	call := s.orch.BeginCreateSession(context.Background())
	s.busy = true
	s.errMsg = ""
	return func() tea.Msg {
		return sessionDoneMsg{result: call()}
	}
}

func (s *SetupScreen) View(width, height int) string {
	cfg := s.orch.Config()
	cw := components.ContentWidth(width)

	rows := []struct {
		label string
		value string
	}{
		{"Track", string(cfg.Track)},
		{"Level", string(cfg.Level)},
		{"Skill", cfg.Skill},
		{"Topic", s.topic.View()},
		{"Question type", string(cfg.QuestionType)},
		{"Difficulty", fmt.Sprintf("%d / 5", cfg.Difficulty)},
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Configure your practice run") + "\n\n")
	for i, row := range rows {
		label := fmt.Sprintf("%-15s", row.label)
		if i == s.row {
			b.WriteString(theme.Selected.Render("▸ "+label) + row.value + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+label) + row.value + "\n")
		}
	}

	if s.busy {
		b.WriteString("\n" + theme.Hint.Render("Creating session…"))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := components.Card(b.String(), cw)
	return components.CenterFrame(card, width, height)
}
