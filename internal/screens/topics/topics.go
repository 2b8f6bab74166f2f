// Package topics lets a student pick a topic for a focus test.
package topics

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/screen"
	sessionscreen "github.com/abhisek/numeracy/internal/screens/session"
	sess "github.com/abhisek/numeracy/internal/session"
	"github.com/abhisek/numeracy/internal/ui/components"
	"github.com/abhisek/numeracy/internal/ui/layout"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

// TopicsScreen lists topics with the student's accuracy in each.
type TopicsScreen struct {
	title string
	menu  components.Menu
	err   string
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a topic picker. Choosing a topic starts a focus test for
// the student's year. stats supplies past accuracy where there is any.
func New(title string, deps sessionscreen.Deps, studentID string, year int, topics []string, stats []scoring.TopicStat) *TopicsScreen {
	byTopic := make(map[string]scoring.TopicStat, len(stats))
	for _, st := range stats {
		byTopic[st.Topic] = st
	}

	s := &TopicsScreen{title: title}
	items := make([]components.MenuItem, 0, len(topics))
	for _, topic := range topics {
		hint := "not tried yet"
		if st, ok := byTopic[topic]; ok {
			hint = fmt.Sprintf("%.0f%%  (%d/%d)", st.Percentage, st.Correct, st.Total)
			if st.Percentage < scoring.WeakTopicThreshold {
				hint += "  needs practice"
			}
		}
		items = append(items, components.MenuItem{
			Label: topic,
			Hint:  hint,
			Action: func() tea.Cmd {
				plan, err := sess.FocusPlan(year, topic)
				if err != nil {
					s.err = err.Error()
					return nil
				}
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: sessionscreen.New(deps, studentID, plan)}
				}
			},
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *TopicsScreen) Init() tea.Cmd {
	return nil
}

func (s *TopicsScreen) Title() string {
	return s.title
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TopicsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Subtitle, "Pick a topic for a 10-question, 15-minute focus test", width))
	b.WriteString("\n\n")
	if len(s.menu.Items) == 0 {
		b.WriteString(layout.Centered(theme.Hint.Italic(true), "No topics to show.", width))
		return b.String()
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.ErrorText, s.err, width))
	}
	return b.String()
}
