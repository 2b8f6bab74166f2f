package history

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/screen"
	"github.com/abhisek/numeracy/internal/screens/summary"
	"github.com/abhisek/numeracy/internal/ui/layout"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

// ResultSource lists a student's stored results, oldest first.
type ResultSource interface {
	StudentResults(ctx context.Context, studentID string) ([]scoring.TestResult, error)
}

type historyLoadedMsg struct {
	Results []scoring.TestResult
	Err     error
}

// HistoryScreen displays a student's past tests, newest first.
type HistoryScreen struct {
	source    ResultSource
	studentID string
	results   []scoring.TestResult
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source ResultSource, studentID string) *HistoryScreen {
	return &HistoryScreen{source: source, studentID: studentID}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		results, err := s.source.StudentResults(context.Background(), s.studentID)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		slices.Reverse(results)
		return historyLoadedMsg{Results: results}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.results) {
				res := s.results[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: summary.ForHistory(res)}
				}
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(theme.ErrorText, fmt.Sprintf("\n\nError: %s", s.errMsg), width)
	}
	if !s.loaded {
		return layout.Centered(theme.Hint, "\n\n  Loading results...", width)
	}
	if len(s.results) == 0 {
		return layout.Centered(theme.Hint.Italic(true), "\n\n  No tests yet. Take a practice test to see your results here.", width)
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, res := range s.results {
		kind := "Full test"
		if res.Type == scoring.TestFocus {
			kind = "Focus: " + res.FocusTopic
		}
		band := ""
		if res.BandScore > 0 {
			band = fmt.Sprintf("  Band %d", res.BandScore)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-22s %2d/%-2d  %5.1f%%%s",
			prefix, res.Date.Local().Format("Jan 02, 2006 15:04"), kind,
			res.QuestionsCorrect, res.QuestionsTotal, res.Percentage, band)

		style := lipgloss.NewStyle().Foreground(percentColor(res.Percentage))
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func percentColor(pct float64) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= scoring.WeakTopicThreshold:
		return theme.Text
	default:
		return theme.Accent
	}
}
