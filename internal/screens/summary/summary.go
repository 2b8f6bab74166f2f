// Package summary shows the result of a submitted test.
package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/screen"
	"github.com/abhisek/numeracy/internal/ui/components"
	"github.com/abhisek/numeracy/internal/ui/layout"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

// SummaryScreen displays a test result and, on request, every question
// with the student's answer next to the correct one.
type SummaryScreen struct {
	result scoring.TestResult
	note   string

	// fromHistory screens pop back to the list instead of home.
	fromHistory bool
	review      bool
	offset      int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// New creates the screen shown right after a test is submitted. A
// non-empty note is shown under the score.
func New(res scoring.TestResult, note string) *SummaryScreen {
	return &SummaryScreen{result: res, note: note}
}

// ForHistory creates the screen for a past result.
func ForHistory(res scoring.TestResult) *SummaryScreen {
	return &SummaryScreen{result: res, fromHistory: true}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	if s.result.Type == scoring.TestFocus {
		return "Focus Test Results"
	}
	return "Test Results"
}

func (s *SummaryScreen) HandlesEscape() bool { return true }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.review {
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Scroll"},
			{Key: "R", Description: "Scores"},
			{Key: "Enter", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "R", Description: "Review answers"},
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc", "q":
		if s.fromHistory {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "r", "R":
		s.review = !s.review
		s.offset = 0
	case "up", "k":
		if s.review && s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.review && s.offset < len(s.result.Questions)-1 {
			s.offset++
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.review {
		return s.renderReview(width, height)
	}
	res := s.result
	var b strings.Builder

	b.WriteString(layout.Centered(theme.Title, "Test complete!", width))
	b.WriteString("\n\n")

	scoreLine := fmt.Sprintf("%d / %d correct   ·   %.1f%%", res.QuestionsCorrect, res.QuestionsTotal, res.Percentage)
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), scoreLine, width))
	b.WriteString("\n")

	label := res.Label()
	if res.BandScore > 0 {
		label = fmt.Sprintf("Band %d   ·   %s", res.BandScore, label)
	}
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(labelColor(res.Percentage)), label, width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint, "Time taken: "+layout.FormatClock(res.TimeSpent), width))
	b.WriteString("\n")

	if s.note != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.ErrorText, s.note, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint, "Topics", width))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	topics := res.Topics()
	labelWidth := 0
	for _, t := range topics {
		labelWidth = max(labelWidth, lipgloss.Width(t))
	}
	cw := components.ContentWidth(width)
	var bars []string
	for _, t := range topics {
		ts := res.TopicBreakdown[t]
		bar := components.NewProgressBar(t, ts.Percentage()/100, true, cw-8)
		bar.LabelWidth = labelWidth
		bars = append(bars, bar.View()+theme.Hint.Render(fmt.Sprintf("  %d/%d", ts.Correct, ts.Total)))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(bars, "\n")))

	return b.String()
}

// renderReview lists the questions from the scroll offset down.
func (s *SummaryScreen) renderReview(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	used := 0
	for i := s.offset; i < len(s.result.Questions); i++ {
		q := s.result.Questions[i]
		mark, style := "✓", theme.Correct
		if !q.IsCorrect {
			mark, style = "✗", theme.Incorrect
		}
		block := style.Render(fmt.Sprintf("%s %d. ", mark, i+1)) +
			lipgloss.NewStyle().Foreground(theme.Text).Width(cw-6).Render(q.QuestionText) + "\n" +
			theme.Hint.Render(fmt.Sprintf("   Your answer: %s   Correct answer: %s",
				scoring.FormatAnswer(q.StudentAnswer), scoring.FormatAnswer(q.CorrectAnswer))) + "\n\n"
		h := lipgloss.Height(block)
		if used > 0 && used+h > height {
			break
		}
		b.WriteString(block)
		used += h
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func labelColor(pct float64) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= 60:
		return theme.Secondary
	case pct >= 40:
		return theme.Accent
	default:
		return theme.Error
	}
}
