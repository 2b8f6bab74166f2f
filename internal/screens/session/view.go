package session

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/numeracy/internal/session"
	"github.com/abhisek/numeracy/internal/ui/components"
	"github.com/abhisek/numeracy/internal/ui/layout"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.state == nil:
		return renderLoading(width)
	case s.leaving:
		return renderLeaveConfirm(width)
	case s.state.Phase == sess.PhaseConfirmSubmit:
		return renderSubmitConfirm(width, len(s.state.Unanswered()))
	}
	return s.renderQuestionView(width, height)
}

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	st := s.state
	q := st.CurrentQuestion()
	if q == nil {
		return renderLoading(width)
	}
	cw := components.ContentWidth(width)
	progress := sess.BuildProgress(st, s.deps.now())

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d of %d  ·  %s", st.Current+1, len(st.Questions), q.Topic))
	calc := "No calculator"
	if st.CalculatorAvailable() {
		calc = "Calculator allowed"
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s  ·  %d/%d answered  ·  %s",
			calc, progress.Answered, progress.Total, s.renderTimer(progress)))

	infoLine := infoLeft
	if pad := cw - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight); pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	} else {
		infoLine += "\n" + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(theme.Divider.Render(strings.Repeat("─", cw)))
	b.WriteString("\n")

	if !layout.IsCompactHeight(height) {
		b.WriteString(components.QuestionGrid(st.Statuses(), st.Current, cw))
		b.WriteString("\n\n")
	}

	if st.Flagged[st.Current] {
		b.WriteString(theme.Flagged.Render("⚑ Flagged for review"))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text))
	b.WriteString("\n")

	if visual := renderVisual(q.Visual); visual != "" {
		b.WriteString("\n")
		b.WriteString(components.Card(visual, cw))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.isMultipleChoice() {
		b.WriteString(s.options.View())
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Select (1-4 or A-D) or use arrows + Enter"))
	} else {
		b.WriteString("Answer: " + s.input.View())
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *SessionScreen) renderTimer(p sess.Progress) string {
	clock := layout.FormatClock(int(p.Remaining.Seconds()))
	switch {
	case p.Remaining.Minutes() < 1:
		return theme.TimerCritical.Render(clock)
	case p.Remaining.Minutes() < 5:
		return theme.TimerLow.Render(clock)
	default:
		return theme.TimerCalm.Render(clock)
	}
}

// renderVisual lists the fields of a question's visual aid.
func renderVisual(visual map[string]any) string {
	if len(visual) == 0 {
		return ""
	}
	keys := make([]string, 0, len(visual))
	for k := range visual {
		if k != "type" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var lines []string
	if kind, ok := visual["type"].(string); ok && kind != "" {
		lines = append(lines, theme.Subtitle.Render(kind))
	}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, visual[k]))
	}
	return strings.Join(lines, "\n")
}

// renderSubmitConfirm asks before submitting with questions unanswered.
func renderSubmitConfirm(width, unanswered int) string {
	noun := "questions"
	if unanswered == 1 {
		noun = "question"
	}
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered(theme.Title, "Submit your test?", width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint, fmt.Sprintf("You have %d unanswered %s.", unanswered, noun), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, submit now", width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep working", width))
	return b.String()
}

// renderLeaveConfirm renders the leave confirmation dialog.
func renderLeaveConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered(theme.Title, "Leave this test?", width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint, "Your answers are saved and the clock keeps running.", width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, resume later", width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going", width))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return layout.Centered(theme.Hint, "\n\n\nPreparing your test...", width)
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return layout.Centered(theme.ErrorText, fmt.Sprintf("\n\n\nError: %s\n\nPress any key to go back.", errMsg), width)
}
