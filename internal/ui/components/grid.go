package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numeracy/internal/session"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

// QuestionGrid renders the question numbers of a sitting coloured by
// status, with the current question bracketed.
func QuestionGrid(statuses []session.Status, current, width int) string {
	const cell = 5 // "[12] "
	perRow := max(width/cell, 1)

	var b strings.Builder
	for i, st := range statuses {
		var style lipgloss.Style
		switch st {
		case session.StatusFlagged:
			style = theme.Flagged
		case session.StatusAnswered:
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		default:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		if i == current {
			// Only the number is underlined; the brackets stay plain bold.
			bracket := style.Bold(true)
			b.WriteString(bracket.Render("["))
			b.WriteString(style.Bold(true).Underline(true).Render(fmt.Sprintf("%2d", i+1)))
			b.WriteString(bracket.Render("]"))
		} else {
			b.WriteString(style.Render(fmt.Sprintf(" %2d ", i+1)))
		}
		if (i+1)%perRow == 0 && i < len(statuses)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// Card wraps content in a rounded-border box of the given outer width.
func Card(content string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Padding(0, 2).
		Render(content)
}

// ContentWidth clamps the frame width to a readable column.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}
