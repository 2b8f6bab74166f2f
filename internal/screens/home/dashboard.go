package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

// stats are the figures on the home dashboard.
type stats struct {
	tests   int
	average float64
	best    float64
	weakest []scoring.TopicStat
}

func computeStats(results []scoring.TestResult) stats {
	st := stats{tests: len(results)}
	var sum float64
	for _, r := range results {
		sum += r.Percentage
		st.best = max(st.best, r.Percentage)
	}
	if st.tests > 0 {
		st.average = sum / float64(st.tests)
	}
	st.weakest = scoring.WeakTopics(results)
	return st
}

// renderGreeting renders the student's name and year.
func renderGreeting(name string, year, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render("Hi, "+name+"!") + "\n" +
			theme.Hint.Render(fmt.Sprintf("Year %d practice", year)))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st stats, cw int, compact bool) string {
	testsStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	avgStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	weakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var line string
	switch {
	case st.tests == 0:
		line = dimStyle.Render("No tests yet. Try a full practice test!")
	case compact:
		line = fmt.Sprintf("%s %s %s",
			testsStyle.Render(fmt.Sprintf("%d tests", st.tests)),
			avgStyle.Render(fmt.Sprintf("avg %.0f%%", st.average)),
			weakText(len(st.weakest), weakStyle, dimStyle))
	default:
		line = fmt.Sprintf("%s   %s   %s",
			testsStyle.Render(fmt.Sprintf("%d TESTS", st.tests)),
			avgStyle.Render(fmt.Sprintf("AVG %.0f%%  BEST %.0f%%", st.average, st.best)),
			weakText(len(st.weakest), weakStyle, dimStyle))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

func weakText(n int, active, dim lipgloss.Style) string {
	if n == 0 {
		return dim.Render("no weak topics")
	}
	if n == 1 {
		return active.Render("1 weak topic")
	}
	return active.Render(fmt.Sprintf("%d weak topics", n))
}

// renderFrame wraps content in a rounded frame centred in the given area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
