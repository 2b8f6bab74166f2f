package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/numeracy/internal/ui/theme"
)

// OptionLabels letters the options of a multiple-choice question.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F"}

// Options is a multiple-choice selector. Cursor is the highlighted row and
// Chosen the recorded answer, or -1.
type Options struct {
	Items  []string
	Cursor int
	Chosen int
}

// NewOptions creates a selector with the cursor on the recorded answer,
// if it is one of the items.
func NewOptions(items []string, answer string) Options {
	o := Options{Items: items, Chosen: -1}
	for i, it := range items {
		if it == answer && answer != "" {
			o.Chosen = i
			o.Cursor = i
		}
	}
	return o
}

// Up moves the cursor up.
func (o *Options) Up() {
	if o.Cursor > 0 {
		o.Cursor--
	}
}

// Down moves the cursor down.
func (o *Options) Down() {
	if o.Cursor < len(o.Items)-1 {
		o.Cursor++
	}
}

// Choose records the option at i and returns its text.
func (o *Options) Choose(i int) (string, bool) {
	if i < 0 || i >= len(o.Items) {
		return "", false
	}
	o.Cursor = i
	o.Chosen = i
	return o.Items[i], true
}

// IndexForKey maps "1".."4" or "a".."d" to an option index.
func (o Options) IndexForKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var i int
	switch {
	case c >= '1' && c <= '9':
		i = int(c - '1')
	case c >= 'a' && c <= 'z':
		i = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		i = int(c - 'A')
	default:
		return 0, false
	}
	return i, i < len(o.Items)
}

// View renders the options.
func (o Options) View() string {
	var b strings.Builder
	for i, opt := range o.Items {
		label := fmt.Sprint(i + 1)
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "( )"
		if i == o.Chosen {
			mark = "(●)"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, label, opt)

		style := theme.Unselected
		switch {
		case i == o.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		case i == o.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
