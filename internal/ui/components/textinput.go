package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numeracy/internal/scoring"
)

// answerChars are the characters a numeric answer may contain: digits,
// decimal points, fractions, signs, currency and thousands separators.
const answerChars = "0123456789./-$,: "

// AnswerInput wraps bubbles/textinput for numeric answers.
type AnswerInput struct {
	Model textinput.Model
}

// NewAnswerInput creates a focused input holding value.
func NewAnswerInput(value string) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = "Type your answer..."
	ti.CharLimit = 20
	ti.SetValue(value)
	ti.Focus()
	return AnswerInput{Model: ti}
}

// Init returns the initial command.
func (t AnswerInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages to the input, dropping printable keys that
// cannot appear in an answer.
func (t AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if text := kmsg.Text; text != "" && strings.Trim(text, answerChars) != "" {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t AnswerInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed input.
func (t AnswerInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Valid reports whether the input is empty or a number, fraction or time.
func (t AnswerInput) Valid() bool {
	v := t.Value()
	return v == "" || scoring.ValidNumericInput(v) || isClock(v)
}

func isClock(v string) bool {
	h, m, ok := strings.Cut(v, ":")
	return ok && h != "" && len(m) == 2 && scoring.ValidNumericInput(h) && scoring.ValidNumericInput(m)
}
