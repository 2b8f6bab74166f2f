package questiongen

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator checks an assembled question for content defects.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g.
	// "placeholder" or "answer".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *Question, t *Template) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard validator chain.
func DefaultValidators() []Validator {
	return []Validator{
		&PlaceholderValidator{},
		&NullLiteralValidator{},
		&AnswerValidator{},
		&OptionsValidator{},
	}
}

// ErrorMarker returns the prefix put in front of a defective question.
func ErrorMarker(templateID string) string {
	return "[Error in template " + templateID + "] "
}

// Validate runs the default chain over q. On any failure it returns a
// repaired copy whose text carries ErrorMarker and whose correct answer is
// "0", along with every failure found.
func Validate(q Question, t *Template) (Question, []*ValidationError) {
	return validateWith(DefaultValidators(), q, t)
}

func validateWith(validators []Validator, q Question, t *Template) (Question, []*ValidationError) {
	var errs []*ValidationError
	for _, v := range validators {
		if verr := v.Validate(&q, t); verr != nil {
			errs = append(errs, verr)
		}
	}
	if len(errs) == 0 {
		return q, nil
	}
	id := q.TemplateID
	if t != nil {
		id = t.ID
	}
	if !strings.HasPrefix(q.Text, ErrorMarker(id)) {
		q.Text = ErrorMarker(id) + q.Text
	}
	q.CorrectAnswer = "0"
	return q, errs
}

// placeholderPattern matches leftover {NAME} syntax.
var placeholderPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z_0-9]*\}`)

// PlaceholderValidator rejects text with unsubstituted placeholders.
type PlaceholderValidator struct{}

func (v *PlaceholderValidator) Name() string { return "placeholder" }

func (v *PlaceholderValidator) Validate(q *Question, _ *Template) *ValidationError {
	if found := placeholderPattern.FindAllString(q.Text, -1); len(found) > 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "unreplaced variables: " + strings.Join(found, ", "),
		}
	}
	return nil
}

var nullLiteralPattern = regexp.MustCompile(`\b(null|undefined|NaN)\b`)

// NullLiteralValidator rejects text that shows a missing value.
type NullLiteralValidator struct{}

func (v *NullLiteralValidator) Name() string { return "null-literal" }

func (v *NullLiteralValidator) Validate(q *Question, _ *Template) *ValidationError {
	if m := nullLiteralPattern.FindString(q.Text); m != "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question text contains %q", m),
		}
	}
	return nil
}

// AnswerValidator rejects empty or null-like correct answers.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(q *Question, _ *Template) *ValidationError {
	switch strings.TrimSpace(q.CorrectAnswer) {
	case "", "null", "undefined", "NaN":
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct answer is %q", q.CorrectAnswer),
		}
	}
	return nil
}

// OptionsValidator checks multiple-choice option sets: the correct answer
// plus DistractorCount distinct distractors.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question, _ *Template) *ValidationError {
	if q.AnswerType != AnswerMultipleChoice {
		return nil
	}
	if len(q.Options) != DistractorCount+1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", DistractorCount+1, len(q.Options)),
		}
	}
	seen := map[string]bool{}
	hasCorrect := false
	correctKey := OptionKey(q.CorrectAnswer)
	for _, opt := range q.Options {
		key := OptionKey(opt)
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate option %q", opt),
			}
		}
		seen[key] = true
		if key == correctKey {
			hasCorrect = true
		}
	}
	if !hasCorrect {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "options do not include the correct answer",
		}
	}
	return nil
}
