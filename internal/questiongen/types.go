package questiongen

// Question is a fully instantiated, validated question ready for a test.
// Once assembled into a test it is treated as immutable.
type Question struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId"`

	// Text has every placeholder substituted.
	Text string `json:"questionText"`

	// CorrectAnswer is canonicalised: whole numbers without decimals,
	// fractional numbers to 2 places, strings verbatim. Never empty.
	CorrectAnswer string `json:"correctAnswer"`

	// Options holds the correct answer plus exactly 3 distractors in
	// shuffled order. Nil for numeric questions.
	Options []string `json:"options"`

	AnswerType AnswerType     `json:"answerType"`
	Topic      string         `json:"topic"`
	Difficulty string         `json:"difficulty"`
	Visual     map[string]any `json:"visual"`
}

// AnswerType describes how the student answers.
type AnswerType string

const (
	AnswerNumeric        AnswerType = "numeric"
	AnswerMultipleChoice AnswerType = "multipleChoice"
)

// Generation bounds and defaults.
const (
	// MaxConstraintAttempts bounds redraws for a constrained integer
	// parameter. On exhaustion the last draw is kept.
	MaxConstraintAttempts = 50

	// MaxPerturbationAttempts bounds random draws from the numeric
	// perturbation bank when filling distractors.
	MaxPerturbationAttempts = 20

	// MaxHelperAttempts bounds the rejection loops inside random
	// distractor helpers.
	MaxHelperAttempts = 200

	// DistractorCount is the number of wrong options per question.
	DistractorCount = 3

	// AnswerPrecision is the number of decimal places numeric results
	// are rounded to after evaluation.
	AnswerPrecision = 3

	// DefaultFocusCount is the focus test length when none is given.
	DefaultFocusCount = 10

	DefaultDifficulty = "medium"
)

// FaultKind classifies a recovered generation fault.
type FaultKind string

const (
	FaultParameter    FaultKind = "parameter"
	FaultExpression   FaultKind = "expression"
	FaultAnswer       FaultKind = "answer"
	FaultDistractor   FaultKind = "distractor"
	FaultTemplate     FaultKind = "template"
	FaultCatastrophic FaultKind = "catastrophic"
)

// Recorder receives generation events. internal/metrics implements it.
type Recorder interface {
	QuestionGenerated(topic string)
	Fault(kind FaultKind)
	TestAssembled(kind string)
}

type nopRecorder struct{}

func (nopRecorder) QuestionGenerated(string) {}
func (nopRecorder) Fault(FaultKind)          {}
func (nopRecorder) TestAssembled(string)     {}
