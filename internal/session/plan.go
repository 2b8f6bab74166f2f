package session

import (
	"time"

	"github.com/abhisek/numeracy/internal/scoring"
)

// Plan describes the test a student is about to sit.
type Plan struct {
	Type  scoring.TestType `json:"testType"`
	Year  int              `json:"year"`
	Topic string           `json:"testTopic,omitempty"`

	// QuestionCount and TimeLimit come from the year's test configuration,
	// or the focus defaults for a focus test.
	QuestionCount int           `json:"questionCount"`
	TimeLimit     time.Duration `json:"timeLimit"`

	// CalculatorFrom is the 1-based question number from which a
	// calculator may be used. Zero means never.
	CalculatorFrom int `json:"calculatorFrom,omitempty"`
}

// Config returns the plan as a scoring test configuration.
func (p *Plan) Config() scoring.TestConfig {
	return scoring.TestConfig{
		Year:           p.Year,
		QuestionCount:  p.QuestionCount,
		TimeLimit:      p.TimeLimit,
		CalculatorFrom: p.CalculatorFrom,
	}
}

// FullPlan returns the plan for a full practice test in a year level.
func FullPlan(year int) (*Plan, error) {
	cfg, err := scoring.ConfigFor(year)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Type:           scoring.TestFull,
		Year:           year,
		QuestionCount:  cfg.QuestionCount,
		TimeLimit:      cfg.TimeLimit,
		CalculatorFrom: cfg.CalculatorFrom,
	}, nil
}

// FocusPlan returns the plan for a single-topic test in a year level.
func FocusPlan(year int, topic string) (*Plan, error) {
	if _, err := scoring.ConfigFor(year); err != nil {
		return nil, err
	}
	cfg := scoring.FocusConfig(year)
	return &Plan{
		Type:          scoring.TestFocus,
		Year:          year,
		Topic:         topic,
		QuestionCount: cfg.QuestionCount,
		TimeLimit:     cfg.TimeLimit,
	}, nil
}
