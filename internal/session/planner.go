package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/scoring"
)

// ErrNoQuestions is returned when a plan matches no templates.
var ErrNoQuestions = errors.New("no questions available")

// TemplateSource supplies the templates for a year level.
type TemplateSource interface {
	Year(year int) ([]*questiongen.Template, error)
}

// QuestionGenerator assembles tests from templates.
type QuestionGenerator interface {
	GenerateTest(templates []*questiongen.Template, count int) []questiongen.Question
	GenerateFocusTest(templates []*questiongen.Template, topic string, count int) []questiongen.Question
}

// Planner turns a plan into the questions of a sitting.
type Planner struct {
	Source    TemplateSource
	Generator QuestionGenerator
}

// NewPlanner creates a Planner.
func NewPlanner(src TemplateSource, gen QuestionGenerator) *Planner {
	return &Planner{Source: src, Generator: gen}
}

// Questions generates the questions for a plan.
func (p *Planner) Questions(plan *Plan) ([]questiongen.Question, error) {
	templates, err := p.Source.Year(plan.Year)
	if err != nil {
		return nil, fmt.Errorf("load year %d templates: %w", plan.Year, err)
	}

	var qs []questiongen.Question
	switch plan.Type {
	case scoring.TestFocus:
		qs = p.Generator.GenerateFocusTest(templates, plan.Topic, plan.QuestionCount)
	default:
		qs = p.Generator.GenerateTest(templates, plan.QuestionCount)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("year %d %s test: %w", plan.Year, plan.Type, ErrNoQuestions)
	}
	return qs, nil
}

// Start generates the questions for a plan and opens a sitting for the student.
func (p *Planner) Start(studentID string, plan *Plan, opts ...Option) (*State, error) {
	qs, err := p.Questions(plan)
	if err != nil {
		return nil, err
	}
	return NewState(studentID, plan, qs, opts...), nil
}
