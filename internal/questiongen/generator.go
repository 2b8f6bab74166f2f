package questiongen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Config controls a Generator.
type Config struct {
	// Validators run on every assembled question. All of them run; any
	// failure marks the question as defective. Nil means
	// DefaultValidators.
	Validators []Validator

	// Tables supplies the lookup data. Nil means DefaultTables.
	Tables *Tables

	// Seed makes generation reproducible. Zero picks a random seed.
	Seed uint64

	Logger   *zap.Logger
	Recorder Recorder

	// Now stamps question ids. Nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{Validators: DefaultValidators()}
}

// Generator instantiates questions from templates. A Generator owns its
// random source and is not safe for concurrent use; give each goroutine
// its own.
type Generator struct {
	rng        *rand.Rand
	eval       *Evaluator
	tables     *Tables
	validators []Validator
	log        *zap.Logger
	rec        Recorder
	entropy    *ulid.MonotonicEntropy
	now        func() time.Time
}

// New creates a Generator from cfg.
func New(cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	tables := cfg.Tables
	if tables == nil {
		tables = DefaultTables()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var rec Recorder = nopRecorder{}
	if cfg.Recorder != nil {
		rec = cfg.Recorder
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	validators := cfg.Validators
	if validators == nil {
		validators = DefaultValidators()
	}

	rng := rand.New(rand.NewChaCha8(seedBytes(seed)))
	return &Generator{
		rng:        rng,
		eval:       NewEvaluator(tables, rng),
		tables:     tables,
		validators: validators,
		log:        log.Named("questiongen"),
		rec:        rec,
		entropy:    ulid.Monotonic(rand.NewChaCha8(seedBytes(seed+1)), 0),
		now:        now,
	}
}

func seedBytes(seed uint64) [32]byte {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:8], seed)
	return b
}

// Evaluator exposes the generator's expression evaluator.
func (g *Generator) Evaluator() *Evaluator { return g.eval }

func (g *Generator) env() *Env { return g.eval.env }

// Generate instantiates one question from t. It never panics: a fault
// that escapes every local recovery yields a marked placeholder question.
func (g *Generator) Generate(t *Template) Question {
	q, err := g.generate(t)
	if err != nil {
		id := "unknown"
		if t != nil {
			id = t.ID
		}
		g.fault(FaultCatastrophic, id, "question generation failed", zap.Error(err))
		return g.errorQuestion(t)
	}
	return q
}

var errNilTemplate = errors.New("nil template")

func (g *Generator) generate(t *Template) (q Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if t == nil {
		return Question{}, errNilTemplate
	}

	params := g.generateParameters(t.ID, t.Params)
	answer := g.ComputeCorrectAnswer(t, params)

	answerType := t.AnswerType
	if answerType == "" {
		answerType = AnswerNumeric
	}
	var options []string
	if answerType == AnswerMultipleChoice {
		options = g.optionsFor(t.ID, answer, t.Distractors, params)
	}

	q = Question{
		ID:            g.newID(t.ID),
		TemplateID:    t.ID,
		Text:          RenderText(t.Text, params),
		CorrectAnswer: answer,
		Options:       options,
		AnswerType:    answerType,
		Topic:         t.Topic,
		Difficulty:    difficultyOf(t),
		Visual:        RenderVisual(t.Visual, params),
	}

	q, errs := validateWith(g.validators, q, t)
	if len(errs) > 0 {
		for _, verr := range errs {
			g.fault(FaultTemplate, t.ID, "question failed validation",
				zap.String("validator", verr.Validator),
				zap.String("detail", verr.Message))
		}
		if q.AnswerType == AnswerMultipleChoice {
			q.Options = g.optionsFor(t.ID, q.CorrectAnswer, nil, params)
		}
	}
	g.rec.QuestionGenerated(q.Topic)
	return q, nil
}

func (g *Generator) optionsFor(templateID, answer string, specs []Expression, p Params) []string {
	options := append([]string{answer}, g.generateDistractors(templateID, answer, specs, p)...)
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

func difficultyOf(t *Template) string {
	if t.Difficulty == "" {
		return DefaultDifficulty
	}
	return t.Difficulty
}

func topicOf(t *Template) string {
	if t == nil || t.Topic == "" {
		return "Unknown"
	}
	return t.Topic
}

// errorQuestion stands in for a template whose generation failed outright.
func (g *Generator) errorQuestion(t *Template) Question {
	id := "unknown"
	if t != nil {
		id = t.ID
	}
	return Question{
		ID:            g.newID("error"),
		TemplateID:    id,
		Text:          ErrorMarker(id) + "This question could not be generated.",
		CorrectAnswer: "0",
		AnswerType:    AnswerNumeric,
		Topic:         topicOf(t),
		Difficulty:    DefaultDifficulty,
	}
}

// fallbackQuestion is the always-valid item used by test assembly when a
// template fails.
func (g *Generator) fallbackQuestion(t *Template) Question {
	id := "unknown"
	if t != nil && t.ID != "" {
		id = t.ID
	}
	return Question{
		ID:            g.newID("fallback"),
		TemplateID:    id,
		Text:          "Sample question: What is 2 + 2?",
		CorrectAnswer: "4",
		Options:       []string{"3", "4", "5", "6"},
		AnswerType:    AnswerMultipleChoice,
		Topic:         topicOf(t),
		Difficulty:    "easy",
	}
}

// GenerateTest builds a test of count questions. Templates are drawn
// without replacement until the pool is exhausted, then with replacement.
// An empty pool yields an empty test.
func (g *Generator) GenerateTest(templates []*Template, count int) []Question {
	return g.assemble(templates, count, "full")
}

// GenerateFocusTest builds a test from templates whose topic contains
// topic, ignoring case. A count of zero or less means DefaultFocusCount.
// No matching template yields an empty, non-nil slice.
func (g *Generator) GenerateFocusTest(templates []*Template, topic string, count int) []Question {
	if count <= 0 {
		count = DefaultFocusCount
	}
	needle := strings.ToLower(topic)
	var pool []*Template
	for _, t := range templates {
		if t != nil && strings.Contains(strings.ToLower(t.Topic), needle) {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		g.log.Warn("no templates found for topic", zap.String("topic", topic))
		return []Question{}
	}
	return g.assemble(pool, count, "focus")
}

func (g *Generator) assemble(templates []*Template, count int, kind string) []Question {
	if len(templates) == 0 || count <= 0 {
		return []Question{}
	}
	selected := make([]*Template, 0, count)
	for _, i := range g.rng.Perm(len(templates)) {
		if len(selected) == count {
			break
		}
		selected = append(selected, templates[i])
	}
	for len(selected) < count {
		selected = append(selected, templates[g.rng.IntN(len(templates))])
	}

	questions := make([]Question, 0, count)
	for _, t := range selected {
		q, err := g.generate(t)
		if err != nil {
			id := "unknown"
			if t != nil {
				id = t.ID
			}
			g.fault(FaultCatastrophic, id, "using fallback question", zap.Error(err))
			q = g.fallbackQuestion(t)
		}
		questions = append(questions, q)
	}
	g.rec.TestAssembled(kind)
	return questions
}

// newID returns prefix-<ULID>.
func (g *Generator) newID(prefix string) string {
	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		id = ulid.Make()
	}
	return prefix + "-" + id.String()
}

func (g *Generator) fault(kind FaultKind, templateID, msg string, fields ...zap.Field) {
	g.rec.Fault(kind)
	g.log.Warn(msg, append([]zap.Field{
		zap.String("template_id", templateID),
		zap.String("fault", string(kind)),
	}, fields...)...)
}
