package questiongen

import (
	"slices"
	"strings"
	"testing"
	"time"
)

type countingRecorder struct {
	generated int
	faults    map[FaultKind]int
	tests     map[string]int
}

func (r *countingRecorder) QuestionGenerated(string) { r.generated++ }

func (r *countingRecorder) Fault(kind FaultKind) {
	if r.faults == nil {
		r.faults = map[FaultKind]int{}
	}
	r.faults[kind]++
}

func (r *countingRecorder) TestAssembled(kind string) {
	if r.tests == nil {
		r.tests = map[string]int{}
	}
	r.tests[kind]++
}

func additionTemplate(id, topic string) *Template {
	return &Template{
		ID:    id,
		Topic: topic,
		Params: ParamSpecs{
			intSpec("A", 1, 20, ""),
			intSpec("B", 1, 20, ""),
		},
		Text:          "What is {A} + {B}?",
		CorrectAnswer: Expr("{A} + {B}"),
		AnswerType:    AnswerMultipleChoice,
		Distractors:   []Expression{Expr("{A} + {B} + 1"), Expr("{A} - {B}")},
	}
}

func testTemplates() []*Template {
	return []*Template{
		additionTemplate("add-1", "Addition"),
		additionTemplate("frac-1", "Fractions - Halves"),
		additionTemplate("frac-2", "Equivalent fractions"),
		additionTemplate("time-1", "Time"),
		additionTemplate("mult-1", "Multiplication"),
	}
}

func TestGenerate_StringChoiceOptionsAdd(t *testing.T) {
	g := New(Config{Seed: 5})
	tmpl := &Template{
		ID:    "choice-add",
		Topic: "Addition",
		Params: ParamSpecs{
			{Name: "A", Type: ParamChoice, Options: []Value{String("3"), String("4")}},
			intSpec("B", 1, 1, ""),
		},
		Text:          "What is {A} + {B}?",
		CorrectAnswer: Expr("{A} + {B}"),
		AnswerType:    AnswerNumeric,
	}
	for range 50 {
		q := g.Generate(tmpl)
		want := "4"
		if strings.Contains(q.Text, "4 + 1") {
			want = "5"
		}
		if q.CorrectAnswer != want {
			t.Fatalf("%q answered %q, want %q", q.Text, q.CorrectAnswer, want)
		}
	}
}

func TestGenerate_MultipleChoice(t *testing.T) {
	g := New(Config{Seed: 30})
	q := g.Generate(additionTemplate("add-1", "Addition"))

	if q.TemplateID != "add-1" || !strings.HasPrefix(q.ID, "add-1-") {
		t.Errorf("unexpected ids: %q / %q", q.TemplateID, q.ID)
	}
	if strings.Contains(q.Text, "{") {
		t.Errorf("text not rendered: %q", q.Text)
	}
	if q.Difficulty != DefaultDifficulty {
		t.Errorf("difficulty = %q, want %q", q.Difficulty, DefaultDifficulty)
	}
	if len(q.Options) != 4 || !slices.Contains(q.Options, q.CorrectAnswer) {
		t.Errorf("options %v must hold correct answer %q", q.Options, q.CorrectAnswer)
	}
}

func TestGenerate_NumericHasNoOptions(t *testing.T) {
	g := New(Config{Seed: 31})
	tmpl := additionTemplate("add-1", "Addition")
	tmpl.AnswerType = ""
	q := g.Generate(tmpl)
	if q.AnswerType != AnswerNumeric {
		t.Errorf("answer type = %q, want numeric", q.AnswerType)
	}
	if q.Options != nil {
		t.Errorf("options = %v, want nil", q.Options)
	}
}

func TestGenerate_UndefinedParameterInAnswer(t *testing.T) {
	g := New(Config{Seed: 32})
	tmpl := additionTemplate("broken", "Addition")
	tmpl.CorrectAnswer = Expr("{A} + {C}")

	q := g.Generate(tmpl)
	if q.CorrectAnswer != "0" {
		t.Errorf("correct answer = %q, want 0", q.CorrectAnswer)
	}
	if len(q.Options) != 4 || !slices.Contains(q.Options, "0") {
		t.Errorf("options = %v, want a full set holding 0", q.Options)
	}
}

func TestGenerate_LeftoverPlaceholderIsMarked(t *testing.T) {
	rec := &countingRecorder{}
	g := New(Config{Seed: 33, Recorder: rec})
	tmpl := additionTemplate("typo", "Addition")
	tmpl.Text = "What is {A} + {BB}?"

	q := g.Generate(tmpl)
	if !strings.HasPrefix(q.Text, "[Error in template typo] ") {
		t.Errorf("text = %q, want error marker", q.Text)
	}
	if q.CorrectAnswer != "0" {
		t.Errorf("correct answer = %q, want 0", q.CorrectAnswer)
	}
	if len(q.Options) != 4 || !slices.Contains(q.Options, "0") {
		t.Errorf("options = %v, want rebuilt around 0", q.Options)
	}
	if rec.faults[FaultTemplate] == 0 {
		t.Error("expected a template fault")
	}
}

func TestGenerate_NilTemplate(t *testing.T) {
	rec := &countingRecorder{}
	g := New(Config{Seed: 34, Recorder: rec})
	q := g.Generate(nil)
	if !strings.HasPrefix(q.ID, "error-") || q.CorrectAnswer != "0" {
		t.Errorf("unexpected error question: %+v", q)
	}
	if rec.faults[FaultCatastrophic] != 1 {
		t.Errorf("catastrophic faults = %d, want 1", rec.faults[FaultCatastrophic])
	}
}

func TestGenerate_Visual(t *testing.T) {
	g := New(Config{Seed: 35})
	tmpl := &Template{
		ID:            "nl-1",
		Topic:         "Number line",
		Params:        ParamSpecs{intSpec("A", 3, 3, "")},
		Text:          "Where is {A}?",
		CorrectAnswer: Expr("{A}"),
		AnswerType:    AnswerNumeric,
		Visual: map[string]any{
			"type":  "numberLine",
			"value": "{A}",
			"label": "Jump {A}",
			"marks": []any{"{A}", 1.0},
			"range": map[string]any{"max": "{A}"},
		},
	}
	q := g.Generate(tmpl)
	if q.Visual["value"] != 3.0 {
		t.Errorf("value = %#v, want 3", q.Visual["value"])
	}
	if q.Visual["label"] != "Jump 3" {
		t.Errorf("label = %#v", q.Visual["label"])
	}
	if marks := q.Visual["marks"].([]any); marks[0] != 3.0 || marks[1] != 1.0 {
		t.Errorf("marks = %#v", marks)
	}
	if r := q.Visual["range"].(map[string]any); r["max"] != 3.0 {
		t.Errorf("range = %#v", r)
	}
	if tmpl.Visual["value"] != "{A}" {
		t.Error("template visual was mutated")
	}
}

func TestGenerateTest_Counts(t *testing.T) {
	g := New(Config{Seed: 40})
	templates := testTemplates()

	for _, count := range []int{1, 3, 5, 12} {
		qs := g.GenerateTest(templates, count)
		if len(qs) != count {
			t.Fatalf("GenerateTest(%d) returned %d questions", count, len(qs))
		}
		if count <= len(templates) {
			seen := map[string]bool{}
			for _, q := range qs {
				if seen[q.TemplateID] {
					t.Fatalf("template %s repeated before pool exhausted", q.TemplateID)
				}
				seen[q.TemplateID] = true
			}
		}
	}
}

func TestGenerateTest_EmptyPool(t *testing.T) {
	g := New(Config{Seed: 41})
	if qs := g.GenerateTest(nil, 5); len(qs) != 0 {
		t.Errorf("expected no questions, got %d", len(qs))
	}
	if qs := g.GenerateTest(testTemplates(), 0); len(qs) != 0 {
		t.Errorf("expected no questions for count 0, got %d", len(qs))
	}
}

func TestGenerateTest_FallbackForFailedTemplate(t *testing.T) {
	rec := &countingRecorder{}
	g := New(Config{Seed: 42, Recorder: rec})
	qs := g.GenerateTest([]*Template{nil}, 2)
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	for _, q := range qs {
		if !strings.HasPrefix(q.ID, "fallback-") {
			t.Errorf("id = %q, want fallback prefix", q.ID)
		}
		if q.Text != "Sample question: What is 2 + 2?" || q.CorrectAnswer != "4" {
			t.Errorf("unexpected fallback question: %+v", q)
		}
		if !slices.Equal(q.Options, []string{"3", "4", "5", "6"}) {
			t.Errorf("fallback options = %v", q.Options)
		}
		if q.TemplateID != "unknown" || q.Topic != "Unknown" {
			t.Errorf("fallback ids = %q / %q", q.TemplateID, q.Topic)
		}
	}
	if rec.tests["full"] != 1 {
		t.Errorf("full tests recorded = %d, want 1", rec.tests["full"])
	}
}

func TestGenerateFocusTest(t *testing.T) {
	rec := &countingRecorder{}
	g := New(Config{Seed: 43, Recorder: rec})
	templates := testTemplates()

	qs := g.GenerateFocusTest(templates, "FRACTIONS", 10)
	if len(qs) != 10 {
		t.Fatalf("got %d questions, want 10", len(qs))
	}
	for _, q := range qs {
		if !strings.Contains(strings.ToLower(q.Topic), "fractions") {
			t.Errorf("question from topic %q", q.Topic)
		}
	}

	if qs := g.GenerateFocusTest(templates, "fract", 0); len(qs) != DefaultFocusCount {
		t.Errorf("default count gave %d questions", len(qs))
	}

	none := g.GenerateFocusTest(templates, "geometry", 10)
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
	if rec.tests["focus"] != 2 {
		t.Errorf("focus tests recorded = %d, want 2", rec.tests["focus"])
	}
	if rec.generated != 20 {
		t.Errorf("questions recorded = %d, want 20", rec.generated)
	}
}

func TestGenerator_SeedIsReproducible(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	a := New(Config{Seed: 99, Now: now}).GenerateTest(testTemplates(), 8)
	b := New(Config{Seed: 99, Now: now}).GenerateTest(testTemplates(), 8)

	for i := range a {
		if a[i].ID != b[i].ID || a[i].Text != b[i].Text || !slices.Equal(a[i].Options, b[i].Options) {
			t.Fatalf("question %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerator_UniqueIDs(t *testing.T) {
	g := New(Config{Seed: 100})
	seen := map[string]bool{}
	for _, q := range g.GenerateTest(testTemplates(), 50) {
		if seen[q.ID] {
			t.Fatalf("duplicate id %q", q.ID)
		}
		seen[q.ID] = true
	}
}
