package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/numeracy/internal/questiongen"
)

// TopicScore counts correct answers within one topic.
type TopicScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percentage returns the topic accuracy in the range 0-100.
func (s TopicScore) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// AnsweredQuestion is a question as it appears in a stored result.
type AnsweredQuestion struct {
	TemplateID    string   `json:"templateId"`
	QuestionText  string   `json:"questionText"`
	StudentAnswer string   `json:"studentAnswer"`
	CorrectAnswer string   `json:"correctAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Topic         string   `json:"topic"`
	Options       []string `json:"options,omitempty"`
}

// TestResult is the outcome of one submitted test.
type TestResult struct {
	TestID           string                `json:"testId"`
	Type             TestType              `json:"type"`
	FocusTopic       string                `json:"focusTopic,omitempty"`
	Date             time.Time             `json:"date"`
	QuestionsTotal   int                   `json:"questionsTotal"`
	QuestionsCorrect int                   `json:"questionsCorrect"`
	Percentage       float64               `json:"percentage"`
	BandScore        int                   `json:"bandScore,omitempty"`
	TimeSpent        int                   `json:"timeSpent"` // seconds
	TopicBreakdown   map[string]TopicScore `json:"topicBreakdown"`
	Questions        []AnsweredQuestion    `json:"questions"`
}

// Label returns the performance label for the result's percentage.
func (r *TestResult) Label() string {
	return PerformanceLabel(r.Percentage)
}

// Topics returns the topic names of the breakdown in alphabetical order.
func (r *TestResult) Topics() []string {
	topics := make([]string, 0, len(r.TopicBreakdown))
	for t := range r.TopicBreakdown {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Meta carries the details of a sitting that the questions don't hold.
type Meta struct {
	Type       TestType
	FocusTopic string
	Year       int
	Started    time.Time
	Finished   time.Time
}

// Score marks every question against the matching entry in answers and
// builds the result. Missing answers count as wrong. The band score is
// left at zero when the year has no band table.
func Score(questions []questiongen.Question, answers []string, meta Meta) TestResult {
	res := TestResult{
		TestID:         uuid.NewString(),
		Type:           meta.Type,
		Date:           meta.Finished,
		QuestionsTotal: len(questions),
		TopicBreakdown: make(map[string]TopicScore),
		Questions:      make([]AnsweredQuestion, 0, len(questions)),
	}
	if res.Type == "" {
		res.Type = TestFull
	}
	if res.Type == TestFocus {
		res.FocusTopic = meta.FocusTopic
	}
	if !meta.Started.IsZero() && meta.Finished.After(meta.Started) {
		res.TimeSpent = int(meta.Finished.Sub(meta.Started) / time.Second)
	}

	for i, q := range questions {
		var answer string
		if i < len(answers) {
			answer = answers[i]
		}
		correct := CheckAnswer(answer, q.CorrectAnswer, q.AnswerType)
		if correct {
			res.QuestionsCorrect++
		}

		ts := res.TopicBreakdown[q.Topic]
		ts.Total++
		if correct {
			ts.Correct++
		}
		res.TopicBreakdown[q.Topic] = ts

		res.Questions = append(res.Questions, AnsweredQuestion{
			TemplateID:    q.TemplateID,
			QuestionText:  q.Text,
			StudentAnswer: answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Topic:         q.Topic,
			Options:       q.Options,
		})
	}

	if len(questions) > 0 {
		pct := float64(res.QuestionsCorrect) / float64(len(questions)) * 100
		res.Percentage = math.Round(pct*10) / 10
		if band, ok := BandScore(pct, meta.Year); ok {
			res.BandScore = band
		}
	}
	return res
}
