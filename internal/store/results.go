package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/numeracy/internal/scoring"
)

// ErrResultNotFound is returned when a test id does not exist.
var ErrResultNotFound = errors.New("test result not found")

type resultRow struct {
	ID               string  `db:"id"`
	StudentID        string  `db:"student_id"`
	TestType         string  `db:"test_type"`
	FocusTopic       string  `db:"focus_topic"`
	TakenAt          string  `db:"taken_at"`
	QuestionsTotal   int     `db:"questions_total"`
	QuestionsCorrect int     `db:"questions_correct"`
	Percentage       float64 `db:"percentage"`
	BandScore        int     `db:"band_score"`
	TimeSpent        int     `db:"time_spent"`
	Payload          string  `db:"payload"`
}

func (r resultRow) result() (scoring.TestResult, error) {
	var res scoring.TestResult
	if err := json.Unmarshal([]byte(r.Payload), &res); err != nil {
		return res, fmt.Errorf("decode result %s: %w", r.ID, err)
	}
	return res, nil
}

const resultColumns = `id, student_id, test_type, focus_topic, taken_at, questions_total,
	questions_correct, percentage, band_score, time_spent, payload`

// SaveTestResult stores a submitted result against a student.
func (s *Store) SaveTestResult(ctx context.Context, studentID string, res scoring.TestResult) error {
	if _, err := s.GetStudent(ctx, studentID); err != nil {
		return err
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	row := resultRow{
		ID:               res.TestID,
		StudentID:        studentID,
		TestType:         string(res.Type),
		FocusTopic:       res.FocusTopic,
		TakenAt:          formatTime(res.Date),
		QuestionsTotal:   res.QuestionsTotal,
		QuestionsCorrect: res.QuestionsCorrect,
		Percentage:       res.Percentage,
		BandScore:        res.BandScore,
		TimeSpent:        res.TimeSpent,
		Payload:          string(payload),
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO test_results (`+resultColumns+`)
		VALUES (:id, :student_id, :test_type, :focus_topic, :taken_at, :questions_total,
			:questions_correct, :percentage, :band_score, :time_spent, :payload)`, row)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	s.log.Info("test result saved",
		zap.String("student_id", studentID),
		zap.String("test_id", res.TestID),
		zap.Float64("percentage", res.Percentage))
	return nil
}

// StudentResults returns a student's results, oldest first.
func (s *Store) StudentResults(ctx context.Context, studentID string) ([]scoring.TestResult, error) {
	var rows []resultRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+resultColumns+` FROM test_results WHERE student_id = ? ORDER BY taken_at, id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return decodeResults(rows)
}

// GetResult returns one result and the id of the student who sat it.
func (s *Store) GetResult(ctx context.Context, testID string) (*scoring.TestResult, string, error) {
	var row resultRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+resultColumns+` FROM test_results WHERE id = ?`, testID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("result %s: %w", testID, ErrResultNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("get result: %w", err)
	}
	res, err := row.result()
	if err != nil {
		return nil, "", err
	}
	return &res, row.StudentID, nil
}

// allResults returns every stored result keyed by student id.
func (s *Store) allResults(ctx context.Context) (map[string][]scoring.TestResult, error) {
	var rows []resultRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+resultColumns+` FROM test_results ORDER BY taken_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make(map[string][]scoring.TestResult)
	for _, r := range rows {
		res, err := r.result()
		if err != nil {
			return nil, err
		}
		out[r.StudentID] = append(out[r.StudentID], res)
	}
	return out, nil
}

func decodeResults(rows []resultRow) ([]scoring.TestResult, error) {
	out := make([]scoring.TestResult, 0, len(rows))
	for _, r := range rows {
		res, err := r.result()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
