package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrStudentNotFound is returned when a student id does not exist.
	ErrStudentNotFound = errors.New("student not found")

	// ErrIDExhausted is returned when no unused student id could be drawn.
	ErrIDExhausted = errors.New("could not allocate a unique student id")
)

const (
	StatusActive = "active"

	studentCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	studentCodeLength = 4
	maxIDAttempts     = 20
)

// Student is a registered test taker.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	YearLevel int       `json:"yearLevel"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type studentRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	YearLevel int    `db:"year_level"`
	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
}

func (r studentRow) student() Student {
	return Student{
		ID:        r.ID,
		Name:      r.Name,
		YearLevel: r.YearLevel,
		Status:    r.Status,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

// StudentID formats a student id for a year level and code.
func StudentID(year int, code string) string {
	return fmt.Sprintf("STU-Y%d-%s", year, code)
}

func randomCode() string {
	var b strings.Builder
	for range studentCodeLength {
		b.WriteByte(studentCodeChars[rand.IntN(len(studentCodeChars))])
	}
	return b.String()
}

// CreateStudent registers a student with a fresh STU-Y<year>-XXXX id.
func (s *Store) CreateStudent(ctx context.Context, name string, year int) (*Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("create student: name is required")
	}

	for range maxIDAttempts {
		id := StudentID(year, s.newCode())
		var n int
		if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM students WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("check student id: %w", err)
		}
		if n > 0 {
			continue
		}

		row := studentRow{
			ID:        id,
			Name:      name,
			YearLevel: year,
			Status:    StatusActive,
			CreatedAt: formatTime(s.now()),
		}
		_, err := s.db.NamedExecContext(ctx,
			`INSERT INTO students (id, name, year_level, status, created_at)
			 VALUES (:id, :name, :year_level, :status, :created_at)`, row)
		if err != nil {
			return nil, fmt.Errorf("insert student: %w", err)
		}
		s.log.Info("student created", zap.String("student_id", id), zap.Int("year", year))
		st := row.student()
		return &st, nil
	}
	return nil, ErrIDExhausted
}

// GetStudent returns the student with the given id.
func (s *Store) GetStudent(ctx context.Context, id string) (*Student, error) {
	var row studentRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, year_level, status, created_at FROM students WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %s: %w", id, ErrStudentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	st := row.student()
	return &st, nil
}

// ListStudents returns every student, oldest first.
func (s *Store) ListStudents(ctx context.Context) ([]Student, error) {
	var rows []studentRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, year_level, status, created_at FROM students ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	students := make([]Student, len(rows))
	for i, r := range rows {
		students[i] = r.student()
	}
	return students, nil
}

// DeleteStudent removes a student and, by cascade, their results.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("student %s: %w", id, ErrStudentNotFound)
	}
	s.log.Info("student deleted", zap.String("student_id", id))
	return nil
}

// ClearStudentProgress deletes every result of a student, keeping the student.
func (s *Store) ClearStudentProgress(ctx context.Context, id string) error {
	if _, err := s.GetStudent(ctx, id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM test_results WHERE student_id = ?`, id); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	s.log.Info("student progress cleared", zap.String("student_id", id))
	return nil
}
