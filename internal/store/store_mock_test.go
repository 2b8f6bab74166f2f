package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockStore returns a Store over sqlmock for exercising error paths.
func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return New(sqlx.NewDb(mockDB, "sqlmock")), mock
}

var studentCols = []string{"id", "name", "year_level", "status", "created_at"}

func TestGetStudent_QueryError(t *testing.T) {
	s, mock := setupMockStore(t)
	boom := errors.New("disk I/O error")

	mock.ExpectQuery(`SELECT (.+) FROM students WHERE id`).
		WithArgs("STU-Y3-AAAA").
		WillReturnError(boom)

	_, err := s.GetStudent(context.Background(), "STU-Y3-AAAA")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStudent_NoRows(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM students WHERE id`).
		WithArgs("STU-Y3-AAAA").
		WillReturnRows(sqlmock.NewRows(studentCols))

	_, err := s.GetStudent(context.Background(), "STU-Y3-AAAA")
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudent_CountError(t *testing.T) {
	s, mock := setupMockStore(t)
	s.newCode = codes("AAAA")

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students`).
		WithArgs("STU-Y3-AAAA").
		WillReturnError(errors.New("locked"))

	_, err := s.CreateStudent(context.Background(), "Ava", 3)
	assert.ErrorContains(t, err, "check student id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudent_NoRowsAffected(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectExec(`DELETE FROM students WHERE id`).
		WithArgs("STU-Y3-AAAA").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteStudent(context.Background(), "STU-Y3-AAAA")
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentResults_CorruptPayload(t *testing.T) {
	s, mock := setupMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "student_id", "test_type", "focus_topic", "taken_at", "questions_total",
		"questions_correct", "percentage", "band_score", "time_spent", "payload",
	}).AddRow("t1", "STU-Y3-AAAA", "full", "", "2026-05-12T09:30:00Z", 2, 1, 50.0, 3, 60, "{not json")
	mock.ExpectQuery(`SELECT (.+) FROM test_results WHERE student_id`).
		WithArgs("STU-Y3-AAAA").
		WillReturnRows(rows)

	_, err := s.StudentResults(context.Background(), "STU-Y3-AAAA")
	assert.ErrorContains(t, err, "decode result t1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettings_QueryError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(`SELECT value FROM settings WHERE key`).
		WithArgs(keyAdminPassword).
		WillReturnError(errors.New("closed"))

	_, err := s.HasAdminPassword(context.Background())
	assert.ErrorContains(t, err, "get setting admin_password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveTest_Missing(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(`SELECT value FROM settings WHERE key`).
		WithArgs(keyActiveTest).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	st, err := s.ActiveTest(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, st)
	assert.NoError(t, mock.ExpectationsWereMet())
}
