package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/numeracy/internal/session"
)

const (
	keyAdminPassword  = "admin_password"
	keyCurrentSession = "current_session"
	keyActiveTest     = "active_test"
)

// ErrNoPassword is returned by CheckAdminPassword before a password is set.
var ErrNoPassword = errors.New("admin password not set")

// LoginSession records which student is signed in.
type LoginSession struct {
	StudentID string    `json:"studentId"`
	LoginTime time.Time `json:"loginTime"`
}

func (s *Store) getSetting(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.GetContext(ctx, &v, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) putSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

func (s *Store) deleteSetting(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// SetAdminPassword replaces the admin password. The value is only
// base64-encoded; it keeps casual eyes off the settings table.
func (s *Store) SetAdminPassword(ctx context.Context, password string) error {
	if password == "" {
		return errors.New("set admin password: password is required")
	}
	if err := s.putSetting(ctx, keyAdminPassword, base64.StdEncoding.EncodeToString([]byte(password))); err != nil {
		return err
	}
	s.log.Info("admin password updated")
	return nil
}

// HasAdminPassword reports whether an admin password has been set.
func (s *Store) HasAdminPassword(ctx context.Context) (bool, error) {
	_, ok, err := s.getSetting(ctx, keyAdminPassword)
	return ok, err
}

// CheckAdminPassword reports whether password matches the stored one.
func (s *Store) CheckAdminPassword(ctx context.Context, password string) (bool, error) {
	stored, ok, err := s.getSetting(ctx, keyAdminPassword)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNoPassword
	}
	return stored == base64.StdEncoding.EncodeToString([]byte(password)), nil
}

// Login records studentID as the signed-in student.
func (s *Store) Login(ctx context.Context, studentID string) (*LoginSession, error) {
	if _, err := s.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	ls := &LoginSession{StudentID: studentID, LoginTime: s.now().UTC()}
	data, err := json.Marshal(ls)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.putSetting(ctx, keyCurrentSession, string(data)); err != nil {
		return nil, err
	}
	s.log.Info("student logged in", zap.String("student_id", studentID))
	return ls, nil
}

// CurrentSession returns the signed-in student, or nil when nobody is.
func (s *Store) CurrentSession(ctx context.Context) (*LoginSession, error) {
	v, ok, err := s.getSetting(ctx, keyCurrentSession)
	if err != nil || !ok {
		return nil, err
	}
	var ls LoginSession
	if err := json.Unmarshal([]byte(v), &ls); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &ls, nil
}

// Logout clears the current session and any unfinished test.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.deleteSetting(ctx, keyCurrentSession); err != nil {
		return err
	}
	return s.ClearActiveTest(ctx)
}

// SaveActiveTest stores an unfinished sitting so it can be resumed.
func (s *Store) SaveActiveTest(ctx context.Context, st *session.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode active test: %w", err)
	}
	return s.putSetting(ctx, keyActiveTest, string(data))
}

// ActiveTest returns the saved sitting, or nil when there is none.
func (s *Store) ActiveTest(ctx context.Context) (*session.State, error) {
	v, ok, err := s.getSetting(ctx, keyActiveTest)
	if err != nil || !ok {
		return nil, err
	}
	var st session.State
	if err := json.Unmarshal([]byte(v), &st); err != nil {
		return nil, fmt.Errorf("decode active test: %w", err)
	}
	st.Restore()
	return &st, nil
}

// ClearActiveTest drops the saved sitting.
func (s *Store) ClearActiveTest(ctx context.Context) error {
	return s.deleteSetting(ctx, keyActiveTest)
}
