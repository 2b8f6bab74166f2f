package welcome

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/screen"
	"github.com/abhisek/numeracy/internal/store"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ student store.Student }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

type fakeAuth struct {
	students map[string]store.Student
	logins   []string
}

func (f *fakeAuth) GetStudent(_ context.Context, id string) (*store.Student, error) {
	st, ok := f.students[id]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", id, store.ErrStudentNotFound)
	}
	return &st, nil
}

func (f *fakeAuth) Login(ctx context.Context, id string) (*store.LoginSession, error) {
	if _, err := f.GetStudent(ctx, id); err != nil {
		return nil, err
	}
	f.logins = append(f.logins, id)
	return &store.LoginSession{StudentID: id, LoginTime: time.Now()}, nil
}

func newTestWelcome() (*WelcomeScreen, *fakeAuth) {
	auth := &fakeAuth{students: map[string]store.Student{
		"STU-Y3-AB12": {ID: "STU-Y3-AB12", Name: "Ava", YearLevel: 3},
	}}
	return New(auth, func(st store.Student) screen.Screen { return &stubScreen{student: st} }), auth
}

func typeText(w *WelcomeScreen, s string) {
	for _, r := range s {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// submit presses Enter and feeds the login result back to the screen.
func submit(t *testing.T, w *WelcomeScreen) tea.Cmd {
	t.Helper()
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		return nil
	}
	_, next := w.Update(cmd())
	return next
}

func TestLogin_Success(t *testing.T) {
	w, auth := newTestWelcome()
	typeText(w, " stu-y3-ab12 ")

	cmd := submit(t, w)
	if cmd == nil {
		t.Fatal("expected a command after login")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	home, ok := msg.Screen.(*stubScreen)
	if !ok || home.student.Name != "Ava" {
		t.Errorf("home built for %+v", msg.Screen)
	}
	if len(auth.logins) != 1 || auth.logins[0] != "STU-Y3-AB12" {
		t.Errorf("logins = %v, want the upper-cased id", auth.logins)
	}
}

func TestLogin_UnknownStudent(t *testing.T) {
	w, auth := newTestWelcome()
	typeText(w, "STU-Y5-XX00")

	if cmd := submit(t, w); cmd != nil {
		t.Error("unknown student should not leave the screen")
	}
	if !strings.Contains(w.View(80, 24), "not found") {
		t.Errorf("expected not-found error, got %q", w.errMsg)
	}
	if len(auth.logins) != 0 {
		t.Error("no login should be recorded")
	}

	typeText(w, "1")
	if w.errMsg != "" {
		t.Error("typing should clear the error")
	}
}

func TestLogin_EmptyID(t *testing.T) {
	w, _ := newTestWelcome()
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty id should not start a login")
	}
	if w.errMsg == "" {
		t.Error("expected a prompt to enter an id")
	}
}

func TestSparkleTicks(t *testing.T) {
	w, _ := newTestWelcome()
	before := w.View(80, 24)
	_, cmd := w.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule another tick")
	}
	if w.View(80, 24) == before {
		t.Error("sparkle should change between ticks")
	}
	if !strings.Contains(before, "Student ID") {
		t.Error("login prompt missing")
	}
}
