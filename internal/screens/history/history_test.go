package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/screens/summary"
)

type fakeSource struct {
	results []scoring.TestResult
	err     error
}

func (f fakeSource) StudentResults(_ context.Context, _ string) ([]scoring.TestResult, error) {
	return f.results, f.err
}

func results() []scoring.TestResult {
	day := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return []scoring.TestResult{
		{TestID: "old", Type: scoring.TestFull, Date: day, QuestionsTotal: 35, QuestionsCorrect: 20, Percentage: 57.1, BandScore: 4},
		{TestID: "new", Type: scoring.TestFocus, FocusTopic: "Time", Date: day.AddDate(0, 0, 3), QuestionsTotal: 10, QuestionsCorrect: 9, Percentage: 90},
	}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestHistoryScreen_NewestFirst(t *testing.T) {
	s := New(fakeSource{results: results()}, "STU-Y3-AB12")
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading view")
	}
	load(t, s)

	if len(s.results) != 2 || s.results[0].TestID != "new" {
		t.Fatalf("results = %+v, want newest first", s.results)
	}
	view := s.View(100, 30)
	for _, want := range []string{"Focus: Time", "Full test", "Band 4", "90.0%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_EnterOpensResult(t *testing.T) {
	s := New(fakeSource{results: results()}, "STU-Y3-AB12")
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Fatalf("selected = %d, want clamped at 1", s.selected)
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("pushed %T", push.Screen)
	}
}

func TestHistoryScreen_EmptyAndError(t *testing.T) {
	s := New(fakeSource{}, "STU-Y3-AB12")
	load(t, s)
	if !strings.Contains(s.View(100, 30), "No tests yet") {
		t.Error("expected empty message")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("Enter with no results should do nothing")
	}

	s = New(fakeSource{err: errors.New("db locked")}, "STU-Y3-AB12")
	load(t, s)
	if !strings.Contains(s.View(100, 30), "db locked") {
		t.Error("expected error message")
	}
}
