package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/numeracy/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title    string
	initRuns int
	updates  int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRuns++
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.updates++
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushPop(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	test := &stubScreen{title: "test"}
	r.Update(PushScreenMsg{Screen: test})
	if r.Depth() != 2 || r.Active().Title() != "test" {
		t.Fatalf("after push: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if test.initRuns != 1 {
		t.Error("expected Init() to run on pushed screen")
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("after pop: depth %d, active %q", r.Depth(), r.Active().Title())
	}

	r.Pop()
	if r.Depth() != 1 {
		t.Errorf("pop at the bottom should be a no-op, depth %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "test"})

	results := &stubScreen{title: "results"}
	r.Update(ReplaceScreenMsg{Screen: results})

	if r.Depth() != 2 {
		t.Errorf("replace changed depth to %d", r.Depth())
	}
	if r.Active().Title() != "results" || results.initRuns != 1 {
		t.Errorf("replace did not activate and init the new screen")
	}
}

func TestPopToRoot(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "topics"})
	r.Push(&stubScreen{title: "test"})

	r.Update(PopToRootMsg{})
	if r.Depth() != 1 || r.Active() != home {
		t.Fatalf("depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if home.initRuns != 1 {
		t.Error("root should be re-initialised")
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	test := &stubScreen{title: "test"}
	r := New(home)
	r.Push(test)

	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if test.updates != 1 || home.updates != 0 {
		t.Errorf("updates: test %d, home %d", test.updates, home.updates)
	}
	if r.View(80, 24) != "test" {
		t.Errorf("view = %q", r.View(80, 24))
	}
}
