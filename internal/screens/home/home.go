// Package home is the student's main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/screen"
	"github.com/abhisek/numeracy/internal/screens/history"
	sessionscreen "github.com/abhisek/numeracy/internal/screens/session"
	"github.com/abhisek/numeracy/internal/screens/topics"
	sess "github.com/abhisek/numeracy/internal/session"
	"github.com/abhisek/numeracy/internal/store"
	"github.com/abhisek/numeracy/internal/ui/components"
	"github.com/abhisek/numeracy/internal/ui/layout"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

// Store is the persistence the home screen and the screens it opens need.
type Store interface {
	sessionscreen.Store
	history.ResultSource
	ActiveTest(ctx context.Context) (*sess.State, error)
	Logout(ctx context.Context) error
}

// TopicLister lists the topics of a year level.
type TopicLister interface {
	Topics(year int) []string
}

// Deps are the collaborators of the home screen.
type Deps struct {
	Store   Store
	Topics  TopicLister
	Session sessionscreen.Deps
	Logger  *zap.Logger

	// OnLogout builds the screen shown after logging out. Nil quits.
	OnLogout func() screen.Screen
}

type homeLoadedMsg struct {
	Results []scoring.TestResult
	Active  *sess.State
	Err     error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps    Deps
	student store.Student

	menu    components.Menu
	stats   stats
	results []scoring.TestResult
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)
var _ screen.EscapeHandler = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps, student store.Student) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &HomeScreen{deps: deps, student: student}
	h.buildMenu(nil)
	return h
}

// Init loads the student's results and any unfinished test. It runs
// again whenever the app returns home.
func (h *HomeScreen) Init() tea.Cmd {
	st, id := h.deps.Store, h.student.ID
	return func() tea.Msg {
		ctx := context.Background()
		results, err := st.StudentResults(ctx, id)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		active, err := st.ActiveTest(ctx)
		if err != nil {
			return homeLoadedMsg{Results: results, Err: err}
		}
		return homeLoadedMsg{Results: results, Active: active}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Status shows who is logged in.
func (h *HomeScreen) Status() string {
	return fmt.Sprintf("%s (%s)  ", h.student.Name, h.student.ID)
}

// HandlesEscape keeps Esc from leaving home; log out from the menu.
func (h *HomeScreen) HandlesEscape() bool { return true }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(homeLoadedMsg); ok {
		if msg.Err != nil {
			h.deps.Logger.Warn("load home failed", zap.String("student_id", h.student.ID), zap.Error(msg.Err))
			h.errMsg = msg.Err.Error()
		} else {
			h.errMsg = ""
		}
		h.results = msg.Results
		h.stats = computeStats(msg.Results)
		h.loaded = true

		active := msg.Active
		if active != nil && (active.StudentID != h.student.ID || active.Phase == sess.PhaseSubmitted) {
			active = nil
		}
		h.buildMenu(active)
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) buildMenu(active *sess.State) {
	year := h.student.YearLevel
	full, fullErr := sess.FullPlan(year)
	var items []components.MenuItem

	if active != nil {
		answered := len(active.Questions) - len(active.Unanswered())
		items = append(items, components.MenuItem{
			Label: "Resume test",
			Hint:  fmt.Sprintf("%d/%d answered", answered, len(active.Questions)),
			Action: func() tea.Cmd {
				return push(sessionscreen.Resume(h.deps.Session, active))
			},
		})
	}

	fullHint := "unavailable for this year"
	if fullErr == nil {
		fullHint = fmt.Sprintf("%d questions · %d min", full.QuestionCount, int(full.TimeLimit.Minutes()))
	}
	items = append(items,
		components.MenuItem{
			Label:    fmt.Sprintf("Year %d practice test", year),
			Hint:     fullHint,
			Disabled: fullErr != nil,
			Action: func() tea.Cmd {
				return push(sessionscreen.New(h.deps.Session, h.student.ID, full))
			},
		},
		components.MenuItem{
			Label: "Focus on a topic",
			Action: func() tea.Cmd {
				return push(topics.New("Focus Topics", h.deps.Session, h.student.ID, year,
					h.deps.Topics.Topics(year), scoring.MergeTopics(h.results)))
			},
		},
		components.MenuItem{
			Label:    "Practise weak topics",
			Hint:     weakHint(h.stats.weakest),
			Disabled: len(h.stats.weakest) == 0,
			Action: func() tea.Cmd {
				names := make([]string, len(h.stats.weakest))
				for i, w := range h.stats.weakest {
					names[i] = w.Topic
				}
				return push(topics.New("Weak Topics", h.deps.Session, h.student.ID, year, names, h.stats.weakest))
			},
		},
		components.MenuItem{
			Label:    "Past results",
			Disabled: len(h.results) == 0 && h.loaded,
			Action: func() tea.Cmd {
				return push(history.New(h.deps.Store, h.student.ID))
			},
		},
		components.MenuItem{
			Label:  "Log out",
			Action: h.logout,
		},
	)
	h.menu = components.NewMenu(items)
}

func (h *HomeScreen) logout() tea.Cmd {
	if err := h.deps.Store.Logout(context.Background()); err != nil {
		h.deps.Logger.Warn("logout failed", zap.Error(err))
	}
	h.deps.Logger.Info("student logged out", zap.String("student_id", h.student.ID))
	if h.deps.OnLogout == nil {
		return tea.Quit
	}
	next := h.deps.OnLogout()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func weakHint(weak []scoring.TopicStat) string {
	if len(weak) == 0 {
		return ""
	}
	names := make([]string, 0, 3)
	for _, w := range weak[:min(len(weak), 3)] {
		names = append(names, w.Topic)
	}
	hint := strings.Join(names, ", ")
	if len(weak) > 3 {
		hint += ", ..."
	}
	return hint
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || width < 100
	cw := components.ContentWidth(width)

	sections := []string{
		renderGreeting(h.student.Name, h.student.YearLevel, cw),
		renderStatsBar(h.stats, cw, compact),
		h.menu.View(),
	}
	if h.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(h.errMsg))
	}
	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
