package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/screen"
	"github.com/abhisek/numeracy/internal/screens/summary"
	sess "github.com/abhisek/numeracy/internal/session"
	"github.com/abhisek/numeracy/internal/ui/components"
	"github.com/abhisek/numeracy/internal/ui/layout"
)

// Store persists the sitting while it runs and its result once submitted.
type Store interface {
	SaveActiveTest(ctx context.Context, st *sess.State) error
	ClearActiveTest(ctx context.Context) error
	SaveTestResult(ctx context.Context, studentID string, res scoring.TestResult) error
}

// Deps are the collaborators of the test screen.
type Deps struct {
	Store   Store
	Planner *sess.Planner
	Logger  *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) log() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

// SessionScreen runs one sitting of a practice test.
type SessionScreen struct {
	deps      Deps
	studentID string
	plan      *sess.Plan

	state   *sess.State
	options components.Options
	input   components.AnswerInput
	leaving bool
	errMsg  string
	notice  string
}

var (
	_ screen.Screen          = (*SessionScreen)(nil)
	_ screen.KeyHintProvider = (*SessionScreen)(nil)
	_ screen.StatusProvider  = (*SessionScreen)(nil)
	_ screen.EscapeHandler   = (*SessionScreen)(nil)
)

// New creates a screen that generates and starts a new sitting of plan.
func New(deps Deps, studentID string, plan *sess.Plan) *SessionScreen {
	return &SessionScreen{deps: deps, studentID: studentID, plan: plan}
}

// Resume creates a screen that continues a saved sitting.
func Resume(deps Deps, state *sess.State) *SessionScreen {
	s := &SessionScreen{deps: deps, studentID: state.StudentID, plan: state.Plan, state: state}
	s.loadQuestion()
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.state != nil {
		if s.state.Expired(s.deps.now()) {
			s.notice = "Time ran out while you were away."
			return s.submit()
		}
		return tea.Batch(s.loadQuestion(), tickCmd())
	}
	return s.startTest()
}

func (s *SessionScreen) Title() string {
	if s.plan == nil {
		return "Practice Test"
	}
	if s.plan.Type == scoring.TestFocus {
		return fmt.Sprintf("Year %d Focus: %s", s.plan.Year, s.plan.Topic)
	}
	return fmt.Sprintf("Year %d Practice Test", s.plan.Year)
}

// Status shows the countdown in the header.
func (s *SessionScreen) Status() string {
	if s.state == nil {
		return ""
	}
	return "Time " + layout.FormatClock(int(s.state.Remaining(s.deps.now()).Seconds()))
}

func (s *SessionScreen) HandlesEscape() bool { return true }

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.state == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.leaving || s.state.Phase == sess.PhaseConfirmSubmit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Yes"},
			{Key: "N", Description: "No"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Tab/Shift+Tab", Description: "Navigate"},
		{Key: "Ctrl+F", Description: "Flag"},
		{Key: "Ctrl+U", Description: "Unanswered"},
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Esc", Description: "Save & leave"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case testReadyMsg:
		return s.handleReady(msg)

	case timerTickMsg:
		return s.handleTick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.active() && !s.isMultipleChoice() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// startTest generates the questions off the UI loop.
func (s *SessionScreen) startTest() tea.Cmd {
	deps, studentID, plan := s.deps, s.studentID, s.plan
	return func() tea.Msg {
		if deps.Planner == nil || plan == nil {
			return testReadyMsg{Err: errors.New("no test plan")}
		}
		st, err := deps.Planner.Start(studentID, plan, sess.WithStartTime(deps.now()))
		return testReadyMsg{State: st, Err: err}
	}
}

func (s *SessionScreen) handleReady(msg testReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.deps.log().Error("start test failed", zap.Error(msg.Err))
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.state = msg.State
	s.deps.log().Info("test started",
		zap.String("student_id", s.studentID),
		zap.String("type", string(s.plan.Type)),
		zap.Int("questions", len(s.state.Questions)))
	s.persist()
	return s, tea.Batch(s.loadQuestion(), tickCmd())
}

func (s *SessionScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.state == nil || s.state.Phase == sess.PhaseSubmitted {
		return s, nil
	}
	if s.state.Expired(s.deps.now()) {
		s.commitInput()
		s.notice = "Time's up! Your test was submitted automatically."
		return s, s.submit()
	}
	return s, tickCmd()
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.state == nil {
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.leaving {
		switch key {
		case "y", "Y":
			s.commitInput()
			s.persist()
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "n", "N", "esc":
			s.leaving = false
		}
		return s, nil
	}

	if s.state.Phase == sess.PhaseConfirmSubmit {
		switch key {
		case "y", "Y":
			return s, s.submit()
		case "n", "N", "esc":
			s.state.CancelSubmit()
		}
		return s, nil
	}

	if !s.active() {
		return s, nil
	}

	s.notice = ""
	switch key {
	case "esc":
		s.leaving = true
		return s, nil
	case "tab", "pgdown", "ctrl+n":
		return s, s.move(s.state.Next)
	case "shift+tab", "pgup", "ctrl+p":
		return s, s.move(s.state.Prev)
	case "enter":
		if s.isMultipleChoice() {
			s.choose(s.options.Cursor)
		}
		if !s.commitInput() {
			return s, nil
		}
		if s.state.Next() {
			return s, s.loadQuestion()
		}
		return s, s.requestSubmit()
	case "ctrl+f":
		if s.state.ToggleFlag() {
			s.notice = "Question flagged for review."
		}
		s.persist()
		return s, nil
	case "ctrl+u":
		return s, s.jumpUnanswered()
	case "ctrl+s":
		if !s.commitInput() {
			return s, nil
		}
		return s, s.requestSubmit()
	}

	if s.isMultipleChoice() {
		switch key {
		case "up", "k":
			s.options.Up()
		case "down", "j":
			s.options.Down()
		case "space":
			s.choose(s.options.Cursor)
		default:
			if i, ok := s.options.IndexForKey(key); ok {
				s.choose(i)
			}
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SessionScreen) active() bool {
	return s.state != nil && s.state.Phase == sess.PhaseActive && !s.leaving
}

func (s *SessionScreen) isMultipleChoice() bool {
	q := s.currentQuestion()
	return q != nil && q.AnswerType == questiongen.AnswerMultipleChoice && len(q.Options) > 0
}

func (s *SessionScreen) currentQuestion() *questiongen.Question {
	if s.state == nil {
		return nil
	}
	return s.state.CurrentQuestion()
}

// loadQuestion prepares the input widget for the current question.
func (s *SessionScreen) loadQuestion() tea.Cmd {
	q := s.currentQuestion()
	if q == nil {
		return nil
	}
	if s.isMultipleChoice() {
		s.options = components.NewOptions(q.Options, s.state.CurrentAnswer())
		return nil
	}
	s.input = components.NewAnswerInput(s.state.CurrentAnswer())
	return s.input.Init()
}

func (s *SessionScreen) choose(i int) {
	if opt, ok := s.options.Choose(i); ok {
		_ = s.state.Answer(opt)
		s.persist()
	}
}

// commitInput records a typed answer. It reports false, leaving the
// student on the question, when the input is not a number.
func (s *SessionScreen) commitInput() bool {
	if s.state == nil || s.isMultipleChoice() || s.currentQuestion() == nil {
		return true
	}
	if !s.input.Valid() {
		s.notice = "Please enter a number, fraction or time."
		return false
	}
	if s.input.Value() != s.state.CurrentAnswer() {
		_ = s.state.Answer(s.input.Value())
		s.persist()
	}
	return true
}

func (s *SessionScreen) move(step func() bool) tea.Cmd {
	if !s.commitInput() {
		return nil
	}
	if step() {
		return s.loadQuestion()
	}
	return nil
}

func (s *SessionScreen) jumpUnanswered() tea.Cmd {
	if !s.commitInput() {
		return nil
	}
	unanswered := s.state.Unanswered()
	if len(unanswered) == 0 {
		s.notice = "Every question has an answer."
		return nil
	}
	next := unanswered[0]
	for _, i := range unanswered {
		if i > s.state.Current {
			next = i
			break
		}
	}
	_ = s.state.Jump(next)
	return s.loadQuestion()
}

func (s *SessionScreen) requestSubmit() tea.Cmd {
	if s.state.RequestSubmit() {
		return s.submit()
	}
	s.persist()
	return nil
}

// submit scores the sitting, stores the result and shows it.
func (s *SessionScreen) submit() tea.Cmd {
	res, err := s.state.Submit(s.deps.now())
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}

	ctx := context.Background()
	log := s.deps.log()
	note := s.notice
	if s.deps.Store != nil {
		if err := s.deps.Store.SaveTestResult(ctx, s.studentID, res); err != nil {
			log.Error("save result failed", zap.String("test_id", res.TestID), zap.Error(err))
			note = "Your result could not be saved: " + err.Error()
		}
		if err := s.deps.Store.ClearActiveTest(ctx); err != nil {
			log.Warn("clear active test failed", zap.Error(err))
		}
	}
	log.Info("test submitted",
		zap.String("student_id", s.studentID),
		zap.String("test_id", res.TestID),
		zap.Float64("percentage", res.Percentage))

	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(res, note)}
	}
}

// persist saves the sitting so it survives a crash or a quit.
func (s *SessionScreen) persist() {
	if s.deps.Store == nil || s.state == nil || s.state.Phase == sess.PhaseSubmitted {
		return
	}
	if err := s.deps.Store.SaveActiveTest(context.Background(), s.state); err != nil {
		s.deps.log().Warn("save active test failed", zap.Error(err))
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
