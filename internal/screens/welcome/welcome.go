// Package welcome is the login screen.
package welcome

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/screen"
	"github.com/abhisek/numeracy/internal/store"
	"github.com/abhisek/numeracy/internal/ui/layout"
	"github.com/abhisek/numeracy/internal/ui/theme"
)

const tickInterval = 500 * time.Millisecond

// sparkle frames cycle around the tagline
var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

type loginMsg struct {
	Student *store.Student
	Err     error
}

// Authenticator signs a student in.
type Authenticator interface {
	GetStudent(ctx context.Context, id string) (*store.Student, error)
	Login(ctx context.Context, studentID string) (*store.LoginSession, error)
}

// WelcomeScreen asks for a student ID and signs the student in.
type WelcomeScreen struct {
	auth        Authenticator
	homeFactory func(store.Student) screen.Screen

	input     textinput.Model
	tickCount int
	busy      bool
	errMsg    string
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen
// homeFactory builds for the signed-in student.
func New(auth Authenticator, homeFactory func(store.Student) screen.Screen) *WelcomeScreen {
	ti := textinput.New()
	ti.Placeholder = "STU-Y3-AB12"
	ti.CharLimit = 16
	ti.Focus()
	return &WelcomeScreen{
		auth:        auth,
		homeFactory: homeFactory,
		input:       ti,
	}
}

func (w *WelcomeScreen) Title() string {
	return "Log in"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Log in"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(w.input.Focus(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		w.tickCount++
		return w, tick()

	case loginMsg:
		w.busy = false
		if msg.Err != nil {
			w.errMsg = loginError(msg.Err)
			return w, nil
		}
		next := w.homeFactory(*msg.Student)
		return w, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return w, w.login()
		}
		w.errMsg = ""
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) login() tea.Cmd {
	id := strings.ToUpper(strings.TrimSpace(w.input.Value()))
	if id == "" {
		w.errMsg = "Please enter your student ID."
		return nil
	}
	if w.busy {
		return nil
	}
	w.busy = true
	auth := w.auth
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := auth.Login(ctx, id); err != nil {
			return loginMsg{Err: err}
		}
		st, err := auth.GetStudent(ctx, id)
		return loginMsg{Student: st, Err: err}
	}
}

func loginError(err error) string {
	if errors.Is(err, store.ErrStudentNotFound) {
		return "Student ID not found. Ask your teacher for your ID."
	}
	return "Could not log in: " + err.Error()
}

func (w *WelcomeScreen) View(width, height int) string {
	sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)

	tagline := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Practice tests for Years 3, 5 and 7")

	sections := []string{
		RenderBanner(width),
		"",
		accent + "  " + tagline + "  " + accent,
		"",
		theme.Subtitle.Render("Student ID"),
		w.input.View(),
	}
	switch {
	case w.busy:
		sections = append(sections, "", theme.Hint.Render("Logging in..."))
	case w.errMsg != "":
		sections = append(sections, "", theme.ErrorText.Render(w.errMsg))
	default:
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("type your ID and press Enter"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
