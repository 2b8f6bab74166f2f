// Package app hosts the Bubble Tea program for sitting practice tests.
package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/numeracy/internal/router"
	"github.com/abhisek/numeracy/internal/screen"
	"github.com/abhisek/numeracy/internal/screens/home"
	sessionscreen "github.com/abhisek/numeracy/internal/screens/session"
	"github.com/abhisek/numeracy/internal/screens/welcome"
	"github.com/abhisek/numeracy/internal/session"
	"github.com/abhisek/numeracy/internal/store"
	"github.com/abhisek/numeracy/internal/ui/layout"
)

// Store is the persistence the application needs. *store.Store satisfies it.
type Store interface {
	home.Store
	welcome.Authenticator
}

// Catalog supplies templates and topics per year level.
type Catalog interface {
	session.TemplateSource
	home.TopicLister
}

// Options configures the application.
type Options struct {
	Store     Store
	Catalog   Catalog
	Generator session.QuestionGenerator
	Logger    *zap.Logger

	// Student skips the login screen when set.
	Student *store.Student

	// Now defaults to time.Now.
	Now func() time.Time
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the login screen, or at
// home when a student is already signed in.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	sessDeps := sessionscreen.Deps{
		Store:   opts.Store,
		Planner: session.NewPlanner(opts.Catalog, opts.Generator),
		Logger:  opts.Logger,
		Now:     opts.Now,
	}
	homeDeps := home.Deps{
		Store:   opts.Store,
		Topics:  opts.Catalog,
		Session: sessDeps,
		Logger:  opts.Logger,
	}

	login := func() screen.Screen {
		return welcome.New(opts.Store, func(st store.Student) screen.Screen {
			return home.New(homeDeps, st)
		})
	}
	homeDeps.OnLogout = login

	var first screen.Screen
	if opts.Student != nil {
		first = home.New(homeDeps, *opts.Student)
	} else {
		first = login()
	}
	return AppModel{router: router.New(first)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); ok && eh.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame, or nothing until the window size is known.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
