package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/views/notes"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/views/slides"
	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// path is the presentation being browsed.
	path string

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// slidesView lists every slide.
	slidesView *slides.View

	// notesView shows and edits one slide.
	notesView *notes.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is closed.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI over the presentation at path.
func NewApp(ports *Ports, path string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if path == "" {
		return nil, fmt.Errorf("creating app: %w", ErrMissingPath)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		path:        path,
		styles:      s,
		keys:        keys,
		slidesView:  slides.NewView(s, keys, path),
		notesView:   notes.NewView(s, keys),
		currentView: messages.ViewSlides,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("notesmith - "+filepath.Base(a.path)),
		a.loadNotes(),
	)
}

// loadNotes returns a command that reads the notes of every slide.
func (a *App) loadNotes() tea.Cmd {
	ctx, svc, path := a.ctx, a.ports.Notes, a.path
	return func() tea.Msg {
		n, err := svc.ReadNotes(ctx, path, nil)
		return messages.NotesLoaded{Notes: n, Err: err}
	}
}

// saveNotes returns a command that rewrites one slide in place.
func (a *App) saveNotes(req messages.SaveRequested) tea.Cmd {
	ctx, svc, path := a.ctx, a.ports.Notes, a.path
	return func() tea.Msg {
		result, err := svc.UpdateNotes(ctx, path,
			domain.UpdateRequest{Slide: req.Slide, Text: req.Text},
			domain.ApplyOptions{InPlace: true, MissPolicy: domain.MissFail},
		)
		return messages.NotesSaved{Slide: req.Slide, Result: result, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.NotesLoaded:
		a.err = msg.Err
		a.slidesView, cmd = a.slidesView.Update(msg)
		return a, cmd

	case messages.ReloadRequested:
		return a, a.loadNotes()

	case messages.SlideSelected:
		a.notesView.SetNotes(msg.Notes)
		a.currentView = messages.ViewNotes
		return a, nil

	case messages.SaveRequested:
		return a, a.saveNotes(msg)

	case messages.NotesSaved:
		a.err = msg.Err
		a.notesView, cmd = a.notesView.Update(msg)
		a.slidesView, _ = a.slidesView.Update(msg)
		if msg.Err != nil {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.loadNotes())

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewNotes {
			a.notesView, cmd = a.notesView.Update(msg)
		} else {
			a.slidesView, cmd = a.slidesView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages, such as cursor blinks, to the active view.
	if a.currentView == messages.ViewNotes {
		a.notesView, cmd = a.notesView.Update(msg)
	}
	return a, cmd
}

// handleKeyMsg routes key presses to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keys.Back) || keymap.Matches(msg.String(), a.keys.Help) {
			a.currentView = a.previousView
		}
		return a, nil

	case messages.ViewNotes:
		if !a.notesView.Editing() && keymap.Matches(msg.String(), a.keys.Help) {
			a.showHelp()
			return a, nil
		}
		a.notesView, cmd = a.notesView.Update(msg)
		return a, cmd

	case messages.ViewSlides:
		if keymap.Matches(msg.String(), a.keys.Help) {
			a.showHelp()
			return a, nil
		}
		a.slidesView, cmd = a.slidesView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) showHelp() {
	a.previousView = a.currentView
	a.currentView = messages.ViewHelp
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewNotes:
		return a.notesView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.slidesView.View()
	}
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.slidesView.SetDimensions(width, height)
	a.notesView.SetDimensions(width, height)
}
