// Package slides provides the slide list view component for the TUI.
package slides

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// View is the slide list view.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	path         string
	slides       []domain.SlideNotes
	selected     int
	scrollOffset int
	width        int
	height       int
	loading      bool
	status       string
	err          error
}

// NewView creates a new slide list view for the presentation at path.
func NewView(s *styles.Styles, keys *keymap.KeyMap, path string) *View {
	return &View{
		styles:  s,
		keys:    keys,
		path:    path,
		loading: true,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the slide list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.NotesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.slides = msg.Notes
		if v.selected >= len(v.slides) {
			v.selected = max(len(v.slides)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.NotesSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.status = fmt.Sprintf("Slide %d saved", msg.Slide)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch k := msg.String(); {
	case keymap.Matches(k, v.keys.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keys.Down):
		if v.selected < len(v.slides)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keys.Select):
		if v.selected < len(v.slides) {
			slide := v.slides[v.selected]
			return v, func() tea.Msg {
				return messages.SlideSelected{Notes: slide}
			}
		}
	case keymap.Matches(k, v.keys.Reload):
		v.loading = true
		v.status = ""
		return v, func() tea.Msg { return messages.ReloadRequested{} }
	case keymap.Matches(k, v.keys.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	return v, nil
}

// Loading reports whether the view is waiting for notes.
func (v *View) Loading() bool {
	return v.loading
}

// adjustScroll keeps the selected row visible.
func (v *View) adjustScroll() {
	visible := v.visibleRows()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	}
	if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleRows returns the number of slide rows that fit on screen.
func (v *View) visibleRows() int {
	// Title, separator, status and help.
	return max(v.height-7, 1)
}

// View renders the slide list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.path))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading slides..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err)))
	case len(v.slides) == 0:
		b.WriteString(v.styles.Muted.Render("(No slides)"))
	default:
		v.renderRows(&b)
	}

	b.WriteString("\n\n")
	if v.status != "" {
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] open  [r] reload  [?] help  [q] quit"))
	return b.String()
}

func (v *View) renderRows(b *strings.Builder) {
	end := min(v.scrollOffset+v.visibleRows(), len(v.slides))
	for i := v.scrollOffset; i < end; i++ {
		row := fmt.Sprintf("%3d  %s", v.slides[i].Slide, v.preview(v.slides[i]))
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(row))
		} else {
			b.WriteString(v.styles.Normal.Render(row))
		}
		b.WriteString("\n")
	}
	if len(v.slides) > v.visibleRows() {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %d-%d of %d", v.scrollOffset+1, end, len(v.slides))))
	}
}

// preview returns the first notes line cut to the view width.
func (v *View) preview(n domain.SlideNotes) string {
	if !n.HasNotes {
		return "(no notes page)"
	}
	line, _, _ := strings.Cut(strings.TrimSpace(n.Notes), "\n")
	if line == "" {
		return "(empty)"
	}
	limit := max(v.width-10, 20)
	runes := []rune(line)
	if len(runes) > limit {
		return string(runes[:limit-1]) + "…"
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Slides returns the loaded slides.
func (v *View) Slides() []domain.SlideNotes {
	return v.slides
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
