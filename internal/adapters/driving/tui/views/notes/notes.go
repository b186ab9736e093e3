// Package notes provides the notes view component for the TUI. It shows the
// notes of one slide and edits them with a textarea.
package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// View is the notes view.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	editor textarea.Model

	notes        domain.SlideNotes
	lines        []string
	scrollOffset int
	width        int
	height       int
	editing      bool
	saving       bool
	status       string
	err          error
}

// NewView creates a new notes view.
func NewView(s *styles.Styles, keys *keymap.KeyMap) *View {
	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Placeholder = "Speaker notes..."

	return &View{
		styles: s,
		keys:   keys,
		editor: editor,
	}
}

// SetNotes shows the notes of one slide and leaves edit mode.
func (v *View) SetNotes(n domain.SlideNotes) {
	v.notes = n
	v.scrollOffset = 0
	v.editing = false
	v.saving = false
	v.status = ""
	v.err = nil
	v.editor.Blur()
	v.wrapContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the notes view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.NotesSaved:
		if msg.Slide != v.notes.Slide {
			return v, nil
		}
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notes.Notes = v.editor.Value()
		v.editing = false
		v.editor.Blur()
		v.err = nil
		v.status = "Saved"
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	if v.editing {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg handles key presses while reading.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch k := msg.String(); {
	case keymap.Matches(k, v.keys.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(k, v.keys.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case k == "pgup" || k == "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case k == "pgdown" || k == "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case k == "home" || k == "g":
		v.scrollOffset = 0
	case k == "end" || k == "G":
		v.scrollOffset = v.maxScrollOffset()
	case keymap.Matches(k, v.keys.Edit):
		return v, v.startEditing()
	case keymap.Matches(k, v.keys.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSlides}
		}
	}

	return v, nil
}

// handleEditKeyMsg handles key presses while editing.
func (v *View) handleEditKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.saving {
		return v, nil
	}

	switch k := msg.String(); {
	case keymap.Matches(k, v.keys.Save):
		v.saving = true
		v.status = "Saving..."
		req := messages.SaveRequested{Slide: v.notes.Slide, Text: v.editor.Value()}
		return v, func() tea.Msg { return req }
	case keymap.Matches(k, v.keys.Back):
		v.editing = false
		v.editor.Blur()
		v.status = "Edit cancelled"
		return v, nil
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// startEditing switches to edit mode for slides that have a notes page.
func (v *View) startEditing() tea.Cmd {
	if !v.notes.HasNotes {
		v.err = fmt.Errorf("%w: slide %d", domain.ErrNotesPartMissing, v.notes.Slide)
		return nil
	}
	v.editing = true
	v.status = ""
	v.err = nil
	v.editor.SetValue(v.notes.Notes)
	v.sizeEditor()
	return v.editor.Focus()
}

// wrapContent wraps the notes to fit the view width.
func (v *View) wrapContent() {
	v.lines = nil
	if v.notes.Notes == "" {
		return
	}

	contentWidth := max(v.width-4, 20)
	for _, line := range strings.Split(v.notes.Notes, "\n") {
		runes := []rune(line)
		for len(runes) > contentWidth {
			v.lines = append(v.lines, string(runes[:contentWidth]))
			runes = runes[contentWidth:]
		}
		v.lines = append(v.lines, string(runes))
	}
}

func (v *View) sizeEditor() {
	v.editor.SetWidth(max(v.width-6, 20))
	v.editor.SetHeight(max(v.height-8, 3))
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, separator, status and help.
	return max(v.height-7, 1)
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the notes view.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Slide %d", v.notes.Slide)
	if v.editing {
		title += " (editing)"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	switch {
	case v.editing:
		b.WriteString(v.styles.Editor.Render(v.editor.View()))
	case !v.notes.HasNotes:
		b.WriteString(v.styles.Muted.Render("(This slide has no notes page)"))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No notes)"))
	default:
		end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err)))
		b.WriteString("\n")
	case v.status != "":
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[ctrl+s] save  [esc] cancel")
	}
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [e] edit  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrapContent()
	v.sizeEditor()
}

// Notes returns the slide being shown.
func (v *View) Notes() domain.SlideNotes {
	return v.notes
}

// Editing reports whether the view is in edit mode.
func (v *View) Editing() bool {
	return v.editing
}

// EditorValue returns the current editor text.
func (v *View) EditorValue() string {
	return v.editor.Value()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
