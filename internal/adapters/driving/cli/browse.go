package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesmith/internal/adapters/driving/tui"
	"github.com/custodia-labs/notesmith/internal/logger"
)

var browseCmd = &cobra.Command{
	Use:   "browse [file]",
	Short: "Browse and edit speaker notes interactively",
	Long: `Open a terminal UI listing every slide of a presentation with a preview
of its notes. Open a slide to read its notes in full, press e to edit them
and ctrl+s to save. Saves rewrite the file in place.

Controls:
  ↑/k, ↓/j - Navigate / scroll
  Enter    - Open slide
  e        - Edit notes
  ctrl+s   - Save
  r        - Reload from disk
  Esc      - Back / Cancel
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

// runProgram runs the TUI. Tests replace it to avoid taking over the terminal.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) (err error) {
	if err := requireNotes(); err != nil {
		return err
	}
	if !stdinIsTerminal() {
		return errors.New("browse requires an interactive terminal")
	}

	path := args[0]
	// Fail on unreadable or disallowed files before the screen is taken over.
	if _, err := notesService.SlideCount(cmd.Context(), path); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Notes: notesService}, path)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in TUI: %v", r)
		}
	}()

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
