package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/services"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Read and update speaker notes",
	Long: `Read, update and format the speaker notes of a presentation.

Slide N is the slide stored as ppt/slides/slideN.xml. This matches the
presentation order unless slides were reordered after they were created.
A slide without a notes page is reported as skipped; use --strict to fail
instead.`,
}

var notesReadCmd = &cobra.Command{
	Use:   "read [file]",
	Short: "Print speaker notes",
	Long: `Print the speaker notes of every slide, one slide, or a range of slides.

With --json the output can be edited and fed back to 'notes apply'.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotesRead,
}

var notesUpdateCmd = &cobra.Command{
	Use:   "update [file]",
	Short: "Replace the notes of one slide",
	Long: `Replace the speaker notes of one slide.

Without --in-place or --output the result is written next to the source,
e.g. deck.pptx -> deck.notes.pptx.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotesUpdate,
}

var notesApplyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply a JSON batch of notes updates atomically",
	Long: `Apply several notes updates in one atomic commit.

The updates file may use any of these shapes:
  {"slides": [{"slide": 1, "notes": "..."}]}
  {"1": "...", "2": "..."}
  [{"slide_number": 1, "notes_text": "..."}]

Use "-" to read the updates from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotesApply,
}

var notesFormatCmd = &cobra.Command{
	Use:   "format",
	Short: "Print short and original text in the notes template",
	Args:  cobra.NoArgs,
	RunE:  runNotesFormat,
}

// Flags for notes commands.
var (
	readSlide    int
	readRange    string
	readJSON     bool
	updateSlide  int
	updateText   string
	updatesFile  string
	writeInPlace bool
	outputPath   string
	strictMisses bool
	formatShort  string
	formatOrig   string
	formatSimple bool
)

// now is replaced in tests.
var now = time.Now

func init() {
	notesReadCmd.Flags().IntVarP(&readSlide, "slide", "s", 0, "Slide number (1-indexed)")
	notesReadCmd.Flags().StringVarP(&readRange, "range", "r", "", "Inclusive slide range, e.g. 2-5")
	notesReadCmd.Flags().BoolVar(&readJSON, "json", false, "Print JSON suitable for 'notes apply'")
	notesReadCmd.MarkFlagsMutuallyExclusive("slide", "range")

	notesUpdateCmd.Flags().IntVarP(&updateSlide, "slide", "s", 0, "Slide number (1-indexed)")
	notesUpdateCmd.Flags().StringVarP(&updateText, "text", "t", "", "New notes text; newlines separate paragraphs")
	_ = notesUpdateCmd.MarkFlagRequired("slide")
	_ = notesUpdateCmd.MarkFlagRequired("text")

	notesApplyCmd.Flags().StringVarP(&updatesFile, "updates", "u", "", "JSON file with updates, or - for stdin")
	_ = notesApplyCmd.MarkFlagRequired("updates")

	for _, c := range []*cobra.Command{notesUpdateCmd, notesApplyCmd} {
		c.Flags().BoolVarP(&writeInPlace, "in-place", "i", false, "Replace the source file")
		c.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default {name}.notes.pptx)")
		c.Flags().BoolVar(&strictMisses, "strict", false, "Fail if any slide has no notes page")
		c.MarkFlagsMutuallyExclusive("in-place", "output")
	}

	notesFormatCmd.Flags().StringVar(&formatShort, "short", "", "Short version text")
	notesFormatCmd.Flags().StringVar(&formatOrig, "original", "", "Original version text")
	notesFormatCmd.Flags().BoolVar(&formatSimple, "simple", false, "Join the texts with a blank line instead of the template")

	notesCmd.AddCommand(notesReadCmd)
	notesCmd.AddCommand(notesUpdateCmd)
	notesCmd.AddCommand(notesApplyCmd)
	notesCmd.AddCommand(notesFormatCmd)
	rootCmd.AddCommand(notesCmd)
}

// notesDump is the JSON shape printed by notes read --json.
type notesDump struct {
	Source      string           `json:"source"`
	GeneratedAt string           `json:"generated_at"`
	Slides      []notesDumpSlide `json:"slides"`
}

type notesDumpSlide struct {
	Slide int    `json:"slide"`
	Notes string `json:"notes"`
}

func runNotesRead(cmd *cobra.Command, args []string) error {
	if err := requireNotes(); err != nil {
		return err
	}

	var slides []int
	switch {
	case readSlide != 0:
		slides = []int{readSlide}
	case readRange != "":
		var err error
		if slides, err = services.ParseSlideRange(readRange); err != nil {
			return err
		}
	}

	notes, err := notesService.ReadNotes(cmd.Context(), args[0], slides)
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}

	if readJSON {
		dump := notesDump{
			Source:      filepath.Base(args[0]),
			GeneratedAt: now().UTC().Format(time.RFC3339),
			Slides:      make([]notesDumpSlide, len(notes)),
		}
		for i, n := range notes {
			dump.Slides[i] = notesDumpSlide{Slide: n.Slide, Notes: n.Notes}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	}

	out := cmd.OutOrStdout()
	for i, n := range notes {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if !n.HasNotes {
			fmt.Fprintf(out, "Slide %d: (no notes page)\n", n.Slide)
			continue
		}
		fmt.Fprintf(out, "Slide %d:\n", n.Slide)
		for _, line := range strings.Split(n.Notes, "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}

func runNotesUpdate(cmd *cobra.Command, args []string) error {
	if err := requireNotes(); err != nil {
		return err
	}

	req := domain.UpdateRequest{Slide: updateSlide, Text: updateText}
	result, err := notesService.UpdateNotes(cmd.Context(), args[0], req, applyFlags())
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}
	printResult(cmd, result)
	return nil
}

func runNotesApply(cmd *cobra.Command, args []string) error {
	if err := requireNotes(); err != nil {
		return err
	}

	data, err := readUpdates(cmd, updatesFile)
	if err != nil {
		return err
	}
	batch, err := services.ParseUpdates(data)
	if err != nil {
		return err
	}

	result, err := notesService.UpdateNotesBatch(cmd.Context(), args[0], batch, applyFlags())
	if err != nil {
		return fmt.Errorf("failed to apply notes: %w", err)
	}
	printResult(cmd, result)
	return nil
}

func runNotesFormat(cmd *cobra.Command, _ []string) error {
	if err := requireNotes(); err != nil {
		return err
	}

	format := domain.NotesFormatShortOriginal
	if formatSimple {
		format = domain.NotesFormatSimple
	}
	text, err := notesService.FormatNotes(formatShort, formatOrig, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func applyFlags() domain.ApplyOptions {
	opts := domain.ApplyOptions{InPlace: writeInPlace, OutputPath: outputPath}
	if strictMisses {
		opts.MissPolicy = domain.MissFail
	}
	return opts
}

func readUpdates(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading updates from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading updates: %w", err)
	}
	return data, nil
}

func printResult(cmd *cobra.Command, result *domain.BatchResult) {
	cmd.Println(result.Summary())
	switch {
	case result.InPlace && result.Applied == 0:
		cmd.Println("No changes written")
	case result.InPlace:
		cmd.Printf("Updated %s in place\n", result.OutputPath)
	default:
		cmd.Printf("Wrote %s\n", result.OutputPath)
	}
}
