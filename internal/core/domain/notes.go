package domain

import "fmt"

// UpdateRequest replaces the speaker notes of one slide.
type UpdateRequest struct {
	// Slide is the 1-based slide number.
	Slide int `json:"slide_number"`

	// Text is the new notes text. Empty clears the notes.
	Text string `json:"notes_text"`
}

// UpdateBatch is an ordered list of updates committed together.
// Later requests for the same slide override earlier ones.
type UpdateBatch []UpdateRequest

// Slides returns the slide numbers in request order.
func (b UpdateBatch) Slides() []int {
	slides := make([]int, len(b))
	for i := range b {
		slides[i] = b[i].Slide
	}
	return slides
}

// MissPolicy decides what happens to a request whose slide has no notes part.
type MissPolicy string

// Available miss policies.
const (
	// MissSkip drops unresolved requests and reports them as skipped.
	MissSkip MissPolicy = "skip"

	// MissFail aborts the whole batch before anything is written.
	MissFail MissPolicy = "fail"
)

// IsValid returns true if the policy is recognised.
func (p MissPolicy) IsValid() bool {
	return p == MissSkip || p == MissFail
}

// String returns the string representation.
func (p MissPolicy) String() string {
	return string(p)
}

// ApplyOptions controls where and how a batch is committed.
type ApplyOptions struct {
	// InPlace replaces the source file. When false and OutputPath is empty,
	// services derive a sibling output path from NotesSettings.DefaultOutputPath.
	InPlace bool

	// OutputPath is where the new container is written.
	// The orchestrator treats empty, or the source path itself, as in place.
	OutputPath string

	// MissPolicy overrides the configured policy when set.
	MissPolicy MissPolicy
}

// BatchResult summarises a committed batch.
type BatchResult struct {
	// SourcePath is the container that was read.
	SourcePath string `json:"pptx_path"`

	// OutputPath is the container that was written.
	OutputPath string `json:"output_path"`

	// InPlace is true when OutputPath replaced SourcePath.
	InPlace bool `json:"in_place"`

	// Requested is the number of requests in the batch.
	Requested int `json:"requested"`

	// Applied is the number of requests that resolved and were rewritten.
	Applied int `json:"updated_slides"`

	// AppliedSlides lists the slides that were rewritten, in request order.
	AppliedSlides []int `json:"slides"`

	// Skipped lists the slides without a resolvable notes part.
	Skipped []int `json:"skipped,omitempty"`
}

// Summary returns a one-line description suitable for CLI output.
func (r *BatchResult) Summary() string {
	if len(r.Skipped) == 0 {
		return fmt.Sprintf("updated %d of %d slide(s)", r.Applied, r.Requested)
	}
	return fmt.Sprintf("updated %d of %d slide(s), skipped %v: no notes part",
		r.Applied, r.Requested, r.Skipped)
}

// SlideNotes is the notes text read from one slide.
type SlideNotes struct {
	// Slide is the 1-based slide number.
	Slide int `json:"slide_number"`

	// Notes is the plain notes text, paragraphs joined by newlines.
	Notes string `json:"notes"`

	// HasNotes is false when the slide has no notes part.
	HasNotes bool `json:"has_notes"`
}

// NotesFormat selects the layout produced by notes formatting.
type NotesFormat string

// Available notes formats.
const (
	// NotesFormatShortOriginal produces the "- Short version:" / "- Original:" template.
	NotesFormatShortOriginal NotesFormat = "short_original"

	// NotesFormatSimple joins the two texts with a blank line.
	NotesFormatSimple NotesFormat = "simple"
)

// IsValid returns true if the format is recognised.
func (f NotesFormat) IsValid() bool {
	return f == NotesFormatShortOriginal || f == NotesFormatSimple
}

// StructuredNotes is a short/original pair to be formatted and applied.
type StructuredNotes struct {
	// Slide is the 1-based slide number.
	Slide int `json:"slide_number"`

	// Short is the condensed version.
	Short string `json:"short_text"`

	// Original is the full version.
	Original string `json:"original_text"`
}
