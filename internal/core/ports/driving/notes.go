package driving

import (
	"context"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// NotesService reads and rewrites speaker notes in presentation files.
type NotesService interface {
	// SlideCount returns the number of slides in the presentation.
	SlideCount(ctx context.Context, path string) (int, error)

	// ReadNotes returns the notes of the given slides, or of every slide
	// when slides is empty.
	ReadNotes(ctx context.Context, path string, slides []int) ([]domain.SlideNotes, error)

	// UpdateNotes rewrites the notes of a single slide.
	UpdateNotes(ctx context.Context, path string, req domain.UpdateRequest, opts domain.ApplyOptions) (*domain.BatchResult, error)

	// UpdateNotesBatch rewrites several slides in one atomic commit.
	UpdateNotesBatch(ctx context.Context, path string, batch domain.UpdateBatch, opts domain.ApplyOptions) (*domain.BatchResult, error)

	// ApplyStructured formats short/original pairs and applies them in one atomic commit.
	ApplyStructured(
		ctx context.Context,
		path string,
		notes []domain.StructuredNotes,
		format domain.NotesFormat,
		opts domain.ApplyOptions,
	) (*domain.BatchResult, error)

	// FormatNotes builds notes text from a short and an original version.
	FormatNotes(short, original string, format domain.NotesFormat) (string, error)
}
