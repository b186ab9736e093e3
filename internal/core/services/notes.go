package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
	"github.com/custodia-labs/notesmith/internal/logger"
	"github.com/custodia-labs/notesmith/internal/pptx/container"
	"github.com/custodia-labs/notesmith/internal/pptx/rels"
	"github.com/custodia-labs/notesmith/internal/pptx/textbody"
)

// Ensure NotesService implements the interface.
var _ driving.NotesService = (*NotesService)(nil)

// NotesService validates requests against the current settings and hands
// updates to the BatchOrchestrator.
type NotesService struct {
	orchestrator *BatchOrchestrator
	settings     driving.SettingsService
}

// NewNotesService creates a new notes service.
// Settings are read on every call so configuration reloads apply immediately.
func NewNotesService(orchestrator *BatchOrchestrator, settings driving.SettingsService) *NotesService {
	return &NotesService{
		orchestrator: orchestrator,
		settings:     settings,
	}
}

// SlideCount returns the number of slides in the presentation.
func (s *NotesService) SlideCount(_ context.Context, path string) (int, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return 0, err
	}
	abs, err := validateSourcePath(path, settings.Security)
	if err != nil {
		return 0, err
	}

	c, err := container.Open(abs)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	return rels.SlideCount(c)
}

// ReadNotes returns the notes of the given slides, or of every slide when
// slides is empty. Slides without a notes part are returned with HasNotes false.
func (s *NotesService) ReadNotes(ctx context.Context, path string, slides []int) ([]domain.SlideNotes, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	abs, err := validateSourcePath(path, settings.Security)
	if err != nil {
		return nil, err
	}

	c, err := container.Open(abs)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	count, err := rels.SlideCount(c)
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 {
		slides = make([]int, count)
		for i := range slides {
			slides[i] = i + 1
		}
	}
	if err := validateSlides(slides, count); err != nil {
		return nil, err
	}

	result := make([]domain.SlideNotes, 0, len(slides))
	for _, slide := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		notes, err := readSlideNotes(c, slide)
		if err != nil {
			return nil, err
		}
		result = append(result, notes)
	}
	return result, nil
}

func readSlideNotes(c *container.Container, slide int) (domain.SlideNotes, error) {
	part, ok, err := rels.ResolveNotesPart(c, slide)
	if err != nil {
		return domain.SlideNotes{}, err
	}
	if !ok {
		return domain.SlideNotes{Slide: slide}, nil
	}

	data, err := c.Read(part)
	if err != nil {
		return domain.SlideNotes{}, err
	}
	text, found, err := textbody.ExtractText(data)
	if err != nil {
		return domain.SlideNotes{}, fmt.Errorf("reading notes of slide %d: %w", slide, err)
	}
	return domain.SlideNotes{Slide: slide, Notes: text, HasNotes: found}, nil
}

// UpdateNotes rewrites the notes of a single slide.
func (s *NotesService) UpdateNotes(
	ctx context.Context,
	path string,
	req domain.UpdateRequest,
	opts domain.ApplyOptions,
) (*domain.BatchResult, error) {
	return s.UpdateNotesBatch(ctx, path, domain.UpdateBatch{req}, opts)
}

// UpdateNotesBatch rewrites several slides in one atomic commit.
//
// Without InPlace or an OutputPath the result is written next to the source
// using the configured suffix, e.g. deck.pptx -> deck.notes.pptx.
func (s *NotesService) UpdateNotesBatch(
	ctx context.Context,
	path string,
	batch domain.UpdateBatch,
	opts domain.ApplyOptions,
) (*domain.BatchResult, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: no updates given", domain.ErrInvalidInput)
	}

	abs, err := validateSourcePath(path, settings.Security)
	if err != nil {
		return nil, err
	}
	if err := validateTextLength(batch, settings.Security.MaxTextLength); err != nil {
		return nil, err
	}

	count, err := s.SlideCount(ctx, abs)
	if err != nil {
		return nil, err
	}
	if err := validateSlides(batch.Slides(), count); err != nil {
		return nil, err
	}

	switch {
	case opts.InPlace:
		opts.OutputPath = ""
	case opts.OutputPath == "":
		opts.OutputPath = settings.Notes.DefaultOutputPath(abs)
		logger.Debug("no output path given, writing %s", opts.OutputPath)
	}
	if opts.OutputPath != "" {
		if opts.OutputPath, err = validateOutputPath(opts.OutputPath, settings.Security); err != nil {
			return nil, err
		}
	}
	if opts.MissPolicy == "" {
		opts.MissPolicy = settings.Notes.MissPolicy
	}

	return s.orchestrator.ApplyBatch(ctx, abs, batch, opts)
}

// ApplyStructured formats short/original pairs and applies them in one atomic commit.
func (s *NotesService) ApplyStructured(
	ctx context.Context,
	path string,
	notes []domain.StructuredNotes,
	format domain.NotesFormat,
	opts domain.ApplyOptions,
) (*domain.BatchResult, error) {
	if len(notes) == 0 {
		return nil, fmt.Errorf("%w: no notes given", domain.ErrInvalidInput)
	}

	batch := make(domain.UpdateBatch, 0, len(notes))
	for i, n := range notes {
		text, err := s.FormatNotes(n.Short, n.Original, format)
		if err != nil {
			return nil, fmt.Errorf("notes %d: %w", i, err)
		}
		batch = append(batch, domain.UpdateRequest{Slide: n.Slide, Text: text})
	}
	return s.UpdateNotesBatch(ctx, path, batch, opts)
}

// FormatNotes builds notes text from a short and an original version.
// An empty format selects the short/original template.
func (s *NotesService) FormatNotes(short, original string, format domain.NotesFormat) (string, error) {
	return textbody.FormatStructure(short, original, format)
}
