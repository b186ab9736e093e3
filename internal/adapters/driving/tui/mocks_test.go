package tui

import (
	"context"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
)

// mockNotesService implements driving.NotesService for TUI tests.
type mockNotesService struct {
	notes     []domain.SlideNotes
	readErr   error
	updateErr error

	updates []domain.UpdateRequest
	opts    []domain.ApplyOptions
}

var _ driving.NotesService = (*mockNotesService)(nil)

func (m *mockNotesService) SlideCount(context.Context, string) (int, error) {
	return len(m.notes), m.readErr
}

func (m *mockNotesService) ReadNotes(context.Context, string, []int) ([]domain.SlideNotes, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.notes, nil
}

func (m *mockNotesService) UpdateNotes(
	_ context.Context, path string, req domain.UpdateRequest, opts domain.ApplyOptions,
) (*domain.BatchResult, error) {
	m.updates = append(m.updates, req)
	m.opts = append(m.opts, opts)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &domain.BatchResult{
		SourcePath:    path,
		OutputPath:    path,
		InPlace:       true,
		Requested:     1,
		Applied:       1,
		AppliedSlides: []int{req.Slide},
	}, nil
}

func (m *mockNotesService) UpdateNotesBatch(
	context.Context, string, domain.UpdateBatch, domain.ApplyOptions,
) (*domain.BatchResult, error) {
	return &domain.BatchResult{}, nil
}

func (m *mockNotesService) ApplyStructured(
	context.Context, string, []domain.StructuredNotes, domain.NotesFormat, domain.ApplyOptions,
) (*domain.BatchResult, error) {
	return &domain.BatchResult{}, nil
}

func (m *mockNotesService) FormatNotes(short, original string, _ domain.NotesFormat) (string, error) {
	return short + "\n" + original, nil
}
