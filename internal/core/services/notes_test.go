package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/pptx/pptxtest"
)

func newNotesService(t *testing.T, config map[string]any) *NotesService {
	t.Helper()
	settings := NewSettingsService(memory.NewConfigStoreWith(config))
	return NewNotesService(NewBatchOrchestrator(file.NewCommitter()), settings)
}

func TestNotesService_SlideCount(t *testing.T) {
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx",
		pptxtest.WithNotes("a"), pptxtest.WithoutNotes(), pptxtest.WithNotes("c"))

	count, err := newNotesService(t, nil).SlideCount(context.Background(), deck)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNotesService_ReadNotes(t *testing.T) {
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx",
		pptxtest.WithNotes("first\nsecond"), pptxtest.WithoutNotes(), pptxtest.WithNotes("third"))
	svc := newNotesService(t, nil)

	all, err := svc.ReadNotes(context.Background(), deck, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.SlideNotes{
		{Slide: 1, Notes: "first\nsecond", HasNotes: true},
		{Slide: 2},
		{Slide: 3, Notes: "third", HasNotes: true},
	}, all)

	some, err := svc.ReadNotes(context.Background(), deck, []int{3, 1})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, 3, some[0].Slide)
	assert.Equal(t, 1, some[1].Slide)

	_, err = svc.ReadNotes(context.Background(), deck, []int{4})
	assert.ErrorIs(t, err, domain.ErrInvalidSlide)
}

func TestNotesService_UpdateNotes_DefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	deck := pptxtest.Write(t, dir, "deck.pptx", pptxtest.WithNotes("Hello"))
	original, err := os.ReadFile(deck)
	require.NoError(t, err)

	result, err := newNotesService(t, nil).UpdateNotes(context.Background(), deck,
		domain.UpdateRequest{Slide: 1, Text: "Bonjour"}, domain.ApplyOptions{})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "deck.notes.pptx"), result.OutputPath)
	assert.False(t, result.InPlace)

	unchanged, err := os.ReadFile(deck)
	require.NoError(t, err)
	assert.Equal(t, original, unchanged)

	text, _ := pptxtest.ReadNotes(t, result.OutputPath, 1)
	assert.Equal(t, "Bonjour", text)
}

func TestNotesService_UpdateNotes_ConfiguredSuffix(t *testing.T) {
	dir := t.TempDir()
	deck := pptxtest.Write(t, dir, "deck.pptx", pptxtest.WithNotes("Hello"))

	result, err := newNotesService(t, map[string]any{"notes.default_suffix": ".edited"}).UpdateNotes(
		context.Background(), deck, domain.UpdateRequest{Slide: 1, Text: "x"}, domain.ApplyOptions{})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "deck.edited.pptx"), result.OutputPath)
}

func TestNotesService_UpdateNotesBatch_InPlace(t *testing.T) {
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"), pptxtest.WithNotes("b"))

	result, err := newNotesService(t, nil).UpdateNotesBatch(context.Background(), deck,
		domain.UpdateBatch{{Slide: 2, Text: "B"}, {Slide: 1, Text: "A"}},
		domain.ApplyOptions{InPlace: true, OutputPath: "ignored.pptx"})

	require.NoError(t, err)
	assert.True(t, result.InPlace)
	assert.Equal(t, []int{2, 1}, result.AppliedSlides)

	text, _ := pptxtest.ReadNotes(t, deck, 1)
	assert.Equal(t, "A", text)
	text, _ = pptxtest.ReadNotes(t, deck, 2)
	assert.Equal(t, "B", text)
}

func TestNotesService_UpdateNotesBatch_ConfiguredMissPolicy(t *testing.T) {
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"), pptxtest.WithoutNotes())
	svc := newNotesService(t, map[string]any{"notes.miss_policy": "fail"})

	_, err := svc.UpdateNotesBatch(context.Background(), deck,
		domain.UpdateBatch{{Slide: 2, Text: "x"}}, domain.ApplyOptions{InPlace: true})
	assert.ErrorIs(t, err, domain.ErrNotesPartMissing)

	result, err := svc.UpdateNotesBatch(context.Background(), deck,
		domain.UpdateBatch{{Slide: 2, Text: "x"}}, domain.ApplyOptions{InPlace: true, MissPolicy: domain.MissSkip})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, result.Skipped)
}

func TestNotesService_UpdateNotesBatch_Validation(t *testing.T) {
	dir := t.TempDir()
	deck := pptxtest.Write(t, dir, "deck.pptx", pptxtest.WithNotes("a"))
	docx := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(docx, []byte("x"), 0o644))

	tests := []struct {
		name    string
		config  map[string]any
		path    string
		batch   domain.UpdateBatch
		opts    domain.ApplyOptions
		wantErr error
	}{
		{
			name:    "slide beyond count",
			path:    deck,
			batch:   domain.UpdateBatch{{Slide: 2, Text: "x"}},
			wantErr: domain.ErrInvalidSlide,
		},
		{
			name:    "empty batch",
			path:    deck,
			batch:   domain.UpdateBatch{},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.pptx"),
			batch:   domain.UpdateBatch{{Slide: 1, Text: "x"}},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "wrong extension",
			path:    docx,
			batch:   domain.UpdateBatch{{Slide: 1, Text: "x"}},
			wantErr: domain.ErrUnsupportedExtension,
		},
		{
			name:    "output with wrong extension",
			path:    deck,
			batch:   domain.UpdateBatch{{Slide: 1, Text: "x"}},
			opts:    domain.ApplyOptions{OutputPath: filepath.Join(dir, "out.zip")},
			wantErr: domain.ErrUnsupportedExtension,
		},
		{
			name:    "text too long",
			config:  map[string]any{"security.max_text_length": int64(3)},
			path:    deck,
			batch:   domain.UpdateBatch{{Slide: 1, Text: "four"}},
			wantErr: domain.ErrInputTooLarge,
		},
		{
			name:    "file too large",
			config:  map[string]any{"security.max_file_size": int64(10)},
			path:    deck,
			batch:   domain.UpdateBatch{{Slide: 1, Text: "x"}},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:    "outside workspace",
			config:  map[string]any{"security.workspace_dirs": []string{filepath.Join(dir, "sub")}},
			path:    deck,
			batch:   domain.UpdateBatch{{Slide: 1, Text: "x"}},
			wantErr: domain.ErrOutsideWorkspace,
		},
		{
			name:    "path too long",
			config:  map[string]any{"security.max_path_length": int64(5)},
			path:    deck,
			batch:   domain.UpdateBatch{{Slide: 1, Text: "x"}},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newNotesService(t, tt.config).UpdateNotesBatch(context.Background(), tt.path, tt.batch, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNotesService_WorkspaceBoundaryDisabled(t *testing.T) {
	dir := t.TempDir()
	deck := pptxtest.Write(t, dir, "deck.pptx", pptxtest.WithNotes("a"))

	svc := newNotesService(t, map[string]any{
		"security.workspace_dirs":             []string{filepath.Join(dir, "elsewhere")},
		"security.enforce_workspace_boundary": false,
	})
	_, err := svc.SlideCount(context.Background(), deck)
	assert.NoError(t, err)

	svc = newNotesService(t, map[string]any{"security.workspace_dirs": []string{dir}})
	_, err = svc.SlideCount(context.Background(), deck)
	assert.NoError(t, err)
}

func TestNotesService_ApplyStructured(t *testing.T) {
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"), pptxtest.WithNotes("b"))
	svc := newNotesService(t, nil)

	result, err := svc.ApplyStructured(context.Background(), deck, []domain.StructuredNotes{
		{Slide: 1, Short: "brief one", Original: "long one"},
		{Slide: 2, Short: "brief two", Original: "long two"},
	}, domain.NotesFormatShortOriginal, domain.ApplyOptions{InPlace: true})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)

	text, _ := pptxtest.ReadNotes(t, deck, 2)
	assert.Equal(t, "- Short version:\nbrief two\n\n- Original:\nlong two", text)

	_, err = svc.ApplyStructured(context.Background(), deck, nil, domain.NotesFormatSimple, domain.ApplyOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.ApplyStructured(context.Background(), deck,
		[]domain.StructuredNotes{{Slide: 1, Short: "s", Original: "o"}}, "fancy", domain.ApplyOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNotesService_FormatNotes(t *testing.T) {
	svc := newNotesService(t, nil)

	text, err := svc.FormatNotes("s", "o", domain.NotesFormatSimple)
	require.NoError(t, err)
	assert.Equal(t, "s\n\no", text)

	text, err = svc.FormatNotes("s", "o", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "- Short version:\n"))
}
