package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/pptx/pptxtest"
)

func TestServer_handleReadNotes(t *testing.T) {
	ctx := context.Background()
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx",
		pptxtest.WithNotes("one"), pptxtest.WithoutNotes(), pptxtest.WithNotes("three"))
	server := newTestServer(t, nil)

	t.Run("every slide", func(t *testing.T) {
		_, output, err := server.handleReadNotes(ctx, nil, ReadNotesInput{PptxPath: deck})

		require.NoError(t, err)
		assert.True(t, output.Success)
		assert.Equal(t, 3, output.TotalSlides)
		assert.Equal(t, "one", output.Slides[0].Notes)
		assert.False(t, output.Slides[1].HasNotes)
	})

	t.Run("one slide", func(t *testing.T) {
		_, output, err := server.handleReadNotes(ctx, nil, ReadNotesInput{PptxPath: deck, SlideNumber: 3})

		require.NoError(t, err)
		require.Len(t, output.Slides, 1)
		assert.Equal(t, "three", output.Slides[0].Notes)
	})

	t.Run("slide out of range", func(t *testing.T) {
		_, _, err := server.handleReadNotes(ctx, nil, ReadNotesInput{PptxPath: deck, SlideNumber: 4})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidSlide)
		assert.Contains(t, err.Error(), "INVALID_SLIDE_NUMBER")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := server.handleReadNotes(ctx, nil, ReadNotesInput{PptxPath: filepath.Join(t.TempDir(), "x.pptx")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "FILE_NOT_FOUND")
	})
}

func TestServer_handleReadNotesBatch(t *testing.T) {
	ctx := context.Background()
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx",
		pptxtest.WithNotes("1"), pptxtest.WithNotes("2"), pptxtest.WithNotes("3"), pptxtest.WithNotes("4"))
	server := newTestServer(t, nil)

	_, output, err := server.handleReadNotesBatch(ctx, nil, ReadNotesBatchInput{PptxPath: deck, SlideRange: "2-3"})
	require.NoError(t, err)
	require.Len(t, output.Slides, 2)
	assert.Equal(t, 2, output.Slides[0].Slide)
	assert.Equal(t, "3", output.Slides[1].Notes)

	_, output, err = server.handleReadNotesBatch(ctx, nil, ReadNotesBatchInput{PptxPath: deck, SlideNumbers: []int{4, 1}})
	require.NoError(t, err)
	assert.Equal(t, "4", output.Slides[0].Notes)

	_, _, err = server.handleReadNotesBatch(ctx, nil, ReadNotesBatchInput{
		PptxPath: deck, SlideNumbers: []int{1}, SlideRange: "1-2",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = server.handleReadNotesBatch(ctx, nil, ReadNotesBatchInput{PptxPath: deck, SlideRange: "3-9"})
	assert.ErrorIs(t, err, domain.ErrInvalidSlide)
}

func TestServer_handleUpdateNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("writes a new file by default", func(t *testing.T) {
		dir := t.TempDir()
		deck := pptxtest.Write(t, dir, "deck.pptx", pptxtest.WithNotes("old"))
		server := newTestServer(t, nil)

		_, output, err := server.handleUpdateNotes(ctx, nil, UpdateNotesInput{
			PptxPath: deck, SlideNumber: 1, NotesText: "new",
		})

		require.NoError(t, err)
		assert.False(t, output.InPlace)
		assert.Equal(t, filepath.Join(dir, "deck.notes.pptx"), output.OutputPath)
		assert.Equal(t, []int{1}, output.Slides)

		text, _ := pptxtest.ReadNotes(t, output.OutputPath, 1)
		assert.Equal(t, "new", text)
		text, _ = pptxtest.ReadNotes(t, deck, 1)
		assert.Equal(t, "old", text)
	})

	t.Run("explicit output path", func(t *testing.T) {
		dir := t.TempDir()
		deck := pptxtest.Write(t, dir, "deck.pptx", pptxtest.WithNotes("old"))
		out := filepath.Join(dir, "final.pptx")
		server := newTestServer(t, nil)

		_, output, err := server.handleUpdateNotes(ctx, nil, UpdateNotesInput{
			PptxPath: deck, SlideNumber: 1, NotesText: "new", OutputPath: out,
		})

		require.NoError(t, err)
		assert.Equal(t, out, output.OutputPath)
	})

	t.Run("strict fails on slide without notes", func(t *testing.T) {
		deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithoutNotes())
		server := newTestServer(t, nil)

		_, _, err := server.handleUpdateNotes(ctx, nil, UpdateNotesInput{
			PptxPath: deck, SlideNumber: 1, NotesText: "x", InPlace: true, Strict: true,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOTES_NOT_FOUND")
	})

	t.Run("skip reports the slide", func(t *testing.T) {
		deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithoutNotes())
		server := newTestServer(t, nil)

		_, output, err := server.handleUpdateNotes(ctx, nil, UpdateNotesInput{
			PptxPath: deck, SlideNumber: 1, NotesText: "x", InPlace: true,
		})

		require.NoError(t, err)
		assert.Equal(t, 0, output.UpdatedSlides)
		assert.Equal(t, []int{}, output.Slides)
		assert.Equal(t, []int{1}, output.Skipped)
	})
}

func TestServer_handleUpdateNotesBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("in place by default", func(t *testing.T) {
		deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"), pptxtest.WithNotes("b"))
		server := newTestServer(t, nil)

		_, output, err := server.handleUpdateNotesBatch(ctx, nil, UpdateNotesBatchInput{
			PptxPath: deck,
			Updates:  []domain.UpdateRequest{{Slide: 1, Text: "A"}, {Slide: 2, Text: "B"}},
		})

		require.NoError(t, err)
		assert.True(t, output.InPlace)
		assert.Equal(t, 2, output.UpdatedSlides)
		text, _ := pptxtest.ReadNotes(t, deck, 2)
		assert.Equal(t, "B", text)
	})

	t.Run("in place false writes a copy", func(t *testing.T) {
		dir := t.TempDir()
		deck := pptxtest.Write(t, dir, "deck.pptx", pptxtest.WithNotes("a"))
		server := newTestServer(t, nil)

		_, output, err := server.handleUpdateNotesBatch(ctx, nil, UpdateNotesBatchInput{
			PptxPath: deck,
			Updates:  []domain.UpdateRequest{{Slide: 1, Text: "A"}},
			InPlace:  ptr(false),
		})

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "deck.notes.pptx"), output.OutputPath)
		_, err = os.Stat(output.OutputPath)
		assert.NoError(t, err)
	})

	t.Run("invalid slide leaves file untouched", func(t *testing.T) {
		deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"))
		before := pptxtest.Digests(t, deck)
		server := newTestServer(t, nil)

		_, _, err := server.handleUpdateNotesBatch(ctx, nil, UpdateNotesBatchInput{
			PptxPath: deck,
			Updates:  []domain.UpdateRequest{{Slide: 1, Text: "A"}, {Slide: 2, Text: "B"}},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID_SLIDE_NUMBER")
		assert.Equal(t, before, pptxtest.Digests(t, deck))
	})

	t.Run("rate limited", func(t *testing.T) {
		deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"))
		server := newTestServer(t, map[string]any{
			"performance.enable_rate_limiting":    true,
			"performance.max_requests_per_minute": int64(1),
		})
		input := UpdateNotesBatchInput{PptxPath: deck, Updates: []domain.UpdateRequest{{Slide: 1, Text: "A"}}}

		_, _, err := server.handleUpdateNotesBatch(ctx, nil, input)
		require.NoError(t, err)
		_, _, err = server.handleUpdateNotesBatch(ctx, nil, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_EXCEEDED")
	})
}

func TestServer_handleFormatNotes(t *testing.T) {
	server := newTestServer(t, nil)

	_, output, err := server.handleFormatNotes(context.Background(), nil, FormatNotesInput{
		ShortText: "brief", OriginalText: "full",
	})
	require.NoError(t, err)
	assert.Equal(t, "- Short version:\nbrief\n\n- Original:\nfull", output.FormattedText)
	assert.Equal(t, "short_original", output.FormatType)

	_, output, err = server.handleFormatNotes(context.Background(), nil, FormatNotesInput{
		ShortText: "brief", OriginalText: "full", FormatType: "simple",
	})
	require.NoError(t, err)
	assert.Equal(t, "brief\n\nfull", output.FormattedText)

	_, _, err = server.handleFormatNotes(context.Background(), nil, FormatNotesInput{FormatType: "fancy"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleProcessNotesWorkflow(t *testing.T) {
	ctx := context.Background()
	deck := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.WithNotes("a"), pptxtest.WithNotes("b"))
	server := newTestServer(t, nil)

	_, output, err := server.handleProcessNotesWorkflow(ctx, nil, ProcessNotesWorkflowInput{
		PptxPath: deck,
		NotesData: []domain.StructuredNotes{
			{Slide: 2, Short: "s2", Original: "o2"},
			{Slide: 1, Short: "s1", Original: "o1"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "process_notes_workflow", output.Workflow)
	assert.Equal(t, 2, output.FormattedSlides)
	assert.True(t, output.InPlace)
	assert.Equal(t, []int{2, 1}, output.Slides)

	text, _ := pptxtest.ReadNotes(t, deck, 1)
	assert.Equal(t, "- Short version:\ns1\n\n- Original:\no1", text)

	_, _, err = server.handleProcessNotesWorkflow(ctx, nil, ProcessNotesWorkflowInput{PptxPath: deck})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
