package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/services"
)

// ReadNotesInput is the input schema for the read_notes tool.
type ReadNotesInput struct {
	PptxPath    string `json:"pptx_path" jsonschema:"path to the PPTX file"`
	SlideNumber int    `json:"slide_number,omitempty" jsonschema:"slide number (1-indexed); every slide when omitted"`
}

// ReadNotesBatchInput is the input schema for the read_notes_batch tool.
type ReadNotesBatchInput struct {
	PptxPath     string `json:"pptx_path" jsonschema:"path to the PPTX file"`
	SlideNumbers []int  `json:"slide_numbers,omitempty" jsonschema:"slide numbers (1-indexed), e.g. [1, 5, 12]"`
	SlideRange   string `json:"slide_range,omitempty" jsonschema:"inclusive range such as 1-10, alternative to slide_numbers"`
}

// ReadNotesOutput is the output schema for the read tools.
type ReadNotesOutput struct {
	Success     bool                `json:"success"`
	PptxPath    string              `json:"pptx_path"`
	TotalSlides int                 `json:"total_slides"`
	Slides      []domain.SlideNotes `json:"slides"`
}

// UpdateNotesInput is the input schema for the update_notes tool.
type UpdateNotesInput struct {
	PptxPath    string `json:"pptx_path" jsonschema:"path to the PPTX file"`
	SlideNumber int    `json:"slide_number" jsonschema:"slide number (1-indexed)"`
	NotesText   string `json:"notes_text" jsonschema:"new notes text; lines become paragraphs"`
	InPlace     bool   `json:"in_place,omitempty" jsonschema:"replace the source file (default false: write a new file)"`
	OutputPath  string `json:"output_path,omitempty" jsonschema:"output PPTX path when not in place (default {stem}.notes.pptx)"`
	Strict      bool   `json:"strict,omitempty" jsonschema:"fail instead of skipping a slide without a notes part"`
}

// UpdateNotesBatchInput is the input schema for the update_notes_batch tool.
type UpdateNotesBatchInput struct {
	PptxPath   string                 `json:"pptx_path" jsonschema:"path to the PPTX file"`
	Updates    []domain.UpdateRequest `json:"updates" jsonschema:"updates, each with slide_number and notes_text"`
	InPlace    *bool                  `json:"in_place,omitempty" jsonschema:"replace the source file (default true)"`
	OutputPath string                 `json:"output_path,omitempty" jsonschema:"output PPTX path, only used when in_place is false"`
	Strict     bool                   `json:"strict,omitempty" jsonschema:"fail the whole batch if any slide has no notes part"`
}

// FormatNotesInput is the input schema for the format_notes_structure tool.
type FormatNotesInput struct {
	ShortText    string `json:"short_text" jsonschema:"short version text"`
	OriginalText string `json:"original_text" jsonschema:"original or full version text"`
	FormatType   string `json:"format_type,omitempty" jsonschema:"short_original (default) or simple"`
}

// FormatNotesOutput is the output schema for the format_notes_structure tool.
type FormatNotesOutput struct {
	FormattedText string `json:"formatted_text"`
	FormatType    string `json:"format_type"`
}

// ProcessNotesWorkflowInput is the input schema for the process_notes_workflow tool.
type ProcessNotesWorkflowInput struct {
	PptxPath   string                   `json:"pptx_path" jsonschema:"path to the PPTX file"`
	NotesData  []domain.StructuredNotes `json:"notes_data" jsonschema:"pre-processed notes with slide_number, short_text and original_text"`
	InPlace    *bool                    `json:"in_place,omitempty" jsonschema:"replace the source file (default true)"`
	OutputPath string                   `json:"output_path,omitempty" jsonschema:"output PPTX path, only used when in_place is false"`
	Strict     bool                     `json:"strict,omitempty" jsonschema:"fail the whole batch if any slide has no notes part"`
}

// UpdateOutput is the output schema for the update tools.
type UpdateOutput struct {
	Success         bool   `json:"success"`
	PptxPath        string `json:"pptx_path"`
	OutputPath      string `json:"output_path"`
	InPlace         bool   `json:"in_place"`
	UpdatedSlides   int    `json:"updated_slides"`
	Slides          []int  `json:"slides"`
	Skipped         []int  `json:"skipped,omitempty"`
	Workflow        string `json:"workflow,omitempty"`
	FormattedSlides int    `json:"formatted_slides,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_notes",
		Description: "Read speaker notes from one slide, or from every slide when slide_number is omitted",
	}, s.handleReadNotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_notes_batch",
		Description: "Read speaker notes from several slides at once, by list or by range",
	}, s.handleReadNotesBatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "update_notes",
		Description: "Update the speaker notes of one slide. Only the notes part is rewritten; " +
			"every other part of the file is copied byte for byte",
	}, s.handleUpdateNotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "update_notes_batch",
		Description: "Update the speaker notes of several slides in one atomic commit. " +
			"Either every resolvable update is written or the file is left unchanged",
	}, s.handleUpdateNotesBatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "format_notes_structure",
		Description: "Format a short and an original text into the short/original notes template. " +
			"Does not generate content",
	}, s.handleFormatNotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "process_notes_workflow",
		Description: "Validate, format and apply pre-processed short/original notes " +
			"to several slides in one atomic commit",
	}, s.handleProcessNotesWorkflow)
}

// handleReadNotes handles the read_notes tool invocation.
func (s *Server) handleReadNotes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadNotesInput,
) (*mcp.CallToolResult, ReadNotesOutput, error) {
	if err := s.begin("read_notes"); err != nil {
		return nil, ReadNotesOutput{}, err
	}

	var slides []int
	if input.SlideNumber != 0 {
		slides = []int{input.SlideNumber}
	}
	return s.readNotes(ctx, input.PptxPath, slides)
}

// handleReadNotesBatch handles the read_notes_batch tool invocation.
func (s *Server) handleReadNotesBatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadNotesBatchInput,
) (*mcp.CallToolResult, ReadNotesOutput, error) {
	if err := s.begin("read_notes_batch"); err != nil {
		return nil, ReadNotesOutput{}, err
	}

	slides := input.SlideNumbers
	if input.SlideRange != "" {
		if len(slides) > 0 {
			return nil, ReadNotesOutput{}, toolError(fmt.Errorf(
				"%w: give either slide_numbers or slide_range, not both", domain.ErrInvalidInput))
		}
		var err error
		if slides, err = services.ParseSlideRange(input.SlideRange); err != nil {
			return nil, ReadNotesOutput{}, toolError(err)
		}
	}
	return s.readNotes(ctx, input.PptxPath, slides)
}

func (s *Server) readNotes(ctx context.Context, path string, slides []int) (*mcp.CallToolResult, ReadNotesOutput, error) {
	notes, err := s.ports.Notes.ReadNotes(ctx, path, slides)
	if err != nil {
		return nil, ReadNotesOutput{}, toolError(err)
	}
	return nil, ReadNotesOutput{
		Success:     true,
		PptxPath:    path,
		TotalSlides: len(notes),
		Slides:      notes,
	}, nil
}

// handleUpdateNotes handles the update_notes tool invocation.
func (s *Server) handleUpdateNotes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateNotesInput,
) (*mcp.CallToolResult, UpdateOutput, error) {
	if err := s.begin("update_notes"); err != nil {
		return nil, UpdateOutput{}, err
	}

	req := domain.UpdateRequest{Slide: input.SlideNumber, Text: input.NotesText}
	opts := applyOptions(input.InPlace, input.OutputPath, input.Strict)

	result, err := s.ports.Notes.UpdateNotes(ctx, input.PptxPath, req, opts)
	if err != nil {
		return nil, UpdateOutput{}, toolError(err)
	}
	return nil, updateOutput(result), nil
}

// handleUpdateNotesBatch handles the update_notes_batch tool invocation.
func (s *Server) handleUpdateNotesBatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateNotesBatchInput,
) (*mcp.CallToolResult, UpdateOutput, error) {
	if err := s.begin("update_notes_batch"); err != nil {
		return nil, UpdateOutput{}, err
	}

	opts := applyOptions(boolOr(input.InPlace, true), input.OutputPath, input.Strict)
	result, err := s.ports.Notes.UpdateNotesBatch(ctx, input.PptxPath, input.Updates, opts)
	if err != nil {
		return nil, UpdateOutput{}, toolError(err)
	}
	return nil, updateOutput(result), nil
}

// handleFormatNotes handles the format_notes_structure tool invocation.
func (s *Server) handleFormatNotes(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FormatNotesInput,
) (*mcp.CallToolResult, FormatNotesOutput, error) {
	if err := s.begin("format_notes_structure"); err != nil {
		return nil, FormatNotesOutput{}, err
	}

	format := domain.NotesFormat(input.FormatType)
	if format == "" {
		format = domain.NotesFormatShortOriginal
	}
	text, err := s.ports.Notes.FormatNotes(input.ShortText, input.OriginalText, format)
	if err != nil {
		return nil, FormatNotesOutput{}, toolError(err)
	}
	return nil, FormatNotesOutput{FormattedText: text, FormatType: string(format)}, nil
}

// handleProcessNotesWorkflow handles the process_notes_workflow tool invocation.
func (s *Server) handleProcessNotesWorkflow(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessNotesWorkflowInput,
) (*mcp.CallToolResult, UpdateOutput, error) {
	if err := s.begin("process_notes_workflow"); err != nil {
		return nil, UpdateOutput{}, err
	}

	opts := applyOptions(boolOr(input.InPlace, true), input.OutputPath, input.Strict)
	result, err := s.ports.Notes.ApplyStructured(ctx, input.PptxPath, input.NotesData,
		domain.NotesFormatShortOriginal, opts)
	if err != nil {
		return nil, UpdateOutput{}, toolError(err)
	}

	output := updateOutput(result)
	output.Workflow = "process_notes_workflow"
	output.FormattedSlides = len(input.NotesData)
	return nil, output, nil
}

func applyOptions(inPlace bool, outputPath string, strict bool) domain.ApplyOptions {
	opts := domain.ApplyOptions{InPlace: inPlace}
	if !inPlace {
		opts.OutputPath = outputPath
	}
	if strict {
		opts.MissPolicy = domain.MissFail
	}
	return opts
}

func updateOutput(result *domain.BatchResult) UpdateOutput {
	slides := result.AppliedSlides
	if slides == nil {
		slides = []int{}
	}
	return UpdateOutput{
		Success:       true,
		PptxPath:      result.SourcePath,
		OutputPath:    result.OutputPath,
		InPlace:       result.InPlace,
		UpdatedSlides: result.Applied,
		Slides:        slides,
		Skipped:       result.Skipped,
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
