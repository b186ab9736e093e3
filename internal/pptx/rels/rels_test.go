package rels

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// mapSource is an in-memory Source.
type mapSource map[string]string

func (m mapSource) Has(name string) bool {
	_, ok := m[name]
	return ok
}

func (m mapSource) Read(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, name)
	}
	return []byte(data), nil
}

func relsXML(rels ...string) string {
	body := ""
	for _, r := range rels {
		body += r
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		body + `</Relationships>`
}

const layoutRel = `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`

func notesRel(target string) string {
	return `<Relationship Id="rId2" Type="` + TypeNotesSlide + `" Target="` + target + `"/>`
}

func TestRelationshipsPath(t *testing.T) {
	assert.Equal(t, "ppt/slides/_rels/slide3.xml.rels", RelationshipsPath("ppt/slides/slide3.xml"))
	assert.Equal(t, "_rels/.rels", RelationshipsPath(""))
	assert.Equal(t, "ppt/_rels/presentation.xml.rels", RelationshipsPath("ppt/presentation.xml"))
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"parent relative", "../notesSlides/notesSlide1.xml", "ppt/notesSlides/notesSlide1.xml"},
		{"sibling", "notes.xml", "ppt/slides/notes.xml"},
		{"dot segments", "./../notesSlides/./notesSlide2.xml", "ppt/notesSlides/notesSlide2.xml"},
		{"backslashes", `..\notesSlides\notesSlide4.xml`, "ppt/notesSlides/notesSlide4.xml"},
		{"absolute", "/ppt/notesSlides/notesSlide5.xml", "ppt/notesSlides/notesSlide5.xml"},
		{"climbs above root", "../../../../x.xml", "x.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTarget("ppt/slides/slide1.xml", tt.target))
		})
	}
}

func TestResolveNotesPart_Found(t *testing.T) {
	src := mapSource{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(layoutRel, notesRel("../notesSlides/notesSlide1.xml")),
		"ppt/notesSlides/notesSlide1.xml":  "<p:notes/>",
	}

	part, ok, err := ResolveNotesPart(src, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ppt/notesSlides/notesSlide1.xml", part)
}

func TestResolveNotesPart_NoRelsPart(t *testing.T) {
	part, ok, err := ResolveNotesPart(mapSource{}, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, part)
}

func TestResolveNotesPart_NoNotesRelationship(t *testing.T) {
	src := mapSource{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(layoutRel),
	}

	_, ok, err := ResolveNotesPart(src, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveNotesPart_ExternalIgnored(t *testing.T) {
	external := `<Relationship Id="rId9" Type="` + TypeNotesSlide +
		`" Target="https://example.com/notes.xml" TargetMode="External"/>`
	src := mapSource{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(external, notesRel("../notesSlides/notesSlide1.xml")),
		"ppt/notesSlides/notesSlide1.xml":  "<p:notes/>",
	}

	part, ok, err := ResolveNotesPart(src, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ppt/notesSlides/notesSlide1.xml", part)
}

func TestResolveNotesPart_TargetMissing(t *testing.T) {
	src := mapSource{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(notesRel("../notesSlides/notesSlide1.xml")),
	}

	_, ok, err := ResolveNotesPart(src, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveNotesPart_MalformedRels(t *testing.T) {
	src := mapSource{
		"ppt/slides/_rels/slide1.xml.rels": "<Relationships><Relationship",
	}

	_, ok, err := ResolveNotesPart(src, 1)
	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrContainerUnreadable)
	assert.Contains(t, err.Error(), "slide1.xml.rels")
}

func TestSlideCount(t *testing.T) {
	src := mapSource{
		PresentationPart: `<?xml version="1.0" encoding="UTF-8"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
  xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId2"/>
    <p:sldId id="257" r:id="rId3"/>
    <p:sldId id="258" r:id="rId4"/>
  </p:sldIdLst>
</p:presentation>`,
	}

	count, err := SlideCount(src)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSlideCount_MissingPresentation(t *testing.T) {
	_, err := SlideCount(mapSource{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
