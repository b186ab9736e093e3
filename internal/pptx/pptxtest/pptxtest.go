// Package pptxtest builds minimal presentation packages for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/pptx/container"
	"github.com/custodia-labs/notesmith/internal/pptx/rels"
	"github.com/custodia-labs/notesmith/internal/pptx/textbody"
)

// Modified is the timestamp stamped on every generated entry.
var Modified = time.Date(2023, 11, 2, 9, 30, 0, 0, time.UTC)

// Slide describes one generated slide.
type Slide struct {
	// Notes is the initial notes text, one paragraph per line.
	Notes string

	// NoNotes omits the notes part and its relationship.
	NoNotes bool
}

// WithNotes returns a slide whose notes part holds text.
func WithNotes(text string) Slide {
	return Slide{Notes: text}
}

// WithoutNotes returns a slide without a notes part.
func WithoutNotes() Slide {
	return Slide{NoNotes: true}
}

// Build returns the bytes of a presentation with the given slides.
func Build(t testing.TB, slides ...Slide) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name string, method uint16, data string) {
		fh := &zip.FileHeader{Name: name, Method: method, Modified: Modified}
		w, err := zw.CreateHeader(fh)
		require.NoError(t, err)
		_, err = io.WriteString(w, data)
		require.NoError(t, err)
	}

	add("[Content_Types].xml", zip.Deflate, contentTypes(slides))
	add("_rels/.rels", zip.Deflate, packageRels)
	add("docProps/core.xml", zip.Deflate, coreProps)
	add("ppt/presentation.xml", zip.Deflate, presentation(len(slides)))
	add("ppt/_rels/presentation.xml.rels", zip.Deflate, presentationRels(len(slides)))
	for i, s := range slides {
		n := i + 1
		add(fmt.Sprintf("ppt/slides/slide%d.xml", n), zip.Deflate, slideXML(n))
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), zip.Deflate, slideRels(n, !s.NoNotes))
		if !s.NoNotes {
			add(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), zip.Deflate, NotesXML(s.Notes))
			add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), zip.Deflate, notesRels(n))
		}
	}
	add("ppt/media/image1.png", zip.Store, "\x89PNG\r\n\x1a\nnot really an image")

	require.NoError(t, zw.SetComment("generated by pptxtest"))
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// Write builds a presentation and writes it to dir/name.
func Write(t testing.TB, dir, name string, slides ...Slide) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, Build(t, slides...), 0o644))
	return path
}

// ReplaceEntry writes a copy of the presentation at path with entry name
// replaced by content, and returns the copy's path.
func ReplaceEntry(t testing.TB, path, name, content string) string {
	t.Helper()

	c, err := container.Open(path)
	require.NoError(t, err)
	defer c.Close()

	var buf bytes.Buffer
	require.NoError(t, container.Rewrite(c, &buf, map[string][]byte{name: []byte(content)}))

	ext := filepath.Ext(path)
	out := strings.TrimSuffix(path, ext) + ".replaced" + ext
	require.NoError(t, os.WriteFile(out, buf.Bytes(), 0o644))
	return out
}

// ReadNotes returns the notes text of slide in the presentation at path.
// The second result is false when the slide has no notes part.
func ReadNotes(t testing.TB, path string, slide int) (string, bool) {
	t.Helper()

	c, err := container.Open(path)
	require.NoError(t, err)
	defer c.Close()

	part, ok, err := rels.ResolveNotesPart(c, slide)
	require.NoError(t, err)
	if !ok {
		return "", false
	}
	data, err := c.Read(part)
	require.NoError(t, err)
	text, _, err := textbody.ExtractText(data)
	require.NoError(t, err)
	return text, true
}

// Digests returns the CRC-32 of every entry's payload, keyed by name.
func Digests(t testing.TB, path string) map[string]uint32 {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	digests := make(map[string]uint32, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		digests[f.Name] = crc32.ChecksumIEEE(data)
	}
	return digests
}

// Names returns entry names in physical order.
func Names(t testing.TB, path string) []string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

// NotesXML returns a notes slide part whose body placeholder holds text.
func NotesXML(text string) string {
	var paras strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			paras.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
			continue
		}
		fmt.Fprintf(&paras, `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, escape(line))
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/><p:cNvSpPr/>` +
		`<p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/><p:cNvSpPr/>` +
		`<p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/>` + paras.String() + `</p:txBody></p:sp>` +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func contentTypes(slides []Slide) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`<Override PartName="/ppt/presentation.xml" ` +
		`ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i, s := range slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" `+
			`ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
		if !s.NoNotes {
			fmt.Fprintf(&b, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" `+
				`ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i+1)
		}
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" ` +
	`Target="ppt/presentation.xml"/></Relationships>`

const coreProps = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Fixture</dc:title></cp:coreProperties>`

func presentation(count int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:presentation xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst>`)
	for i := range count {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+1)
	}
	b.WriteString(`</p:sldIdLst><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`)
	return b.String()
}

func presentationRels(count int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range count {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+1, rels.TypeSlide, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideXML(n int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" `+
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`+
		`<p:sp><p:txBody><a:bodyPr/><a:p><a:r><a:t>Slide %d title</a:t></a:r></a:p></p:txBody></p:sp>`+
		`</p:spTree></p:cSld></p:sld>`, n)
}

func slideRels(n int, withNotes bool) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" ` +
		`Target="../slideLayouts/slideLayout1.xml"/>`)
	if withNotes {
		fmt.Fprintf(&b, `<Relationship Id="rId2" Type="%s" Target="../notesSlides/notesSlide%d.xml"/>`, rels.TypeNotesSlide, n)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func notesRels(n int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="%s" Target="../slides/slide%d.xml"/></Relationships>`, rels.TypeSlide, n)
}
