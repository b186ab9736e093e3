// Package textbody rewrites the speaker-notes text body of a notes slide part.
//
// The rewrite works on the raw bytes: the document is tokenised once to find
// the target text body and its paragraphs, and the result is spliced together
// from the untouched source bytes plus freshly generated paragraphs. Nothing
// outside the replaced paragraphs is re-serialised.
package textbody

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// Declaration is prepended when the source part has no XML declaration.
const Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Line prefixes of the short/original notes template. Runs of lines starting
// with either marker are bold.
const (
	MarkerShort    = "- Short version:"
	MarkerOriginal = "- Original:"
)

// shapeMatcher selects the shape holding the notes text.
type shapeMatcher func(*shape) bool

// matchers are tried in order; the first shape accepted by the earliest
// matcher wins.
var matchers = []shapeMatcher{
	func(s *shape) bool { return s.bodyPlaceholder },
	func(s *shape) bool { return s.body != nil },
}

func (d *document) selectBody() *textBody {
	for _, match := range matchers {
		for _, s := range d.shapes {
			if match(s) {
				return s.body
			}
		}
	}
	return nil
}

// Rewrite replaces the paragraphs of the notes text body in src with one
// paragraph per line of text.
//
// When no suitable text body exists src is returned unchanged. Body-level
// siblings such as a:bodyPr and a:lstStyle are kept. The result always
// carries an XML declaration and is identical for identical inputs.
func Rewrite(src []byte, text string) ([]byte, error) {
	doc, err := scan(src)
	if err != nil {
		return nil, fmt.Errorf("%w: notes xml: %w", domain.ErrContainerUnreadable, err)
	}

	body := doc.selectBody()
	if body == nil {
		return src, nil
	}

	out := new(bytes.Buffer)
	out.Grow(len(src) + len(text) + 256)
	if !doc.hasDecl {
		out.WriteString(Declaration)
	}

	if body.selfClosing {
		tag := bytes.TrimSuffix(src[body.open.start:body.open.end], []byte("/>"))
		out.Write(src[:body.open.start])
		out.Write(bytes.TrimRightFunc(tag, unicode.IsSpace))
		out.WriteByte('>')
		writeParagraphs(out, body, text)
		out.WriteString("</" + body.qualifiedName() + ">")
		out.Write(src[body.open.end:])
		return out.Bytes(), nil
	}

	cursor := 0
	for _, p := range body.paragraphs {
		out.Write(src[cursor:p.start])
		cursor = p.end
	}
	out.Write(src[cursor:body.close.start])
	writeParagraphs(out, body, text)
	out.Write(src[body.close.start:])
	return out.Bytes(), nil
}

// Lines normalises text into paragraph lines.
// CRLF and CR become LF, other control characters except tab become LF,
// and an empty text yields a single empty line.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' {
			return '\n'
		}
		return r
	}, text)
	return strings.Split(text, "\n")
}

// IsBoldLine reports whether line starts with a template marker.
func IsBoldLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, MarkerShort) || strings.HasPrefix(trimmed, MarkerOriginal)
}

func cleanLine(line string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
}

func writeParagraphs(out *bytes.Buffer, body *textBody, text string) {
	q := func(local string) string {
		if body.drawingPrefix == "" {
			return local
		}
		return body.drawingPrefix + ":" + local
	}

	for _, line := range Lines(text) {
		out.WriteString("<" + q("p"))
		if !body.drawingBound {
			out.WriteString(` xmlns:` + body.drawingPrefix + `="` + NamespaceDrawing + `"`)
		}
		out.WriteString("><" + q("r") + ">")
		if IsBoldLine(line) {
			out.WriteString("<" + q("rPr") + ` b="1"/>`)
		}
		out.WriteString("<" + q("t") + ` xml:space="preserve">`)
		// EscapeText only fails when the writer does.
		_ = xml.EscapeText(out, []byte(cleanLine(line)))
		out.WriteString("</" + q("t") + "></" + q("r") + "></" + q("p") + ">")
	}
}
