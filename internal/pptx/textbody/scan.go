package textbody

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
)

// XML namespaces used by notes slides.
const (
	NamespacePresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NamespaceDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

// span is a half-open byte range into the source document.
type span struct {
	start, end int
}

// frame is an open element on the scan stack.
type frame struct {
	prefix string
	local  string
	space  string
	decls  map[string]string
}

// textBody records where a shape's text body sits in the source.
type textBody struct {
	prefix      string
	local       string
	open        span
	close       span
	selfClosing bool

	// paragraphs are the direct a:p children, each extended over the
	// whitespace that immediately follows it.
	paragraphs []span

	// drawingPrefix is bound to the DrawingML namespace inside the body.
	// When drawingBound is false new paragraphs must declare it.
	drawingPrefix string
	drawingBound  bool
}

func (b *textBody) qualifiedName() string {
	if b.prefix == "" {
		return b.local
	}
	return b.prefix + ":" + b.local
}

// shape is one p:sp element.
type shape struct {
	bodyPlaceholder bool
	body            *textBody
}

// document is the scan result of a notes part.
type document struct {
	src     []byte
	hasDecl bool
	shapes  []*shape
}

var errUnbalanced = errors.New("unbalanced element tags")

// scan walks src once and records every shape and its first text body.
func scan(src []byte) (*document, error) {
	d := xml.NewDecoder(bytes.NewReader(src))
	doc := &document{src: src}

	var (
		stack     []frame
		shapes    []*shape
		body      *textBody
		bodyDepth int
		paraStart = -1
	)

	for {
		start := int(d.InputOffset())
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		end := int(d.InputOffset())

		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" {
				doc.hasDecl = true
			}

		case xml.StartElement:
			stack = append(stack, frame{
				prefix: t.Name.Space,
				local:  t.Name.Local,
				decls:  declarations(t.Attr),
			})
			top := &stack[len(stack)-1]
			top.space = resolve(stack, top.prefix)

			switch {
			case top.is(NamespacePresentation, "sp"):
				s := &shape{}
				shapes = append(shapes, s)
				doc.shapes = append(doc.shapes, s)

			case top.is(NamespacePresentation, "ph") && len(shapes) > 0 && underShape(stack):
				if attr(t.Attr, "type") == "body" {
					shapes[len(shapes)-1].bodyPlaceholder = true
				}

			case top.local == "txBody" && (top.space == NamespacePresentation || top.space == NamespaceDrawing) &&
				len(shapes) > 0 && shapes[len(shapes)-1].body == nil && body == nil:
				body = &textBody{prefix: top.prefix, local: top.local, open: span{start, end}}
				body.drawingPrefix, body.drawingBound = drawingPrefix(stack)
				bodyDepth = len(stack)
				shapes[len(shapes)-1].body = body

			case body != nil && len(stack) == bodyDepth+1 && top.is(NamespaceDrawing, "p"):
				paraStart = start
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errUnbalanced
			}
			top := stack[len(stack)-1]
			if top.prefix != t.Name.Space || top.local != t.Name.Local {
				return nil, fmt.Errorf("%w: <%s> closed by </%s>", errUnbalanced, top.local, t.Name.Local)
			}

			switch {
			case body != nil && len(stack) == bodyDepth+1 && paraStart >= 0 && top.is(NamespaceDrawing, "p"):
				body.paragraphs = append(body.paragraphs, span{paraStart, end})
				paraStart = -1

			case body != nil && len(stack) == bodyDepth:
				body.close = span{start, end}
				body.selfClosing = start == end
				body = nil

			case top.is(NamespacePresentation, "sp") && len(shapes) > 0:
				shapes = shapes[:len(shapes)-1]
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if body == nil || len(stack) != bodyDepth || len(bytes.TrimSpace(t)) != 0 {
				continue
			}
			if n := len(body.paragraphs); n > 0 && body.paragraphs[n-1].end == start {
				body.paragraphs[n-1].end = end
			}
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: %d element(s) left open", errUnbalanced, len(stack))
	}
	return doc, nil
}

func (f *frame) is(space, local string) bool {
	return f.space == space && f.local == local
}

// underShape reports whether the top of stack is p:sp/p:nvSpPr/p:nvPr/p:ph.
func underShape(stack []frame) bool {
	n := len(stack)
	if n < 4 {
		return false
	}
	return stack[n-2].is(NamespacePresentation, "nvPr") &&
		stack[n-3].is(NamespacePresentation, "nvSpPr") &&
		stack[n-4].is(NamespacePresentation, "sp")
}

// declarations extracts namespace bindings from raw attributes.
func declarations(attrs []xml.Attr) map[string]string {
	var decls map[string]string
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefix = ""
		default:
			continue
		}
		if decls == nil {
			decls = make(map[string]string)
		}
		decls[prefix] = a.Value
	}
	return decls
}

// resolve returns the namespace URI bound to prefix at the top of stack.
func resolve(stack []frame, prefix string) string {
	if prefix == "xml" {
		return "http://www.w3.org/XML/1998/namespace"
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if uri, ok := stack[i].decls[prefix]; ok {
			return uri
		}
	}
	return ""
}

// drawingPrefix finds a prefix bound to DrawingML at the top of stack,
// preferring the conventional "a".
func drawingPrefix(stack []frame) (string, bool) {
	visible := make(map[string]string)
	for i := range stack {
		for prefix, uri := range stack[i].decls {
			visible[prefix] = uri
		}
	}
	if visible["a"] == NamespaceDrawing {
		return "a", true
	}

	prefixes := make([]string, 0, len(visible))
	for prefix, uri := range visible {
		if uri == NamespaceDrawing {
			prefixes = append(prefixes, prefix)
		}
	}
	if len(prefixes) == 0 {
		return "a", false
	}
	sort.Strings(prefixes)
	return prefixes[0], true
}

func attr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
