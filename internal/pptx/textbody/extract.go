package textbody

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// ExtractText returns the plain text of the notes text body in src:
// paragraphs joined by "\n", line breaks as "\n".
// The boolean is false when the part has no suitable text body.
func ExtractText(src []byte) (string, bool, error) {
	doc, err := scan(src)
	if err != nil {
		return "", false, fmt.Errorf("%w: notes xml: %w", domain.ErrContainerUnreadable, err)
	}

	body := doc.selectBody()
	if body == nil {
		return "", false, nil
	}
	if body.selfClosing {
		return "", true, nil
	}

	// Prefixes inside the body are not resolved; everything below a text
	// body is DrawingML so local names are unambiguous.
	d := xml.NewDecoder(bytes.NewReader(src[body.open.end:body.close.start]))

	var (
		sb     strings.Builder
		depth  int
		inText bool
		paras  int
	)
	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", true, fmt.Errorf("%w: notes xml: %w", domain.ErrContainerUnreadable, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case depth == 1 && t.Name.Local == "p":
				if paras > 0 {
					sb.WriteByte('\n')
				}
				paras++
			case t.Name.Local == "br":
				sb.WriteByte('\n')
			case t.Name.Local == "t":
				inText = true
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), true, nil
}
