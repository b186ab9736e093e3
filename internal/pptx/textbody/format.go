package textbody

import (
	"fmt"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// FormatStructure lays out a short and an original version as notes text.
//
// The short_original layout uses the template markers so that Rewrite renders
// the headings bold:
//
//	  - Short version:
//	  {short}
//
//	  - Original:
//	  {original}
func FormatStructure(short, original string, format domain.NotesFormat) (string, error) {
	switch format {
	case domain.NotesFormatShortOriginal, "":
		return MarkerShort + "\n" + short + "\n\n" + MarkerOriginal + "\n" + original, nil
	case domain.NotesFormatSimple:
		return short + "\n\n" + original, nil
	default:
		return "", fmt.Errorf("%w: unknown notes format %q", domain.ErrInvalidInput, format)
	}
}
