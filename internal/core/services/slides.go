package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// maxRangeSpan bounds how many slides a single range may expand to.
const maxRangeSpan = 10_000

// ParseSlideRange expands an inclusive range such as "3-7" into slide numbers.
// A single number such as "4" is a one-slide range.
func ParseSlideRange(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty slide range", domain.ErrInvalidInput)
	}

	startText, endText, isRange := strings.Cut(s, "-")
	if !isRange {
		endText = startText
	}
	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return nil, fmt.Errorf("%w: slide range %q: expected A-B", domain.ErrInvalidInput, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return nil, fmt.Errorf("%w: slide range %q: expected A-B", domain.ErrInvalidInput, s)
	}

	switch {
	case start < 1:
		return nil, fmt.Errorf("%w: %w: range start must be >= 1, got %d", domain.ErrInvalidInput, domain.ErrInvalidSlide, start)
	case end < start:
		return nil, fmt.Errorf("%w: range end %d is before start %d", domain.ErrInvalidInput, end, start)
	case end-start >= maxRangeSpan:
		return nil, fmt.Errorf("%w: range %q spans more than %d slides", domain.ErrInvalidInput, s, maxRangeSpan)
	}

	slides := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		slides = append(slides, n)
	}
	return slides, nil
}
