package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// ParseUpdates decodes a batch of notes updates from JSON.
//
// Three shapes are accepted:
//
//	{"slides": [{"slide": 1, "notes": "..."}]}
//	{"1": "...", "2": "..."}
//	[{"slide_number": 1, "notes_text": "..."}]
//
// The first shape is also what `notes read --json` prints, so a dump can be
// edited and applied back. Null notes mean empty text. Request order follows
// the document order.
func ParseUpdates(data []byte) (domain.UpdateBatch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty updates document", domain.ErrInvalidInput)
	}

	var (
		batch domain.UpdateBatch
		err   error
	)
	switch trimmed[0] {
	case '[':
		batch, err = parseRequestList(trimmed)
	case '{':
		batch, err = parseObject(trimmed)
	default:
		err = fmt.Errorf("expected a JSON object or array")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: updates document contains no updates", domain.ErrInvalidInput)
	}
	return batch, nil
}

// parseRequestList decodes [{"slide_number": 1, "notes_text": "..."}].
func parseRequestList(data []byte) (domain.UpdateBatch, error) {
	var items []map[string]json.RawMessage
	if err := unmarshalNumbers(data, &items); err != nil {
		return nil, fmt.Errorf("expected an array of objects: %w", err)
	}
	batch := make(domain.UpdateBatch, 0, len(items))
	for i, item := range items {
		req, err := decodeItem(item, "slide_number", "notes_text")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		batch = append(batch, req)
	}
	return batch, nil
}

// parseObject decodes either {"slides": [...]} or a slide -> notes mapping.
func parseObject(data []byte) (domain.UpdateBatch, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if raw, ok := probe["slides"]; ok && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var items []map[string]json.RawMessage
		if err := unmarshalNumbers(raw, &items); err != nil {
			return nil, fmt.Errorf("slides[] items must be objects: %w", err)
		}
		batch := make(domain.UpdateBatch, 0, len(items))
		for i, item := range items {
			req, err := decodeItem(item, "slide", "notes")
			if err != nil {
				return nil, fmt.Errorf("slides[%d]: %w", i, err)
			}
			batch = append(batch, req)
		}
		return batch, nil
	}
	return parseMapping(data)
}

// parseMapping decodes {"1": "...", "2": "..."} keeping key order.
func parseMapping(data []byte) (domain.UpdateBatch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var batch domain.UpdateBatch
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		slide, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("mapping key %q is not a slide number", key)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		text, err := decodeText(value)
		if err != nil {
			return nil, fmt.Errorf("slide %q: %w", key, err)
		}
		batch = append(batch, domain.UpdateRequest{Slide: slide, Text: text})
	}
	return batch, nil
}

func decodeItem(item map[string]json.RawMessage, slideKey, textKey string) (domain.UpdateRequest, error) {
	raw, ok := item[slideKey]
	if !ok {
		return domain.UpdateRequest{}, fmt.Errorf("missing integer %q", slideKey)
	}
	var num json.Number
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) || unmarshalNumbers(raw, &num) != nil {
		return domain.UpdateRequest{}, fmt.Errorf("%q must be an integer", slideKey)
	}
	slide, err := strconv.Atoi(num.String())
	if err != nil {
		return domain.UpdateRequest{}, fmt.Errorf("%q must be an integer, got %s", slideKey, num)
	}

	text, err := decodeText(item[textKey])
	if err != nil {
		return domain.UpdateRequest{}, fmt.Errorf("%q %w", textKey, err)
	}
	return domain.UpdateRequest{Slide: slide, Text: text}, nil
}

// decodeText accepts a JSON string, null or an absent value.
func decodeText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("must be a string")
	}
	return text, nil
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
