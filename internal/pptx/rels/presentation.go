package rels

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// PresentationPart is the main presentation part of a PresentationML package.
const PresentationPart = "ppt/presentation.xml"

type presentationXML struct {
	SlideIDs []struct {
		ID string `xml:"id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// SlideCount returns the number of slides listed in the presentation part.
func SlideCount(src Source) (int, error) {
	data, err := src.Read(PresentationPart)
	if err != nil {
		return 0, err
	}

	var doc presentationXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return 0, fmt.Errorf("%w: parsing %s: %w", domain.ErrContainerUnreadable, PresentationPart, err)
	}
	return len(doc.SlideIDs), nil
}
