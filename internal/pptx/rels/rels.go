// Package rels resolves OPC relationships inside a presentation package.
package rels

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// Relationship types and modes recognised by the resolver.
const (
	TypeNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	TypeSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"

	TargetModeExternal = "External"
)

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// IsExternal reports whether the target lives outside the package.
func (r Relationship) IsExternal() bool {
	return strings.EqualFold(r.TargetMode, TargetModeExternal)
}

type relationshipsXML struct {
	Relationships []Relationship `xml:"Relationship"`
}

// Source is the subset of a container the resolver reads from.
type Source interface {
	Has(name string) bool
	Read(name string) ([]byte, error)
}

// Parse decodes a .rels part.
func Parse(data []byte) ([]Relationship, error) {
	var doc relationshipsXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Relationships, nil
}

// RelationshipsPath returns the .rels companion of a part,
// e.g. "ppt/slides/slide1.xml" -> "ppt/slides/_rels/slide1.xml.rels".
func RelationshipsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// SlidePath returns the part name of a 1-based slide number.
func SlidePath(slide int) string {
	return fmt.Sprintf("ppt/slides/slide%d.xml", slide)
}

// ResolveTarget turns a relationship target into a package part name.
// Relative targets are resolved against the owning part's directory;
// a leading "/" makes the target package-absolute.
func ResolveTarget(owner, target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	joined := path.Join(path.Dir(owner), target)
	// Paths cannot climb above the package root.
	for strings.HasPrefix(joined, "../") {
		joined = strings.TrimPrefix(joined, "../")
	}
	if joined == ".." || joined == "." {
		return ""
	}
	return joined
}

// ResolveNotesPart finds the notes part of a 1-based slide.
//
// A slide without a relationships part, without a notesSlide relationship,
// or whose target is missing from the package resolves to ("", false, nil).
// Only a relationships part that cannot be read or parsed is an error.
func ResolveNotesPart(src Source, slide int) (string, bool, error) {
	owner := SlidePath(slide)
	relsPath := RelationshipsPath(owner)
	if !src.Has(relsPath) {
		return "", false, nil
	}

	data, err := src.Read(relsPath)
	if err != nil {
		return "", false, err
	}
	relationships, err := Parse(data)
	if err != nil {
		return "", false, fmt.Errorf("%w: parsing %s: %w", domain.ErrContainerUnreadable, relsPath, err)
	}

	for _, rel := range relationships {
		if rel.Type != TypeNotesSlide || rel.IsExternal() {
			continue
		}
		part := ResolveTarget(owner, rel.Target)
		if part == "" || !src.Has(part) {
			return "", false, nil
		}
		return part, true, nil
	}
	return "", false, nil
}
