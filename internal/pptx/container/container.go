// Package container exposes a zip-based OOXML package as an ordered set of
// named entries and re-serialises it with selected entries substituted.
package container

import (
	"archive/zip"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// EntryDescriptor describes one entry without reading its payload.
type EntryDescriptor struct {
	Name             string
	Method           uint16
	Modified         time.Time
	ExternalAttrs    uint32
	CreatorVersion   uint16
	Extra            []byte
	Comment          string
	CRC32            uint32
	CompressedSize   uint64
	UncompressedSize uint64
}

// Container is a read-only view over a zip archive.
type Container struct {
	reader *zip.Reader
	closer io.Closer
	index  map[string]*zip.File
}

// Open opens the zip archive at path.
// The caller must Close the container.
func Open(path string) (*Container, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrContainerUnreadable, path, err)
	}
	return newContainer(&rc.Reader, rc), nil
}

// OpenReader wraps an in-memory or already-open archive.
func OpenReader(r io.ReaderAt, size int64) (*Container, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrContainerUnreadable, err)
	}
	return newContainer(zr, nil), nil
}

func newContainer(zr *zip.Reader, closer io.Closer) *Container {
	index := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		// First occurrence wins, matching lookup by central directory order.
		if _, ok := index[f.Name]; !ok {
			index[f.Name] = f
		}
	}
	return &Container{reader: zr, closer: closer, index: index}
}

// Close releases the underlying file, if any. Calling Close again is a no-op.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	closer := c.closer
	c.closer = nil
	return closer.Close()
}

// Has reports whether an entry named name exists.
func (c *Container) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of entries.
func (c *Container) Len() int {
	return len(c.reader.File)
}

// Comment returns the archive comment.
func (c *Container) Comment() string {
	return c.reader.Comment
}

// Read returns the decompressed payload of the named entry.
func (c *Container) Read(name string) ([]byte, error) {
	f, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", domain.ErrContainerUnreadable, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrContainerUnreadable, name, err)
	}
	return data, nil
}

// Entries yields every entry in physical order.
// The sequence can be ranged over any number of times.
func (c *Container) Entries() iter.Seq[EntryDescriptor] {
	return func(yield func(EntryDescriptor) bool) {
		for _, f := range c.reader.File {
			if !yield(describe(f)) {
				return
			}
		}
	}
}

// Names returns entry names in physical order.
func (c *Container) Names() []string {
	names := make([]string, 0, len(c.reader.File))
	for e := range c.Entries() {
		names = append(names, e.Name)
	}
	return names
}

func describe(f *zip.File) EntryDescriptor {
	return EntryDescriptor{
		Name:             f.Name,
		Method:           f.Method,
		Modified:         f.Modified,
		ExternalAttrs:    f.ExternalAttrs,
		CreatorVersion:   f.CreatorVersion,
		Extra:            f.Extra,
		Comment:          f.Comment,
		CRC32:            f.CRC32,
		CompressedSize:   f.CompressedSize64,
		UncompressedSize: f.UncompressedSize64,
	}
}
