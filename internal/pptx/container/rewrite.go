package container

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// Rewrite streams every entry of c into w in its original order.
//
// Entries named in parts get the substituted payload under the original
// header: name, method, MS-DOS timestamp, external attributes, extra field,
// comment and creator version are reused; CRC and sizes are recomputed.
// All other entries are copied raw, so their compressed bytes and headers are
// reproduced exactly. Nothing is added, removed or reordered.
func Rewrite(c *Container, w io.Writer, parts map[string][]byte) error {
	for name := range parts {
		if !c.Has(name) {
			return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, name)
		}
	}

	zw := zip.NewWriter(w)
	if err := zw.SetComment(c.reader.Comment); err != nil {
		return fmt.Errorf("setting archive comment: %w", err)
	}

	for _, f := range c.reader.File {
		data, ok := parts[f.Name]
		// Duplicate names: only the entry Read resolves to is substituted.
		if !ok || c.index[f.Name] != f {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}
		if err := writeSubstitute(zw, f, data); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	return zw.Close()
}

func writeSubstitute(zw *zip.Writer, f *zip.File, data []byte) error {
	hdr := substituteHeader(&f.FileHeader)
	ew, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = ew.Write(data)
	return err
}

// substituteHeader copies the metadata of src that must survive a payload swap.
//
// Modified is deliberately left zero: zip.Writer would otherwise append a
// second extended-timestamp field to Extra. The legacy DOS fields carry the
// original timestamp unchanged.
func substituteHeader(src *zip.FileHeader) *zip.FileHeader {
	return &zip.FileHeader{
		Name:           src.Name,
		Comment:        src.Comment,
		NonUTF8:        src.NonUTF8,
		CreatorVersion: src.CreatorVersion,
		Method:         src.Method,
		ModifiedTime:   src.ModifiedTime, //nolint:staticcheck // exact DOS timestamp
		ModifiedDate:   src.ModifiedDate, //nolint:staticcheck // exact DOS timestamp
		Extra:          src.Extra,
		ExternalAttrs:  src.ExternalAttrs,
	}
}
