package driven

import (
	"context"
	"io"
)

// WriteFunc streams the complete new content of a file into w.
type WriteFunc func(w io.Writer) error

// Committer replaces a file's content as a single visible step.
// An observer sees either the old or the new content, never a partial write.
type Committer interface {
	// Commit runs write against a staging area and swaps the result onto target.
	// On any error target is left untouched and the staging area is removed.
	Commit(ctx context.Context, target string, write WriteFunc) error
}
