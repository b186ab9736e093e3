package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driven"
	"github.com/custodia-labs/notesmith/internal/logger"
)

const (
	defaultFileMode   = 0o644
	defaultBufferSize = 64 * 1024
)

// Ensure Committer implements the interface.
var _ driven.Committer = (*Committer)(nil)

// Option configures a Committer.
type Option func(*Committer)

// WithRename replaces the function used to move the temporary file over the
// target. Tests use it to inject rename failures.
func WithRename(rename func(oldpath, newpath string) error) Option {
	return func(c *Committer) {
		c.rename = rename
	}
}

// WithBufferSize sets the write buffer size. Values <= 0 keep the default.
func WithBufferSize(size int) Option {
	return func(c *Committer) {
		if size > 0 {
			c.bufSize = size
		}
	}
}

// Committer replaces files atomically via temp file and rename.
type Committer struct {
	rename  func(oldpath, newpath string) error
	bufSize int
}

// NewCommitter creates a Committer using the platform's atomic replace.
func NewCommitter(opts ...Option) *Committer {
	c := &Committer{
		rename:  osReplace,
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Commit streams write's output into a temporary file beside target and
// renames it over target. On any failure the temporary file is removed, the
// target is left as it was, and the returned error wraps domain.ErrCommitFailed.
func (c *Committer) Commit(ctx context.Context, target string, write driven.WriteFunc) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}

	dir := filepath.Dir(target)
	mode, err := targetMode(target)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrCommitFailed, target, err)
	}

	tmpPath := TempPath(target)
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", domain.ErrCommitFailed, err)
	}
	logger.Debug("commit: writing %s via %s", target, filepath.Base(tmpPath))

	// The creation mode is filtered by the umask; match the target exactly.
	if err := tmp.Chmod(mode); err != nil {
		logger.Debug("commit: chmod %s to %o skipped: %v", filepath.Base(tmpPath), mode, err)
	}

	fail := func(step string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %w", domain.ErrCommitFailed, step, err)
	}

	bw := bufio.NewWriterSize(tmp, c.bufSize)
	if err := write(&ctxWriter{ctx: ctx, w: bw}); err != nil {
		return fail("writing", err)
	}
	if err := bw.Flush(); err != nil {
		return fail("flushing", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: closing temp file: %w", domain.ErrCommitFailed, err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}
	if err := c.rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing %s: %w", domain.ErrCommitFailed, target, err)
	}

	if err := syncDir(dir); err != nil {
		logger.Debug("commit: directory sync for %s skipped: %v", dir, err)
	}
	return nil
}

// TempPath returns a fresh temporary path for target, e.g.
// "/a/deck.pptx" -> "/a/deck.<uuid>.tmp.pptx".
func TempPath(target string) string {
	dir, name := filepath.Split(target)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, stem+"."+uuid.NewString()+".tmp"+ext)
}

// targetMode returns the permission bits of an existing target, or the default
// mode when the target does not exist yet.
func targetMode(target string) (fs.FileMode, error) {
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultFileMode, nil
	}
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("target is a directory")
	}
	return info.Mode().Perm(), nil
}

// ctxWriter fails writes once ctx is done.
type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

func (cw *ctxWriter) Write(p []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}
