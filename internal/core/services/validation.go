package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// validateSourcePath checks that path names an existing presentation the
// security settings allow. It returns the absolute, cleaned path.
func validateSourcePath(path string, sec domain.SecuritySettings) (string, error) {
	abs, err := validatePathShape(path, sec)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if sec.MaxFileSize > 0 && info.Size() > sec.MaxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrFileTooLarge, path, info.Size(), sec.MaxFileSize)
	}
	return abs, nil
}

// validateOutputPath checks a path that is about to be written.
// The file itself need not exist.
func validateOutputPath(path string, sec domain.SecuritySettings) (string, error) {
	return validatePathShape(path, sec)
}

func validatePathShape(path string, sec domain.SecuritySettings) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	if sec.MaxPathLength > 0 && len(path) > sec.MaxPathLength {
		return "", fmt.Errorf("%w: path longer than %d characters", domain.ErrInvalidInput, sec.MaxPathLength)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("%w: path contains a NUL byte", domain.ErrInvalidInput)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, path, err)
	}

	if !sec.AllowsExtension(abs) {
		return "", fmt.Errorf("%w: %q (allowed: %s)", domain.ErrUnsupportedExtension,
			filepath.Ext(abs), strings.Join(sec.AllowedExtensions, ", "))
	}

	if sec.EnforceWorkspaceBoundary && len(sec.WorkspaceDirs) > 0 && !inWorkspace(abs, sec.WorkspaceDirs) {
		return "", fmt.Errorf("%w: %s", domain.ErrOutsideWorkspace, path)
	}
	return abs, nil
}

// inWorkspace reports whether path lies inside any of dirs once symlinks are resolved.
func inWorkspace(path string, dirs []string) bool {
	real := realPath(path)
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(realPath(abs), real)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel) {
			return true
		}
	}
	return false
}

// realPath resolves symlinks in path, or in its parent when path does not exist yet.
func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if parent, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		return filepath.Join(parent, filepath.Base(path))
	}
	return path
}

// validateSlides checks that every slide is within 1..count.
func validateSlides(slides []int, count int) error {
	for _, slide := range slides {
		if slide < 1 || slide > count {
			return fmt.Errorf("%w: %w: %d (presentation has %d slides)",
				domain.ErrInvalidInput, domain.ErrInvalidSlide, slide, count)
		}
	}
	return nil
}

// validateTextLength checks every request's text against the configured maximum.
func validateTextLength(batch domain.UpdateBatch, limit int) error {
	if limit <= 0 {
		return nil
	}
	for i, req := range batch {
		if len(req.Text) > limit {
			return fmt.Errorf("%w: request %d: %w: %d bytes exceeds %d",
				domain.ErrInvalidInput, i, domain.ErrInputTooLarge, len(req.Text), limit)
		}
	}
	return nil
}
