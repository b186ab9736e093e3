package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driven"
	"github.com/custodia-labs/notesmith/internal/logger"
	"github.com/custodia-labs/notesmith/internal/pptx/container"
	"github.com/custodia-labs/notesmith/internal/pptx/rels"
	"github.com/custodia-labs/notesmith/internal/pptx/textbody"
)

// BatchOrchestrator applies a batch of notes updates to one presentation and
// commits the result in a single atomic step.
//
// A batch moves through Validate, Resolve, Rewrite, Stream and Commit. Any
// failure before Commit completes leaves every file on disk unchanged.
type BatchOrchestrator struct {
	committer     driven.Committer
	locker        driven.PathLocker
	audit         driven.AuditStore
	missPolicy    domain.MissPolicy
	maxTextLength int
	now           func() time.Time
}

// OrchestratorOption configures a BatchOrchestrator.
type OrchestratorOption func(*BatchOrchestrator)

// WithPathLocker serialises commits to the same output path.
func WithPathLocker(locker driven.PathLocker) OrchestratorOption {
	return func(o *BatchOrchestrator) {
		o.locker = locker
	}
}

// WithAuditStore records every successful commit.
func WithAuditStore(store driven.AuditStore) OrchestratorOption {
	return func(o *BatchOrchestrator) {
		o.audit = store
	}
}

// WithMissPolicy sets the policy used when ApplyOptions leaves it empty.
func WithMissPolicy(policy domain.MissPolicy) OrchestratorOption {
	return func(o *BatchOrchestrator) {
		if policy.IsValid() {
			o.missPolicy = policy
		}
	}
}

// WithMaxTextLength bounds the length in bytes of each request's text.
// Values <= 0 disable the check.
func WithMaxTextLength(n int) OrchestratorOption {
	return func(o *BatchOrchestrator) {
		o.maxTextLength = n
	}
}

// NewBatchOrchestrator creates an orchestrator that commits through committer.
func NewBatchOrchestrator(committer driven.Committer, opts ...OrchestratorOption) *BatchOrchestrator {
	o := &BatchOrchestrator{
		committer:     committer,
		missPolicy:    domain.MissSkip,
		maxTextLength: domain.DefaultSettings().Security.MaxTextLength,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// resolved is one request whose notes part was found.
type resolved struct {
	req  domain.UpdateRequest
	part string
}

// ApplyBatch rewrites the notes of every resolvable slide in batch and commits
// the new container to opts.OutputPath, or over path when opts.InPlace is set
// or OutputPath is empty or names path itself.
//
// Requests whose slide has no notes part are skipped or fail the batch
// according to the miss policy. When several requests target the same slide
// the last one wins.
func (o *BatchOrchestrator) ApplyBatch(
	ctx context.Context,
	path string,
	batch domain.UpdateBatch,
	opts domain.ApplyOptions,
) (*domain.BatchResult, error) {
	logger.Section("Apply Batch")
	logger.Debug("source=%s requests=%d", path, len(batch))

	// Validate
	if err := o.validate(batch); err != nil {
		return nil, err
	}
	policy := opts.MissPolicy
	if policy == "" {
		policy = o.missPolicy
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("%w: unknown miss policy %q", domain.ErrInvalidInput, policy)
	}

	target, inPlace := outputTarget(path, opts)
	result := &domain.BatchResult{
		SourcePath: path,
		OutputPath: target,
		InPlace:    inPlace,
		Requested:  len(batch),
	}

	// Lock and commit the file a symlink points at, not the link itself.
	commitPath := realPath(target)
	if commitPath != target {
		logger.Debug("output %s resolves to %s", target, commitPath)
	}

	if o.locker != nil {
		unlock, err := o.locker.Lock(ctx, commitPath)
		if err != nil {
			return nil, fmt.Errorf("locking %s: %w", target, err)
		}
		defer unlock()
	}

	c, err := container.Open(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	// Resolve
	hits, misses, err := resolve(c, batch)
	if err != nil {
		return nil, err
	}
	if len(misses) > 0 {
		if policy == domain.MissFail {
			return nil, fmt.Errorf("%w: slide %d", domain.ErrNotesPartMissing, misses[0])
		}
		logger.Warn("skipping slides without notes part: %v", misses)
	}
	result.Skipped = misses

	// Rewrite
	parts, err := rewrite(c, hits)
	if err != nil {
		return nil, err
	}
	result.Applied = len(hits)
	result.AppliedSlides = make([]int, 0, len(hits))
	for _, h := range hits {
		result.AppliedSlides = append(result.AppliedSlides, h.req.Slide)
	}

	if len(parts) == 0 && inPlace {
		logger.Info("nothing resolved, %s left untouched", path)
		return result, nil
	}

	// Stream and Commit
	logger.Debug("committing %d part(s) to %s", len(parts), commitPath)
	err = o.committer.Commit(ctx, commitPath, func(w io.Writer) error {
		if err := container.Rewrite(c, w, parts); err != nil {
			return err
		}
		// Release the source before it is replaced.
		return c.Close()
	})
	if err != nil {
		return nil, err
	}

	logger.Info("%s", result.Summary())
	o.record(ctx, result)
	return result, nil
}

// validate checks every request before any I/O happens.
func (o *BatchOrchestrator) validate(batch domain.UpdateBatch) error {
	if len(batch) == 0 {
		return fmt.Errorf("%w: empty batch", domain.ErrInvalidInput)
	}
	for i, req := range batch {
		if req.Slide < 1 {
			return fmt.Errorf("%w: request %d: %w: %d", domain.ErrInvalidInput, i, domain.ErrInvalidSlide, req.Slide)
		}
		if !utf8.ValidString(req.Text) {
			return fmt.Errorf("%w: request %d: text is not valid UTF-8", domain.ErrInvalidInput, i)
		}
		if o.maxTextLength > 0 && len(req.Text) > o.maxTextLength {
			return fmt.Errorf("%w: request %d: %w: %d bytes exceeds %d",
				domain.ErrInvalidInput, i, domain.ErrInputTooLarge, len(req.Text), o.maxTextLength)
		}
	}
	return nil
}

// resolve looks up the notes part of every request.
// Misses are reported once per slide, in request order.
func resolve(src rels.Source, batch domain.UpdateBatch) ([]resolved, []int, error) {
	type lookup struct {
		part string
		ok   bool
	}
	cache := make(map[int]lookup)

	var hits []resolved
	var misses []int
	for _, req := range batch {
		l, seen := cache[req.Slide]
		if !seen {
			part, ok, err := rels.ResolveNotesPart(src, req.Slide)
			if err != nil {
				return nil, nil, err
			}
			l = lookup{part: part, ok: ok}
			cache[req.Slide] = l
			if ok {
				logger.Debug("slide %d -> %s", req.Slide, part)
			} else {
				misses = append(misses, req.Slide)
			}
		}
		if l.ok {
			hits = append(hits, resolved{req: req, part: l.part})
		}
	}
	return hits, misses, nil
}

// rewrite produces the new bytes of every targeted part.
// Later hits on the same part replace earlier ones.
func rewrite(c *container.Container, hits []resolved) (map[string][]byte, error) {
	final := make(map[string]string, len(hits))
	for _, h := range hits {
		final[h.part] = h.req.Text
	}

	parts := make(map[string][]byte, len(final))
	for part, text := range final {
		original, err := c.Read(part)
		if err != nil {
			return nil, err
		}
		updated, err := textbody.Rewrite(original, text)
		if err != nil {
			return nil, fmt.Errorf("rewriting %s: %w", part, err)
		}
		parts[part] = updated
	}
	return parts, nil
}

// record writes an audit entry. Failures are logged, never returned.
func (o *BatchOrchestrator) record(ctx context.Context, result *domain.BatchResult) {
	if o.audit == nil {
		return
	}
	entry := domain.AuditEntry{
		ID:          uuid.NewString(),
		SourcePath:  result.SourcePath,
		OutputPath:  result.OutputPath,
		InPlace:     result.InPlace,
		Slides:      slices.Clone(result.AppliedSlides),
		Skipped:     slices.Clone(result.Skipped),
		CommittedAt: o.now(),
	}
	if err := o.audit.Record(ctx, entry); err != nil {
		logger.Error("audit: recording commit of %s: %v", result.OutputPath, err)
	}
}

// outputTarget returns where the batch is committed and whether that is the source.
func outputTarget(source string, opts domain.ApplyOptions) (string, bool) {
	if opts.InPlace || opts.OutputPath == "" || samePath(source, opts.OutputPath) {
		return source, true
	}
	return opts.OutputPath, false
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB || realPath(absA) == realPath(absB)
}
