package memory

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/notesmith/internal/core/ports/driven"
)

// Ensure PathLocker implements the interface.
var _ driven.PathLocker = (*PathLocker)(nil)

// PathLocker is an in-process keyed mutex over file paths.
// Entries are reference counted and dropped once no caller holds or waits on them.
type PathLocker struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	sem  chan struct{}
	refs int
}

// NewPathLocker creates an empty PathLocker.
func NewPathLocker() *PathLocker {
	return &PathLocker{locks: make(map[string]*pathLock)}
}

// Lock waits until path is free or ctx is done.
// Paths are compared after conversion to absolute, cleaned form.
func (l *PathLocker) Lock(ctx context.Context, path string) (func(), error) {
	key := lockKey(path)
	pl := l.acquire(key)

	select {
	case pl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, pl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-pl.sem
			l.release(key, pl)
		})
	}, nil
}

// Len returns the number of paths currently held or waited on.
func (l *PathLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *PathLocker) acquire(key string) *pathLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	pl, ok := l.locks[key]
	if !ok {
		pl = &pathLock{sem: make(chan struct{}, 1)}
		l.locks[key] = pl
	}
	pl.refs++
	return pl
}

func (l *PathLocker) release(key string, pl *pathLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pl.refs--
	if pl.refs == 0 {
		delete(l.locks, key)
	}
}

func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
