package driven

import "context"

// PathLocker grants exclusive access to a file path.
// It is advisory: only callers sharing the same PathLocker are serialised.
type PathLocker interface {
	// Lock blocks until path is free or ctx is done.
	// The returned function releases the lock and must be called exactly once.
	Lock(ctx context.Context, path string) (unlock func(), err error)
}
