package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathLocker_LockUnlock(t *testing.T) {
	locker := NewPathLocker()

	unlock, err := locker.Lock(context.Background(), "/tmp/deck.pptx")
	require.NoError(t, err)
	assert.Equal(t, 1, locker.Len())

	unlock()
	assert.Equal(t, 0, locker.Len())

	// A second call is harmless.
	unlock()
	assert.Equal(t, 0, locker.Len())
}

func TestPathLocker_SamePathAfterCleaning(t *testing.T) {
	locker := NewPathLocker()

	unlock, err := locker.Lock(context.Background(), "/tmp/a/../deck.pptx")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "/tmp/deck.pptx")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPathLocker_DifferentPathsIndependent(t *testing.T) {
	locker := NewPathLocker()

	unlockA, err := locker.Lock(context.Background(), "/tmp/a.pptx")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlockB, err := locker.Lock(ctx, "/tmp/b.pptx")
	require.NoError(t, err)
	unlockB()
}

func TestPathLocker_CancelWhileWaiting(t *testing.T) {
	locker := NewPathLocker()

	unlock, err := locker.Lock(context.Background(), "/tmp/deck.pptx")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := locker.Lock(ctx, "/tmp/deck.pptx")
		errCh <- err
	}()

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	unlock()
	assert.Equal(t, 0, locker.Len())
}

func TestPathLocker_MutualExclusion(t *testing.T) {
	locker := NewPathLocker()

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		maxSeen atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "/tmp/deck.pptx")
			if !assert.NoError(t, err) {
				return
			}
			n := holders.Add(1)
			for {
				seen := maxSeen.Load()
				if n <= seen || maxSeen.CompareAndSwap(seen, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			holders.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Equal(t, 0, locker.Len())
}
