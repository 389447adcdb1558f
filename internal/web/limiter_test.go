package web

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadLimiter_AcquireRelease(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))
	assert.Equal(t, 2, limiter.Active())

	limiter.Release()
	assert.Equal(t, 1, limiter.Active())
	limiter.Release()
	assert.Equal(t, 0, limiter.Active())
}

func TestUploadLimiter_FullTimesOut(t *testing.T) {
	limiter := NewUploadLimiter(1, 50*time.Millisecond)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	err := limiter.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrTooManyUploads)
}

func TestUploadLimiter_CancelledWhileWaiting(t *testing.T) {
	limiter := NewUploadLimiter(1, time.Minute)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, limiter.Acquire(ctx), context.Canceled)
}

func TestUploadLimiter_WaiterGetsReleasedSlot(t *testing.T) {
	limiter := NewUploadLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))

	var wg sync.WaitGroup
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		err = limiter.Acquire(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	limiter.Release()
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, 1, limiter.Active())
	limiter.Release()
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)
	require.NoError(t, limiter.WaitForDrain(context.Background()))

	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, limiter.WaitForDrain(ctx), context.DeadlineExceeded)

	go func() {
		time.Sleep(20 * time.Millisecond)
		limiter.Release()
	}()
	require.NoError(t, limiter.WaitForDrain(context.Background()))
}

func TestUploadLimiter_Defaults(t *testing.T) {
	limiter := NewUploadLimiter(0, 0)
	assert.Equal(t, 1, cap(limiter.slots))
	assert.Equal(t, time.Second, limiter.maxWait)
}
