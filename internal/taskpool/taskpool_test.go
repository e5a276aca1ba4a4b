package taskpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewWithSize(zap.NewNop(), 4, 16)

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	pool.Close()

	assert.Equal(t, int64(100), count.Load())
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := NewWithSize(zap.NewNop(), 2, 16)

	var current, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			current.Add(-1)
		}))
	}
	wg.Wait()
	pool.Close()

	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestSubmitAfterCloseFails(t *testing.T) {
	pool := NewWithSize(zap.NewNop(), 1, 1)
	pool.Close()

	err := pool.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPoolRecoversFromPanic(t *testing.T) {
	pool := NewWithSize(zap.NewNop(), 1, 4)

	var done sync.WaitGroup
	done.Add(1)
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		defer done.Done()
		panic("boom")
	}))
	done.Wait()

	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		defer wg.Done()
		ran.Store(true)
	}))
	wg.Wait()
	pool.Close()

	assert.True(t, ran.Load())
}
