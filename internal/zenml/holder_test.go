package zenml

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_ConstructsOnceUnderConcurrency(t *testing.T) {
	var constructions atomic.Int32
	release := make(chan struct{})
	h := NewHolderFunc(func(ctx context.Context) (*Client, error) {
		constructions.Add(1)
		<-release
		return &Client{}, nil
	})

	const callers = 16
	var wg sync.WaitGroup
	clients := make([]*Client, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := h.Get(context.Background())
			require.NoError(t, err)
			clients[i] = c
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), constructions.Load())
	for i := 1; i < callers; i++ {
		assert.Same(t, clients[0], clients[i])
	}
}

func TestHolder_CachesSuccessForever(t *testing.T) {
	var constructions atomic.Int32
	h := NewHolderFunc(func(ctx context.Context) (*Client, error) {
		constructions.Add(1)
		return &Client{}, nil
	})

	for i := 0; i < 5; i++ {
		_, err := h.Get(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), constructions.Load())
}

func TestHolder_FailureIsNotTerminal(t *testing.T) {
	var constructions atomic.Int32
	boom := errors.New("connection refused")
	h := NewHolderFunc(func(ctx context.Context) (*Client, error) {
		if constructions.Add(1) == 1 {
			return nil, boom
		}
		return &Client{}, nil
	})

	_, err := h.Get(context.Background())
	require.ErrorIs(t, err, boom)

	// Inside the backoff window the last error is returned without a new
	// construction attempt.
	_, err = h.Get(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), constructions.Load())

	// Force the window open and verify recovery.
	h.mu.Lock()
	h.nextAttempt = h.nextAttempt.Add(-h.backoff.MaxInterval * 2)
	h.mu.Unlock()

	c, err := h.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int32(2), constructions.Load())
}

func TestHolder_ConstructionSurvivesCallerCancellation(t *testing.T) {
	h := NewHolderFunc(func(ctx context.Context) (*Client, error) {
		require.NoError(t, ctx.Err(), "construction context must not carry caller cancellation")
		return &Client{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Get(ctx)
	assert.NoError(t, err)
}
