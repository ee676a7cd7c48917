package zenml

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/pkg/logging"
)

// ConstructFunc builds a client from scratch. Tests substitute their own.
type ConstructFunc func(ctx context.Context) (*Client, error)

// Holder owns lazy, at-most-once client construction. Concurrent first
// callers collapse into a single construction attempt; a successful client is
// cached for the process lifetime. A failed attempt is not terminal: the next
// call after the backoff window re-attempts, while calls inside the window
// fail fast with the last construction error.
type Holder struct {
	construct ConstructFunc
	group     singleflight.Group

	mu          sync.Mutex
	client      *Client
	lastErr     error
	nextAttempt time.Time
	backoff     *backoff.ExponentialBackOff
}

// NewHolder wires a holder to real client construction from config.
func NewHolder(cfg config.StoreConfig) *Holder {
	return NewHolderFunc(func(ctx context.Context) (*Client, error) {
		return NewClient(ctx, cfg)
	})
}

// NewHolderFunc wires a holder to a custom constructor.
func NewHolderFunc(construct ConstructFunc) *Holder {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = time.Minute
	return &Holder{construct: construct, backoff: bo}
}

// Get returns the cached client, constructing it on first use.
func (h *Holder) Get(ctx context.Context) (*Client, error) {
	h.mu.Lock()
	if h.client != nil {
		c := h.client
		h.mu.Unlock()
		return c, nil
	}
	if h.lastErr != nil && time.Now().Before(h.nextAttempt) {
		err := h.lastErr
		h.mu.Unlock()
		return nil, err
	}
	h.mu.Unlock()

	v, err, _ := h.group.Do("client", func() (interface{}, error) {
		h.mu.Lock()
		if h.client != nil {
			c := h.client
			h.mu.Unlock()
			return c, nil
		}
		h.mu.Unlock()

		// Construction must not be torn down by the first caller's
		// cancellation when other callers are waiting on the same flight.
		c, err := h.construct(context.WithoutCancel(ctx))

		h.mu.Lock()
		defer h.mu.Unlock()
		if err != nil {
			h.lastErr = err
			h.nextAttempt = time.Now().Add(h.backoff.NextBackOff())
			logging.Warn("ClientHolder", "client construction failed, next attempt after %s: %v", time.Until(h.nextAttempt).Round(time.Millisecond), err)
			return nil, err
		}
		h.client = c
		h.lastErr = nil
		h.backoff.Reset()
		logging.Info("ClientHolder", "client constructed")
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Client), nil
}
