// Package viewport serializes the fetches triggered by map movement so that
// only the newest one ever reaches application state.
package viewport

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"busmap.org/internal/logging"
	"busmap.org/internal/models"
)

// Policy decides what happens to a request made while a fetch is in flight.
type Policy int

const (
	// AbortAndReplace cancels the outstanding fetch and starts a new one.
	AbortAndReplace Policy = iota
	// RejectWhileBusy drops the new request. The follow-up fetch issued
	// after the outstanding one completes catches the map up.
	RejectWhileBusy
)

func (p Policy) String() string {
	switch p {
	case AbortAndReplace:
		return "abort"
	case RejectWhileBusy:
		return "reject"
	}
	return models.UnknownValue
}

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "abort":
		return AbortAndReplace, nil
	case "reject":
		return RejectWhileBusy, nil
	}
	return AbortAndReplace, errors.New("unknown viewport policy: " + s)
}

type FetchFunc[T any] func(ctx context.Context, vp models.Viewport) (T, error)

type Config[T any] struct {
	Policy Policy
	Fetch  FetchFunc[T]
	// Apply receives the result of the current fetch. It runs with the
	// coordinator locked, so gen stays current until it returns; it must
	// not call back into the Coordinator. Calls to Apply and Fail never
	// overlap.
	Apply func(gen uint64, vp models.Viewport, result T)
	// Fail receives errors of the current fetch, under the same lock as
	// Apply. Aborted fetches are not reported.
	Fail   func(gen uint64, vp models.Viewport, err error)
	Logger *slog.Logger
}

type Coordinator[T any] struct {
	cfg    Config[T]
	logger *slog.Logger

	mu         sync.Mutex
	generation uint64
	updating   bool
	cancel     context.CancelFunc
	latest     models.Viewport
	closed     bool

	wg sync.WaitGroup
}

func New[T any](cfg Config[T]) *Coordinator[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator[T]{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "viewport")),
	}
}

// Request records vp as the current viewport and starts a fetch for it
// unless the policy rejects it. It returns the generation of the started
// fetch.
func (c *Coordinator[T]) Request(vp models.Viewport) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, false
	}

	c.latest = vp

	if c.updating && c.cfg.Policy == RejectWhileBusy {
		c.logger.Debug("fetch in flight, dropping request",
			slog.Uint64("generation", c.generation))
		return 0, false
	}

	return c.startLocked(vp), true
}

func (c *Coordinator[T]) startLocked(vp models.Viewport) uint64 {
	if c.cancel != nil {
		c.cancel()
	}

	c.generation++
	gen := c.generation
	c.updating = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go c.run(ctx, cancel, gen, vp)

	return gen
}

func (c *Coordinator[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, vp models.Viewport) {
	defer c.wg.Done()
	defer cancel()

	result, err := c.cfg.Fetch(ctx, vp)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.closed {
		if err == nil || !errors.Is(err, context.Canceled) {
			c.logger.Debug("discarding stale response",
				slog.Uint64("generation", gen),
				slog.Uint64("current", c.generation))
		}
		return
	}
	c.updating = false
	c.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.LogError(c.logger, "viewport fetch failed", err,
			slog.Uint64("generation", gen))
		if c.cfg.Fail != nil {
			c.cfg.Fail(gen, vp, err)
		}
		return
	}

	if c.cfg.Apply != nil {
		c.cfg.Apply(gen, vp, result)
	}

	c.followUpLocked(gen, vp)
}

// followUpLocked fetches again when the map moved while gen was in flight.
func (c *Coordinator[T]) followUpLocked(gen uint64, vp models.Viewport) {
	if c.closed || c.updating || gen != c.generation {
		return
	}
	if c.latest.Center == vp.Center {
		return
	}

	c.logger.Debug("viewport moved during fetch, following up",
		slog.Uint64("generation", gen))
	c.startLocked(c.latest)
}

// Generation returns the current generation. Only a fetch started under
// it can still be applied.
func (c *Coordinator[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Busy reports whether a fetch is outstanding.
func (c *Coordinator[T]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updating
}

// Latest returns the most recently requested viewport.
func (c *Coordinator[T]) Latest() models.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// Cancel aborts the outstanding fetch, if any. Its result is discarded.
func (c *Coordinator[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Coordinator[T]) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	// bumping the generation turns any in-flight result stale
	c.generation++
	c.updating = false
}

// Wait blocks until no fetch goroutine is running.
func (c *Coordinator[T]) Wait() {
	c.wg.Wait()
}

// Close cancels the outstanding fetch and rejects further requests.
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelLocked()
	c.mu.Unlock()
	c.wg.Wait()
}
