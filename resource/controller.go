// Package resource bounds the work the stream runner hands to the recognizer.
package resource

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxFPS is the highest frame rate passed on to inference.
	// Frames above the rate are dropped. If 0, unlimited.
	MaxFPS float64

	// FrameBurst is the number of frames accepted back to back before
	// MaxFPS applies. If 0, defaults to 1.
	FrameBurst int

	// MaxConcurrentInfer is the maximum number of inferences in flight.
	// If 0, defaults to 1.
	MaxConcurrentInfer int64
}

// Controller manages frame admission and inference concurrency.
// A nil *Controller admits everything.
type Controller struct {
	cfg Config

	// Frames
	frameLimiter *rate.Limiter // nil if unlimited
	admitted     atomic.Int64
	dropped      atomic.Int64

	// Concurrency
	inferSem *semaphore.Weighted
	inFlight atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentInfer <= 0 {
		cfg.MaxConcurrentInfer = 1
	}
	if cfg.FrameBurst <= 0 {
		cfg.FrameBurst = 1
	}

	c := &Controller{
		cfg:      cfg,
		inferSem: semaphore.NewWeighted(cfg.MaxConcurrentInfer),
	}

	if cfg.MaxFPS > 0 {
		c.frameLimiter = rate.NewLimiter(rate.Limit(cfg.MaxFPS), cfg.FrameBurst)
	}

	return c
}

// AllowFrame reports whether a frame arriving now may be processed.
func (c *Controller) AllowFrame() bool {
	return c.AllowFrameAt(time.Now())
}

// AllowFrameAt is AllowFrame for a frame stamped t.
func (c *Controller) AllowFrameAt(t time.Time) bool {
	if c == nil {
		return true
	}
	if c.frameLimiter != nil && !c.frameLimiter.AllowN(t, 1) {
		c.dropped.Add(1)
		return false
	}
	c.admitted.Add(1)
	return true
}

// AcquireInfer reserves an inference slot.
// Blocks if all slots are busy until one frees up or ctx is canceled.
func (c *Controller) AcquireInfer(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.inferSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.inFlight.Add(1)
	return nil
}

// TryAcquireInfer reserves an inference slot without blocking.
func (c *Controller) TryAcquireInfer() bool {
	if c == nil {
		return true
	}
	if !c.inferSem.TryAcquire(1) {
		return false
	}
	c.inFlight.Add(1)
	return true
}

// ReleaseInfer releases an inference slot.
func (c *Controller) ReleaseInfer() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	c.inferSem.Release(1)
}

// Stats is a snapshot of the controller counters.
type Stats struct {
	FramesAdmitted int64
	FramesDropped  int64
	InFlight       int64
}

// Stats returns the current counters.
func (c *Controller) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		FramesAdmitted: c.admitted.Load(),
		FramesDropped:  c.dropped.Load(),
		InFlight:       c.inFlight.Load(),
	}
}
