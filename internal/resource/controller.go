// Package resource provides shared limits for background work, currently
// upload concurrency and IO throughput for collection mirroring.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxUploadWorkers is the maximum number of concurrent uploads.
	// If 0, defaults to 4.
	MaxUploadWorkers int64

	// IOLimitBytesPerSec is the maximum IO throughput for background tasks.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages shared resources (concurrency, IO bandwidth).
// A nil *Controller is valid and enforces nothing.
type Controller struct {
	cfg Config

	uploadSem *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxUploadWorkers <= 0 {
		cfg.MaxUploadWorkers = 4
	}

	c := &Controller{
		cfg:       cfg,
		uploadSem: semaphore.NewWeighted(cfg.MaxUploadWorkers),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// UploadWorkers returns the configured upload concurrency.
func (c *Controller) UploadWorkers() int {
	if c == nil {
		return 4
	}
	return int(c.cfg.MaxUploadWorkers)
}

// AcquireUpload reserves an upload slot, blocking until one is available or
// ctx is canceled.
func (c *Controller) AcquireUpload(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.uploadSem.Acquire(ctx, 1)
}

// ReleaseUpload releases an upload slot.
func (c *Controller) ReleaseUpload() {
	if c == nil {
		return
	}
	c.uploadSem.Release(1)
}

// WaitIO blocks until the caller may transfer n bytes under the configured
// IO limit. Requests larger than the limiter burst are split.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}

	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
