package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrBudgetExceeded is returned when a reservation would exceed the memory budget.
var ErrBudgetExceeded = errors.New("memory budget exceeded")

// Config holds resource budgets.
type Config struct {
	// MemoryBudgetBytes is the hard budget for managed cache memory.
	// If 0, no hard budget is enforced (only tracking).
	MemoryBudgetBytes int64

	// ReadLimitBytesPerSec is the maximum read throughput for pooled
	// file handles. If 0, unlimited.
	ReadLimitBytesPerSec int64
}

// Controller tracks and bounds the memory and read IO consumed by the
// caching layer. A nil *Controller is valid and enforces nothing.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	readLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryBudgetBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryBudgetBytes)
	}

	if cfg.ReadLimitBytesPerSec > 0 {
		c.readLimiter = rate.NewLimiter(rate.Limit(cfg.ReadLimitBytesPerSec), int(cfg.ReadLimitBytesPerSec))
	}

	return c
}

// ReserveMemory attempts to reserve memory without blocking.
// Returns ErrBudgetExceeded if the budget would be exceeded.
// Callers control retry and shrink policy.
func (c *Controller) ReserveMemory(bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrBudgetExceeded
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryReserveMemory attempts to reserve memory without blocking.
// Returns true if reserved, false if the budget would be exceeded.
func (c *Controller) TryReserveMemory(bytes int64) bool {
	return c.ReserveMemory(bytes) == nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryBudget returns the configured memory budget in bytes (0 if unlimited).
func (c *Controller) MemoryBudget() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryBudgetBytes
}

// WaitRead waits until the read limit allows the specified number of bytes.
func (c *Controller) WaitRead(ctx context.Context, bytes int) error {
	if c == nil || c.readLimiter == nil {
		return nil
	}
	return c.readLimiter.WaitN(ctx, bytes)
}

// TryRead attempts to acquire read tokens without blocking.
func (c *Controller) TryRead(bytes int) bool {
	if c == nil || c.readLimiter == nil {
		return true
	}
	return c.readLimiter.AllowN(time.Now(), bytes)
}
