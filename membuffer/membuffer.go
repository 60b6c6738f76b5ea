package membuffer

import (
	"fmt"
	"hash/maphash"
	"sync/atomic"

	"github.com/hupe1980/repocache/compress"
	"github.com/hupe1980/repocache/resource"
)

// minTotalSize is the smallest budget the shrink loop will settle for.
// Below this a cache is useless and construction fails instead.
const minTotalSize = 64 << 10

// Cache is a size-bounded in-memory cache for decoded repository data.
// The total byte budget is partitioned into independent segments, each
// with its own index, eviction list and lock, so concurrent readers
// contend only within a segment.
//
// The budget is reserved up front; a Cache never grows past it.
type Cache struct {
	segments   []*segment
	seed       maphash.Seed
	capacity   int64 // effective total budget after any shrink
	requested  int64
	concurrent bool

	rc        *resource.Controller
	codec     compress.Codec
	threshold int

	hits   atomic.Int64
	misses atomic.Int64
}

type options struct {
	controller *resource.Controller
	codec      compress.Codec
	threshold  int
}

// Option configures cache construction.
type Option func(*options)

// WithController accounts the cache budget against a resource controller.
// When the controller denies the full budget, construction halves the
// request until it fits or falls below a usable floor.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithCodec compresses values at or above the compression threshold.
// Pass nil to disable compression.
func WithCodec(c compress.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithCompressionThreshold sets the minimum value size, in bytes, for
// compression to be attempted. Defaults to 512.
func WithCompressionThreshold(n int) Option {
	return func(o *options) {
		o.threshold = n
	}
}

// New creates a content cache with the given total budget, partitioned into
// segments of segmentSize bytes. concurrent=false removes per-segment
// locking for callers that guarantee single-threaded access.
//
// Construction either succeeds completely or releases everything it
// reserved and returns an error; no partially built cache escapes.
func New(totalSize, segmentSize int64, concurrent bool, optFns ...Option) (*Cache, error) {
	if totalSize <= 0 {
		return nil, fmt.Errorf("membuffer: total size must be positive, got %d", totalSize)
	}
	if segmentSize <= 0 || segmentSize > totalSize {
		segmentSize = totalSize
	}

	o := options{threshold: 512}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	// Reserve the full budget up front, shrinking on denial.
	effective := totalSize
	for {
		if err := o.controller.ReserveMemory(effective); err == nil {
			break
		}
		effective /= 2
		if effective < minTotalSize {
			return nil, fmt.Errorf("membuffer: cannot reserve budget of %d bytes: %w",
				totalSize, resource.ErrBudgetExceeded)
		}
	}

	segmentCount := totalSize / segmentSize
	if segmentCount < 1 {
		segmentCount = 1
	}
	segmentCapacity := effective / segmentCount
	if segmentCapacity < 1 {
		segmentCapacity = 1
	}

	c := &Cache{
		segments:   make([]*segment, segmentCount),
		seed:       maphash.MakeSeed(),
		capacity:   effective,
		requested:  totalSize,
		concurrent: concurrent,
		rc:         o.controller,
		codec:      o.codec,
		threshold:  o.threshold,
	}

	for i := range c.segments {
		c.segments[i] = newSegment(segmentCapacity, concurrent)
	}

	return c, nil
}

func (c *Cache) segment(key string) *segment {
	idx := maphash.String(c.seed, key) % uint64(len(c.segments))
	return c.segments[idx]
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	s := c.segment(key)

	value, compressed, ok := s.get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if compressed {
		decoded, err := c.codec.Decompress(value)
		if err != nil {
			// A value we cannot decode is as good as missing.
			s.remove(key)
			c.misses.Add(1)
			return nil, false
		}
		value = decoded
	}

	c.hits.Add(1)
	return value, true
}

// Set caches value under key. Values larger than a segment are not cached.
// The caller must not modify value after Set returns.
func (c *Cache) Set(key string, value []byte) {
	compressed := false
	if c.codec != nil && len(value) >= c.threshold {
		if encoded, err := c.codec.Compress(value); err == nil && len(encoded) < len(value) {
			value = encoded
			compressed = true
		}
	}

	c.segment(key).set(key, value, compressed)
}

// Remove drops the entry for key if present.
func (c *Cache) Remove(key string) {
	c.segment(key).remove(key)
}

// Capacity returns the effective total budget in bytes. It may be smaller
// than the requested budget if construction had to shrink.
func (c *Cache) Capacity() int64 { return c.capacity }

// RequestedCapacity returns the budget originally asked for.
func (c *Cache) RequestedCapacity() int64 { return c.requested }

// SegmentCount returns the number of segments.
func (c *Cache) SegmentCount() int { return len(c.segments) }

// Concurrent reports whether the cache was built with internal locking.
func (c *Cache) Concurrent() bool { return c.concurrent }

// Size returns the current number of cached bytes across all segments.
func (c *Cache) Size() int64 {
	var total int64
	for _, s := range c.segments {
		total += s.sizeBytes()
	}
	return total
}

// Stats returns hit/miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close releases the reserved budget. Only tests and short-lived callers
// need this; the process-wide singleton is never closed.
func (c *Cache) Close() error {
	c.rc.ReleaseMemory(c.capacity)
	return nil
}
