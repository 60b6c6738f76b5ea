package repocache

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ContentCache is the narrow contract the registry holds for the content
// cache. The default implementation is membuffer.Cache.
type ContentCache interface {
	// Get returns the cached value for key.
	Get(key string) ([]byte, bool)
	// Set caches value under key.
	Set(key string, value []byte)
	// Capacity returns the effective byte budget.
	Capacity() int64
	// Size returns the current number of cached bytes.
	Size() int64
	// Stats returns hit/miss counters.
	Stats() (hits, misses int64)
}

// FileHandle is an open file checked out of the pool.
type FileHandle interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
	Stat() (os.FileInfo, error)
	Path() string
}

// FileHandlePool is the narrow contract the registry holds for the
// file-handle pool. The default implementation is handlepool.Pool.
type FileHandlePool interface {
	// Open returns a handle for path, reusing a pooled handle when
	// possible.
	Open(path string) (FileHandle, error)
	// Capacity returns the maximum number of idle handles kept open.
	Capacity() int
	// Stats returns reuse/open counters.
	Stats() (reused, opened int64)
}

// ContentCacheFactory constructs a content cache. totalSize is the byte
// budget, segmentSize its partition size, concurrent whether the cache
// must lock internally.
type ContentCacheFactory func(totalSize, segmentSize int64, concurrent bool) (ContentCache, error)

// FileHandlePoolFactory constructs a file-handle pool with the given
// capacity. concurrent has the same meaning as for content caches.
type FileHandlePoolFactory func(capacity int, concurrent bool) (FileHandlePool, error)

// singletonState tracks the lazy lifecycle of one cache singleton.
type singletonState uint8

const (
	stateUninitialized singletonState = iota
	stateFailed                       // last attempt failed; retried on a later access
	stateDisabled                     // terminal: configured size was 0 at first access
	stateInitialized                  // terminal: handle published
)

// Registry owns the cache configuration and the lazy singleton lifecycle
// of the two read-path caches. Construct one per process and inject it
// into consumers; tests construct isolated registries instead of sharing
// process state.
//
// The supported usage is to establish configuration once, serially, before
// concurrent cache access begins. The registry does not rely on that:
// every accessor is safe for concurrent use, and a racing first access
// publishes at most one handle.
type Registry struct {
	cfgMu sync.RWMutex
	cfg   Config

	contentFactory ContentCacheFactory
	poolFactory    FileHandlePoolFactory
	retryBackoff   time.Duration
	logger         *Logger

	content struct {
		mu        sync.Mutex
		state     singletonState
		handle    ContentCache
		nextRetry time.Time
	}

	handles struct {
		mu        sync.Mutex
		state     singletonState
		handle    FileHandlePool
		lastErr   error
		nextRetry time.Time
	}
}

// New creates a registry with the process-start default configuration.
func New(optFns ...Option) *Registry {
	o := applyOptions(optFns)

	r := &Registry{
		cfg:            DefaultConfig(),
		contentFactory: o.contentFactory,
		poolFactory:    o.poolFactory,
		retryBackoff:   o.retryBackoff,
		logger:         o.logger,
	}

	return r
}

// Config returns a snapshot of the current configuration.
func (r *Registry) Config() Config {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return r.cfg
}

// SetConfig replaces the configuration wholesale, then eagerly triggers
// construction of both singletons so allocation cost is paid now rather
// than on first real use. A singleton already built under a previous
// configuration is unaffected; only not-yet-built singletons pick up the
// new values. Construction failures are not reported here — they surface
// through the accessors on later use.
func (r *Registry) SetConfig(cfg Config) {
	r.cfgMu.Lock()
	r.cfg = cfg
	r.cfgMu.Unlock()

	r.ContentCache()
	r.FileHandleCache()
}

// ContentCache returns the process content cache, constructing it on first
// access from the current configuration. It reports false when the cache
// is disabled (configured size was 0 at first access, permanently) or when
// this attempt to construct it failed (retried on a later access).
func (r *Registry) ContentCache() (ContentCache, bool) {
	s := &r.content
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateInitialized:
		return s.handle, true
	case stateDisabled:
		return nil, false
	case stateFailed:
		if r.retryBackoff > 0 && time.Now().Before(s.nextRetry) {
			return nil, false
		}
	}

	cfg := r.Config()
	if cfg.CacheSizeBytes == 0 {
		s.state = stateDisabled
		r.logger.Debug("content cache disabled", "cache_size_bytes", 0)
		return nil, false
	}

	segmentSize := cfg.CacheSizeBytes / segmentDivisor
	concurrent := !cfg.SingleThreaded

	handle, err := r.contentFactory(cfg.CacheSizeBytes, segmentSize, concurrent)
	if err != nil {
		// Transient pressure must not disable the cache for good: the
		// singleton stays retryable and the next access tries again.
		s.state = stateFailed
		s.nextRetry = time.Now().Add(r.retryBackoff)
		r.logger.Warn("content cache construction failed",
			"cache_size_bytes", cfg.CacheSizeBytes,
			"segment_size_bytes", segmentSize,
			"error", err,
		)
		return nil, false
	}

	s.state = stateInitialized
	s.handle = handle
	r.logger.Info("content cache initialized",
		"cache_size_bytes", cfg.CacheSizeBytes,
		"segment_size_bytes", segmentSize,
		"concurrent", concurrent,
	)
	return handle, true
}

// FileHandleCache returns the process file-handle pool, constructing it on
// first access from the current configuration. Unlike the content cache
// there is no disabled state: capacity 0 still yields a valid pool. A
// factory failure leaves the singleton uninitialized so a later access
// retries; the error is returned so callers can decide how fatal it is.
func (r *Registry) FileHandleCache() (FileHandlePool, error) {
	s := &r.handles
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateInitialized:
		return s.handle, nil
	case stateFailed:
		if r.retryBackoff > 0 && time.Now().Before(s.nextRetry) {
			return nil, s.lastErr
		}
	}

	cfg := r.Config()
	concurrent := !cfg.SingleThreaded

	handle, err := r.poolFactory(cfg.MaxOpenFileHandles, concurrent)
	if err != nil {
		s.state = stateFailed
		s.lastErr = fmt.Errorf("%w: %w", ErrPoolConstruction, err)
		s.nextRetry = time.Now().Add(r.retryBackoff)
		r.logger.Error("file handle pool construction failed",
			"max_open_file_handles", cfg.MaxOpenFileHandles,
			"error", err,
		)
		return nil, s.lastErr
	}

	s.state = stateInitialized
	s.handle = handle
	r.logger.Info("file handle pool initialized",
		"max_open_file_handles", cfg.MaxOpenFileHandles,
		"concurrent", concurrent,
	)
	return handle, nil
}

// defaultRegistry backs the package-level convenience functions for
// callers that want the classic process-global entry points.
var defaultRegistry = New()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry { return defaultRegistry }

// GetCacheConfig returns the current configuration of the default registry.
func GetCacheConfig() Config { return defaultRegistry.Config() }

// SetCacheConfig replaces the configuration of the default registry and
// eagerly constructs its caches.
func SetCacheConfig(cfg Config) { defaultRegistry.SetConfig(cfg) }

// GetContentCache returns the default registry's content cache.
func GetContentCache() (ContentCache, bool) { return defaultRegistry.ContentCache() }

// GetFileHandleCache returns the default registry's file-handle pool.
func GetFileHandleCache() (FileHandlePool, error) { return defaultRegistry.FileHandleCache() }
