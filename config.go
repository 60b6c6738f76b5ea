package repocache

// Defaults applied at process start, before any SetConfig call.
const (
	// DefaultCacheSizeBytes is the default content-cache budget (128 MiB).
	DefaultCacheSizeBytes = 128 << 20

	// DefaultMaxOpenFileHandles is the default number of files kept open.
	DefaultMaxOpenFileHandles = 16

	// segmentDivisor fixes how the content-cache budget is partitioned.
	segmentDivisor = 16
)

// Config is the cache sizing and behavior record. It is read and replaced
// as a whole; fields are never mutated in place. Values are not validated —
// out-of-range settings are the caller's responsibility.
type Config struct {
	// CacheSizeBytes is the total content-cache budget. A value of 0
	// disables the content cache entirely.
	CacheSizeBytes int64

	// MaxOpenFileHandles bounds the file-handle pool. 0 is legal and
	// yields a pool that never retains handles.
	MaxOpenFileHandles int

	// CacheFullTexts requests caching of whole file contents.
	CacheFullTexts bool

	// CacheDeltas requests caching of binary deltas.
	CacheDeltas bool

	// SingleThreaded promises that cache consumers will not access the
	// caches concurrently, letting the cache implementations skip
	// internal locking. It is advisory input to the constructors only;
	// the registry itself always locks.
	SingleThreaded bool
}

// DefaultConfig returns the configuration in effect at process start.
func DefaultConfig() Config {
	return Config{
		CacheSizeBytes:     DefaultCacheSizeBytes,
		MaxOpenFileHandles: DefaultMaxOpenFileHandles,
	}
}
