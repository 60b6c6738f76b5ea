package repocache

import "errors"

var (
	// ErrPoolConstruction wraps a file-handle pool factory failure. The
	// pool has no disabled fallback, so callers should treat this as
	// fatal; the registry itself will retry on the next access.
	ErrPoolConstruction = errors.New("file handle pool construction failed")
)
