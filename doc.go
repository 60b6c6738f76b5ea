// Package repocache manages the read-path caches of a repository storage
// engine: a size-bounded in-memory content cache and a bounded pool of
// open file handles.
//
// A Registry owns the cache configuration and constructs each cache lazily,
// at most once per process. Configuration is replaced wholesale and takes
// effect only for caches that have not been built yet:
//
//	reg := repocache.New()
//	reg.SetConfig(repocache.Config{
//	    CacheSizeBytes:     256 << 20,
//	    MaxOpenFileHandles: 32,
//	})
//
//	if cc, ok := reg.ContentCache(); ok {
//	    cc.Set("rev:42:props", data)
//	}
//
//	pool, err := reg.FileHandleCache()
//	if err != nil {
//	    // pool construction is fatal for the read path
//	}
//
// A content-cache budget of 0 disables that cache permanently for the
// process; the handle pool is always available, even with capacity 0.
// Construction failures under memory pressure are retried on the next
// access rather than disabling the cache (see WithRetryBackoff).
//
// Package-level GetCacheConfig, SetCacheConfig, GetContentCache and
// GetFileHandleCache operate on a process-wide default registry for
// callers that want the classic global entry points; everything else
// should inject a *Registry.
//
// Package dav holds the inert protocol constants shared with the network
// transport layer.
package repocache
