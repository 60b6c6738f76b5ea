package handlepool

import (
	"container/list"
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/repocache/internal/fs"
	"github.com/hupe1980/repocache/resource"
)

// locker lets single-threaded callers opt out of locking entirely.
type locker interface {
	Lock()
	Unlock()
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Pool is a bounded pool of reusable open file handles. Returning a handle
// parks it idle instead of closing it, so the read path avoids repeated
// open/close syscalls on hot revision files. A capacity of 0 is valid and
// yields a pool that closes every handle on return.
type Pool struct {
	mu       locker
	capacity int

	fs fs.FileSystem
	rc *resource.Controller

	idle     map[string][]*Handle
	idleList *list.List // least recently parked at the back

	reused atomic.Int64
	opened atomic.Int64
}

type options struct {
	fs         fs.FileSystem
	controller *resource.Controller
}

// Option configures pool construction.
type Option func(*options)

// WithFileSystem replaces the file system used to open handles.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithController throttles reads on pooled handles against the
// controller's read budget.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// New creates a handle pool holding up to capacity idle handles.
// concurrent=false removes internal locking for callers that guarantee
// single-threaded access. Construction cannot fail.
func New(capacity int, concurrent bool, optFns ...Option) *Pool {
	if capacity < 0 {
		capacity = 0
	}

	o := options{fs: fs.Default}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	var mu locker = nopLocker{}
	if concurrent {
		mu = &sync.Mutex{}
	}

	return &Pool{
		mu:       mu,
		capacity: capacity,
		fs:       o.fs,
		rc:       o.controller,
		idle:     map[string][]*Handle{},
		idleList: list.New(),
	}
}

// Open returns a handle for path, reusing an idle pooled handle when one
// exists. The handle is positioned at the start of the file.
func (p *Pool) Open(path string) (*Handle, error) {
	p.mu.Lock()
	if hs := p.idle[path]; len(hs) > 0 {
		h := hs[len(hs)-1]
		p.idle[path] = hs[:len(hs)-1]
		p.idleList.Remove(h.elem)
		h.elem = nil
		p.mu.Unlock()

		if _, err := h.f.Seek(0, io.SeekStart); err != nil {
			// A handle we cannot rewind is not worth keeping.
			_ = h.f.Close()
			return p.openNew(path)
		}
		h.closed = false
		p.reused.Add(1)
		return h, nil
	}
	p.mu.Unlock()

	return p.openNew(path)
}

func (p *Pool) openNew(path string) (*Handle, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return nil, err
	}
	adviseRandom(f)
	p.opened.Add(1)
	return &Handle{pool: p, path: path, f: f}, nil
}

// park returns a handle to the idle set, evicting the least recently
// parked handle when over capacity. Called from Handle.Close.
func (p *Pool) park(h *Handle) error {
	if p.capacity == 0 {
		return h.f.Close()
	}

	p.mu.Lock()
	h.elem = p.idleList.PushFront(h)
	p.idle[h.path] = append(p.idle[h.path], h)

	var evicted *Handle
	if p.idleList.Len() > p.capacity {
		back := p.idleList.Back()
		evicted = back.Value.(*Handle)
		p.removeIdleLocked(evicted)
	}
	p.mu.Unlock()

	if evicted != nil {
		return evicted.f.Close()
	}
	return nil
}

// removeIdleLocked unlinks h from the idle structures. p.mu must be held.
func (p *Pool) removeIdleLocked(h *Handle) {
	p.idleList.Remove(h.elem)
	h.elem = nil

	hs := p.idle[h.path]
	for i, cand := range hs {
		if cand == h {
			p.idle[h.path] = append(hs[:i], hs[i+1:]...)
			break
		}
	}
	if len(p.idle[h.path]) == 0 {
		delete(p.idle, h.path)
	}
}

// Capacity returns the maximum number of idle handles kept open.
func (p *Pool) Capacity() int { return p.capacity }

// Idle returns the current number of parked handles.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleList.Len()
}

// Stats returns how many Open calls reused a pooled handle and how many
// opened a new one.
func (p *Pool) Stats() (reused, opened int64) {
	return p.reused.Load(), p.opened.Load()
}

// Handle is an open file checked out of the pool. Closing it returns the
// underlying file to the pool rather than closing it, capacity permitting.
// A Handle must not be used concurrently.
type Handle struct {
	pool   *Pool
	path   string
	f      fs.File
	closed bool
	elem   *list.Element // set while parked idle
}

// Path returns the file path this handle was opened for.
func (h *Handle) Path() string { return h.path }

func (h *Handle) Read(b []byte) (int, error) {
	h.throttle(len(b))
	return h.f.Read(b)
}

func (h *Handle) ReadAt(b []byte, off int64) (int, error) {
	h.throttle(len(b))
	return h.f.ReadAt(b, off)
}

func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	return h.f.Seek(offset, whence)
}

func (h *Handle) Stat() (os.FileInfo, error) {
	return h.f.Stat()
}

// throttle applies the advisory read budget. Reads proceed even when the
// budget cannot be applied (e.g. a request larger than the limiter burst).
func (h *Handle) throttle(n int) {
	_ = h.pool.rc.WaitRead(context.Background(), n)
}

// Close returns the handle to the pool. The underlying file stays open
// while the pool has idle capacity.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.pool.park(h)
}
