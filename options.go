package repocache

import (
	"time"

	"github.com/hupe1980/repocache/compress"
	"github.com/hupe1980/repocache/handlepool"
	"github.com/hupe1980/repocache/membuffer"
	"github.com/hupe1980/repocache/resource"
)

type options struct {
	contentFactory ContentCacheFactory
	poolFactory    FileHandlePoolFactory
	controller     *resource.Controller
	codec          compress.Codec
	retryBackoff   time.Duration
	logger         *Logger
}

// Option configures a Registry.
type Option func(*options)

// WithContentCacheFactory replaces the constructor used for the content
// cache. Tests use this to observe construction arguments or simulate
// allocation failure.
func WithContentCacheFactory(f ContentCacheFactory) Option {
	return func(o *options) {
		o.contentFactory = f
	}
}

// WithFileHandlePoolFactory replaces the constructor used for the
// file-handle pool.
func WithFileHandlePoolFactory(f FileHandlePoolFactory) Option {
	return func(o *options) {
		o.poolFactory = f
	}
}

// WithResourceController accounts the default content cache's budget
// against rc and throttles reads on the default handle pool.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithContentCodec compresses large content-cache values with c.
// Pass nil (the default) to store values uncompressed.
func WithContentCodec(c compress.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithRetryBackoff sets the minimum delay before a failed singleton
// construction is attempted again. The default of 0 retries on every
// access, matching the classic retry-until-success behavior; production
// deployments under sustained memory pressure should set a backoff.
func WithRetryBackoff(d time.Duration) Option {
	return func(o *options) {
		o.retryBackoff = d
	}
}

// WithLogger configures structured logging for singleton lifecycle events.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// poolAdapter exposes *handlepool.Pool through the FileHandlePool contract.
type poolAdapter struct {
	*handlepool.Pool
}

func (p poolAdapter) Open(path string) (FileHandle, error) {
	h, err := p.Pool.Open(path)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func applyOptions(optFns []Option) options {
	o := options{
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.logger == nil {
		o.logger = NoopLogger()
	}

	if o.contentFactory == nil {
		rc, codec := o.controller, o.codec
		o.contentFactory = func(totalSize, segmentSize int64, concurrent bool) (ContentCache, error) {
			return membuffer.New(totalSize, segmentSize, concurrent,
				membuffer.WithController(rc),
				membuffer.WithCodec(codec),
			)
		}
	}

	if o.poolFactory == nil {
		rc := o.controller
		o.poolFactory = func(capacity int, concurrent bool) (FileHandlePool, error) {
			return poolAdapter{handlepool.New(capacity, concurrent,
				handlepool.WithController(rc),
			)}, nil
		}
	}

	return o
}
