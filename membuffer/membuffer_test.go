package membuffer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/repocache/compress"
	"github.com/hupe1980/repocache/resource"
)

func TestCache_GetSet(t *testing.T) {
	c, err := New(1<<20, 1<<16, true)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 16, c.SegmentCount())
	assert.Equal(t, int64(1<<20), c.Capacity())

	_, ok := c.Get("rev:1")
	assert.False(t, ok)

	c.Set("rev:1", []byte("node payload"))

	got, ok := c.Get("rev:1")
	require.True(t, ok)
	assert.Equal(t, []byte("node payload"), got)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCache_Remove(t *testing.T) {
	c, err := New(1<<20, 1<<16, true)
	require.NoError(t, err)
	defer c.Close()

	c.Set("k", []byte("v"))
	c.Remove("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Size())
}

func TestCache_EvictsWithinBudget(t *testing.T) {
	// Single segment so eviction order is observable.
	c, err := New(minTotalSize, minTotalSize, true)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, 1, c.SegmentCount())

	value := make([]byte, 8<<10)
	for i := 0; i < 32; i++ {
		c.Set(fmt.Sprintf("block:%d", i), value)
	}

	assert.LessOrEqual(t, c.Size(), c.Capacity())

	// The most recent entry survives, the oldest was evicted.
	_, ok := c.Get("block:31")
	assert.True(t, ok)
	_, ok = c.Get("block:0")
	assert.False(t, ok)
}

func TestCache_OversizedValueNotCached(t *testing.T) {
	c, err := New(1<<20, 1<<16, true)
	require.NoError(t, err)
	defer c.Close()

	c.Set("huge", make([]byte, 1<<20))

	_, ok := c.Get("huge")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Size())
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New(0, 0, true)
	assert.Error(t, err)

	_, err = New(-1, 0, true)
	assert.Error(t, err)
}

func TestNew_ShrinksUnderPressure(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryBudgetBytes: 1 << 20})

	c, err := New(4<<20, 256<<10, true, WithController(rc))
	require.NoError(t, err)
	defer c.Close()

	// 4 MiB halves twice to fit the 1 MiB budget.
	assert.Equal(t, int64(1<<20), c.Capacity())
	assert.Equal(t, int64(4<<20), c.RequestedCapacity())
	assert.Equal(t, int64(1<<20), rc.MemoryUsage())
}

func TestNew_FailsWhenBudgetDenied(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryBudgetBytes: 1 << 20})
	require.NoError(t, rc.ReserveMemory(1<<20))

	_, err := New(4<<20, 256<<10, true, WithController(rc))
	require.ErrorIs(t, err, resource.ErrBudgetExceeded)

	// Nothing extra stays reserved after the failed attempt.
	assert.Equal(t, int64(1<<20), rc.MemoryUsage())
}

func TestCache_CloseReleasesBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryBudgetBytes: 1 << 20})

	c, err := New(1<<20, 1<<16, true, WithController(rc))
	require.NoError(t, err)
	require.Equal(t, int64(1<<20), rc.MemoryUsage())

	require.NoError(t, c.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestCache_Compression(t *testing.T) {
	for _, codec := range []compress.Codec{compress.LZ4{}, compress.Zstd{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			c, err := New(1<<20, 1<<16, true,
				WithCodec(codec), WithCompressionThreshold(64))
			require.NoError(t, err)
			defer c.Close()

			var value []byte
			for i := 0; i < 256; i++ {
				value = append(value, "delta chunk "...)
			}
			c.Set("delta:1", value)

			// Stored compressed, returned intact.
			assert.Less(t, c.Size(), int64(len(value)))

			got, ok := c.Get("delta:1")
			require.True(t, ok)
			assert.Equal(t, value, got)
		})
	}
}

func TestCache_CompressionThreshold(t *testing.T) {
	c, err := New(1<<20, 1<<16, true,
		WithCodec(compress.Zstd{}), WithCompressionThreshold(1<<10))
	require.NoError(t, err)
	defer c.Close()

	small := []byte("tiny")
	c.Set("small", small)

	got, ok := c.Get("small")
	require.True(t, ok)
	assert.Equal(t, small, got)
}

func TestCache_SingleThreadedMode(t *testing.T) {
	c, err := New(1<<20, 1<<16, false)
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.Concurrent())

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, err := New(1<<20, 1<<16, true)
	require.NoError(t, err)
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("g%d:%d", g, i)
				c.Set(key, []byte(key))
				if got, ok := c.Get(key); ok {
					assert.Equal(t, []byte(key), got)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), c.Capacity())
}
