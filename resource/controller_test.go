package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryBudgetBytes: 100})

	err := c.ReserveMemory(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	err = c.ReserveMemory(40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Over budget
	err = c.ReserveMemory(20)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	err = c.ReserveMemory(20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.ReserveMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.ReserveMemory(1<<30))
	assert.True(t, c.TryReserveMemory(1<<30))
	c.ReleaseMemory(1 << 30)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.TryRead(1<<20))
	require.NoError(t, c.WaitRead(context.Background(), 1))
}

func TestController_ReadLimit(t *testing.T) {
	c := NewController(Config{ReadLimitBytesPerSec: 100})

	// Burst allows up to the per-second budget immediately.
	assert.True(t, c.TryRead(100))
	assert.False(t, c.TryRead(100))
}
