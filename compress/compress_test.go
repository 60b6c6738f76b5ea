package compress

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Roundtrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("delta window "), 1024)

	incompressible := make([]byte, 4096)
	_, err := rand.Read(incompressible)
	require.NoError(t, err)

	codecs := []Codec{Identity{}, LZ4{}, Zstd{}}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			for _, data := range [][]byte{compressible, incompressible, {}} {
				enc, err := c.Compress(data)
				require.NoError(t, err)

				dec, err := c.Decompress(enc)
				require.NoError(t, err)
				assert.Equal(t, data, dec)
			}
		})
	}
}

func TestCodec_CompressibleShrinks(t *testing.T) {
	data := bytes.Repeat([]byte("fulltext block "), 4096)

	for _, c := range []Codec{LZ4{}, Zstd{}} {
		enc, err := c.Compress(data)
		require.NoError(t, err)
		assert.Less(t, len(enc), len(data), c.Name())
	}
}

func TestCodec_TruncatedFrame(t *testing.T) {
	for _, c := range []Codec{LZ4{}, Zstd{}} {
		_, err := c.Decompress([]byte{1, 2})
		assert.Error(t, err, c.Name())
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"identity", "lz4", "zstd"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("snappy")
	assert.False(t, ok)
}
