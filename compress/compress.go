package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec compresses and decompresses cache values.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Compress returns the compressed form of data. Implementations may
	// return data unchanged when compression does not help.
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress.
	Decompress(data []byte) ([]byte, error)
	// Name is a stable identifier for the codec.
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "identity":
		return Identity{}, true
	case "lz4":
		return LZ4{}, true
	case "zstd":
		return Zstd{}, true
	default:
		return nil, false
	}
}

// Identity is a pass-through codec.
type Identity struct{}

func (Identity) Compress(data []byte) ([]byte, error)   { return data, nil }
func (Identity) Decompress(data []byte) ([]byte, error) { return data, nil }
func (Identity) Name() string                           { return "identity" }

// Compressed values carry a small header so Decompress can size its output
// and recognize blocks stored raw when compression did not help.
// Format: [UncompressedSize uint32][Data...]; size 0 means stored raw.
const headerSize = 4

func frameRaw(data []byte) []byte {
	out := make([]byte, headerSize+len(data))
	copy(out[headerSize:], data)
	return out
}

func frameCompressed(uncompressedSize int, payload []byte) []byte {
	out := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(uncompressedSize))
	copy(out[headerSize:], payload)
	return out
}

func splitFrame(data []byte) (uncompressedSize int, payload []byte, err error) {
	if len(data) < headerSize {
		return 0, nil, fmt.Errorf("compress: truncated frame: %d bytes", len(data))
	}
	return int(binary.LittleEndian.Uint32(data)), data[headerSize:], nil
}

// LZ4 implements block compression using lz4 (fast, good for hot data).
type LZ4 struct{}

func (LZ4) Compress(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(data) {
		// Incompressible, store raw.
		return frameRaw(data), nil
	}

	return frameCompressed(len(data), buf[:n]), nil
}

func (LZ4) Decompress(data []byte) ([]byte, error) {
	size, payload, err := splitFrame(data)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return payload, nil
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(payload, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

func (LZ4) Name() string { return "lz4" }

// Zstd implements block compression using zstd (better ratio, good for cold data).
type Zstd struct{}

// Encoder/decoder pools amortize the cost of zstd contexts across calls.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func (Zstd) Compress(data []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)

	payload := enc.EncodeAll(data, nil)
	if len(payload) >= len(data) {
		return frameRaw(data), nil
	}

	return frameCompressed(len(data), payload), nil
}

func (Zstd) Decompress(data []byte) ([]byte, error) {
	size, payload, err := splitFrame(data)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return payload, nil
	}

	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	return dec.DecodeAll(payload, make([]byte, 0, size))
}

func (Zstd) Name() string { return "zstd" }
