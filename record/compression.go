package record

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression applied to field values on disk.
type Compression uint8

const (
	// CompressionNone stores field values raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, modest ratio).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

// Field files are framed so they stay self-describing:
// [algo uint8][rawSize uint32 LE][payload]. algo CompressionNone means the
// payload is stored raw, which is also the fallback when compression does
// not pay for itself.
const frameHeaderSize = 5

// ZSTD encoder/decoder pools for efficiency
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

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

func frame(algo Compression, rawSize int, payload []byte) []byte {
	out := make([]byte, frameHeaderSize+len(payload))
	out[0] = byte(algo)
	binary.LittleEndian.PutUint32(out[1:], uint32(rawSize))
	copy(out[frameHeaderSize:], payload)
	return out
}

// encodeBlock frames and optionally compresses a field value.
// If compression saves less than 10%, the value is stored raw.
func encodeBlock(data []byte, compression Compression) ([]byte, error) {
	if compression == CompressionNone || len(data) == 0 {
		return frame(CompressionNone, len(data), data), nil
	}

	var compressed []byte
	var err error

	switch compression {
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZSTD:
		compressed = compressZSTD(data)
	default:
		return nil, fmt.Errorf("unknown compression type: %d", compression)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return frame(CompressionNone, len(data), data), nil
	}
	return frame(compression, len(data), compressed), nil
}

// decodeBlock is the inverse of encodeBlock.
func decodeBlock(block []byte) ([]byte, error) {
	if len(block) < frameHeaderSize {
		return nil, fmt.Errorf("block too short: %d bytes", len(block))
	}

	algo := Compression(block[0])
	rawSize := binary.LittleEndian.Uint32(block[1:])
	payload := block[frameHeaderSize:]

	switch algo {
	case CompressionNone:
		if int(rawSize) != len(payload) {
			return nil, fmt.Errorf("raw block size mismatch: header %d, payload %d", rawSize, len(payload))
		}
		return payload, nil

	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != int(rawSize) {
			return nil, fmt.Errorf("lz4 block size mismatch: header %d, got %d", rawSize, n)
		}
		return out, nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		out, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != int(rawSize) {
			return nil, fmt.Errorf("zstd block size mismatch: header %d, got %d", rawSize, len(out))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown compression type: %d", algo)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	var compressor lz4.Compressor
	n, err := compressor.CompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// n == 0 means incompressible
	return buf[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)
	return enc.EncodeAll(data, nil)
}
