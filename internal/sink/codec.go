package sink

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a stream compression format.
type Codec string

const (
	// CodecNone passes data through unchanged.
	CodecNone Codec = "none"
	// CodecZstd writes a zstd stream at the default level.
	CodecZstd Codec = "zstd"
	// CodecLZ4 writes an LZ4 frame.
	CodecLZ4 Codec = "lz4"
)

// ParseCodec parses a codec name. The empty string means CodecNone.
func ParseCodec(name string) (Codec, error) {
	switch Codec(name) {
	case "", CodecNone:
		return CodecNone, nil
	case CodecZstd:
		return CodecZstd, nil
	case CodecLZ4:
		return CodecLZ4, nil
	default:
		return "", fmt.Errorf("unknown codec: %q", name)
	}
}

// Extension returns the conventional file suffix for the codec.
func (c Codec) Extension() string {
	switch c {
	case CodecZstd:
		return ".zst"
	case CodecLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// NewCompressor returns a writer compressing into w. Close flushes the
// final frame; it does not close w.
func NewCompressor(w io.Writer, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case "", CodecNone:
		return nopWriteCloser{w}, nil

	case CodecZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}

		return encoder, nil

	case CodecLZ4:
		return lz4.NewWriter(w), nil

	default:
		return nil, fmt.Errorf("unsupported codec: %q", codec)
	}
}

// NewDecompressor returns a reader decompressing r. Close releases decoder
// resources; it does not close r.
func NewDecompressor(r io.Reader, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case "", CodecNone:
		return io.NopCloser(r), nil

	case CodecZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}

		return decoder.IOReadCloser(), nil

	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil

	default:
		return nil, fmt.Errorf("unsupported codec: %q", codec)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
