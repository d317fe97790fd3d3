package sink

import (
	"bytes"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestParseCodec(t *testing.T) {
	for name, want := range map[string]Codec{
		"":     CodecNone,
		"none": CodecNone,
		"zstd": CodecZstd,
		"lz4":  CodecLZ4,
	} {
		got, err := ParseCodec(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseCodec("gzip")
	require.ErrorContains(t, err, `unknown codec: "gzip"`)
}

func TestCodec_Extension(t *testing.T) {
	require.Equal(t, ".zst", CodecZstd.Extension())
	require.Equal(t, ".lz4", CodecLZ4.Extension())
	require.Empty(t, CodecNone.Extension())
}

func TestCompressor_RoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("kernel dump page 0123456789abcdef\n", 4096))

	for _, codec := range []Codec{CodecNone, CodecZstd, CodecLZ4} {
		t.Run(string(codec), func(t *testing.T) {
			var compressed bytes.Buffer

			w, err := NewCompressor(&compressed, codec)
			require.NoError(t, err)

			// Write in uneven pieces as a copy loop would.
			for rest := payload; len(rest) > 0; {
				n := min(len(rest), 8191)
				_, err := w.Write(rest[:n])
				require.NoError(t, err)

				rest = rest[n:]
			}

			require.NoError(t, w.Close())

			if codec != CodecNone {
				require.Less(t, compressed.Len(), len(payload))
			}

			r, err := NewDecompressor(&compressed, codec)
			require.NoError(t, err)

			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, payload, got)
		})
	}
}

func TestCompressor_UnsupportedCodec(t *testing.T) {
	_, err := NewCompressor(io.Discard, Codec("xz"))
	require.Error(t, err)

	_, err = NewDecompressor(strings.NewReader(""), Codec("xz"))
	require.Error(t, err)
}

func TestDigest(t *testing.T) {
	var out bytes.Buffer

	d := NewDigest(&out)

	_, err := d.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = d.Write([]byte("world"))
	require.NoError(t, err)

	want := blake3.Sum256([]byte("hello world"))

	require.Equal(t, "hello world", out.String())
	require.Equal(t, int64(11), d.Size())
	require.Equal(t, hex.EncodeToString(want[:]), d.Sum())
}

func TestDigest_NilWriterDiscards(t *testing.T) {
	d := NewDigest(nil)

	n, err := d.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, int64(3), d.Size())
}

func TestCapped(t *testing.T) {
	c := NewCapped(5)

	n, err := c.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.False(t, c.Truncated())

	n, err = c.Write([]byte("defgh"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.True(t, c.Truncated())

	_, err = c.Write([]byte("ij"))
	require.NoError(t, err)

	require.Equal(t, "abcde", c.String())
	require.Equal(t, []byte("abcde"), c.Bytes())
}
