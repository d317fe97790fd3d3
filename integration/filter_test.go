//go:build integration

package integration

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/procfilter"
	"github.com/wagiedev/procfilter/internal/sink"
)

// TestLargeStreamCompressed pushes a large random payload through cat into
// a zstd sink and checks digest and content on the way back.
func TestLargeStreamCompressed(t *testing.T) {
	requireCommands(t, "cat")

	const size = 64 << 20

	payload := make([]byte, size)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	var compressed bytes.Buffer

	w, err := sink.NewCompressor(&compressed, sink.CodecZstd)
	require.NoError(t, err)

	digest := sink.NewDigest(w)

	res, err := procfilter.Run("cat", nil,
		procfilter.WithStdin(bytes.NewReader(payload)),
		procfilter.WithStdout(digest),
		procfilter.WithBufferSize(1<<16),
	)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, int64(size), res.BytesOut)
	require.Equal(t, int64(size), digest.Size())

	r, err := sink.NewDecompressor(&compressed, sink.CodecZstd)
	require.NoError(t, err)

	defer r.Close()

	check := sink.NewDigest(nil)
	_, err = io.Copy(check, r)
	require.NoError(t, err)
	require.Equal(t, digest.Sum(), check.Sum())
}

// TestNoDescriptorLeak runs many short invocations and checks the
// descriptor table is unchanged afterwards.
func TestNoDescriptorLeak(t *testing.T) {
	requireCommands(t, "sh")

	before := openFDs(t)

	for range 200 {
		var out, errOut bytes.Buffer

		_, err := procfilter.Run("sh", []string{"-c", "cat; echo x >&2; exit 3"},
			procfilter.WithStdin(bytes.NewReader([]byte("data"))),
			procfilter.WithStdout(&out),
			procfilter.WithStderr(&errOut),
		)
		require.NoError(t, err)
	}

	require.Equal(t, before, openFDs(t))
}

// TestParallelInvocations runs many concurrent filters.
func TestParallelInvocations(t *testing.T) {
	requireCommands(t, "cat")

	var g errgroup.Group

	g.SetLimit(16)

	for i := range 64 {
		g.Go(func() error {
			in := bytes.Repeat([]byte{byte(i)}, 1<<20+i)

			out, err := procfilter.Output("cat", nil, procfilter.WithStdin(bytes.NewReader(in)))
			if err != nil {
				return err
			}

			if !bytes.Equal(in, out) {
				return io.ErrShortWrite
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}
