package filter

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/errors"
)

func TestOutput(t *testing.T) {
	requireCommands(t, "sh")

	out, err := Output(nil, "sh", []string{"-c", "printf 'a\\nb\\n'; printf noise >&2"})
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", string(out))
}

func TestOutput_CommandError(t *testing.T) {
	requireCommands(t, "sh")

	out, err := Output(&config.Options{}, "sh", []string{"-c", "printf partial; printf '  bad things \\n' >&2; exit 2"})
	require.Equal(t, "partial", string(out))

	cmdErr, ok := stderrors.AsType[*errors.CommandError](err)
	require.True(t, ok)
	require.Equal(t, "sh", cmdErr.Name)
	require.Equal(t, 2, cmdErr.ExitCode)
	require.Equal(t, "bad things", cmdErr.Stderr)
	require.Contains(t, err.Error(), "bad things")
}

func TestOutput_StderrIsCapped(t *testing.T) {
	requireCommands(t, "head", "sh", "tr")

	_, err := Output(nil, "sh", []string{"-c", "head -c 200000 /dev/zero | tr '\\0' x >&2; exit 1"})

	cmdErr, ok := stderrors.AsType[*errors.CommandError](err)
	require.True(t, ok)
	require.Len(t, cmdErr.Stderr, maxStderrSize)
	require.Equal(t, strings.Repeat("x", 8), cmdErr.Stderr[:8])
}

func TestOutput_DoesNotMutateOptions(t *testing.T) {
	requireCommands(t, "sh")

	opts := &config.Options{}

	_, err := Output(opts, "sh", []string{"-c", "exit 0"})
	require.NoError(t, err)
	require.Nil(t, opts.Stdout)
	require.Nil(t, opts.Stderr)
}

func TestCheck(t *testing.T) {
	requireCommands(t, "sh")

	require.NoError(t, Check(nil, "sh", []string{"-c", "exit 0"}))

	err := Check(nil, "sh", []string{"-c", "echo 'no such device' >&2; exit 32"})

	cmdErr, ok := stderrors.AsType[*errors.CommandError](err)
	require.True(t, ok)
	require.Equal(t, 32, cmdErr.ExitCode)
	require.Equal(t, "no such device", cmdErr.Stderr)
}

func TestCheck_NotFound(t *testing.T) {
	err := Check(nil, "procfilter-no-such-binary", nil)

	_, ok := stderrors.AsType[*errors.ExecutableNotFoundError](err)
	require.True(t, ok)
}
