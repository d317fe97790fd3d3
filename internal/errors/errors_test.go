package errors

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemError(t *testing.T) {
	err := &SystemError{Op: "create pipe for fd 1", Errno: syscall.EMFILE}

	require.Equal(t, "create pipe for fd 1: too many open files", err.Error())
	require.ErrorIs(t, err, syscall.EMFILE)
	require.True(t, err.IsProcFilterError())
}

func TestNewSystemError(t *testing.T) {
	t.Run("errno is kept", func(t *testing.T) {
		err := NewSystemError("kill", fmt.Errorf("wrapped: %w", syscall.ESRCH))

		require.Equal(t, syscall.ESRCH, err.Errno)
	})

	t.Run("non errno becomes EIO", func(t *testing.T) {
		err := NewSystemError("poll", errors.New("odd failure"))

		require.Equal(t, syscall.EIO, err.Errno)
	})
}

func TestLogicError(t *testing.T) {
	err := &LogicError{Op: "wait", Err: ErrNoProcess}

	require.Equal(t, "wait: no subprocess spawned", err.Error())
	require.ErrorIs(t, err, ErrNoProcess)
	require.True(t, err.IsProcFilterError())
}

func TestProtocolError(t *testing.T) {
	err := &ProtocolError{Stream: 3, Direction: "none"}

	require.Equal(t, "invalid pipe direction for fd 3: none", err.Error())
	require.True(t, err.IsProcFilterError())
}

func TestStreamError(t *testing.T) {
	root := errors.New("disk full")
	err := &StreamError{Stream: 1, Op: "write output sink", Err: root}

	require.Equal(t, "write output sink (fd 1): disk full", err.Error())
	require.ErrorIs(t, err, root)
}

func TestExecutableNotFoundError(t *testing.T) {
	err := &ExecutableNotFoundError{Name: "showmount", SearchedPaths: []string{"$PATH", "/sbin"}}

	require.Equal(t, `executable "showmount" not found in: [$PATH /sbin]`, err.Error())
	require.ErrorIs(t, err, syscall.ENOENT)
	require.True(t, err.IsProcFilterError())
}

func TestCommandError_WithStderr(t *testing.T) {
	err := &CommandError{
		Name:     "umount",
		Args:     []string{"/mnt"},
		ExitCode: 32,
		Stderr:   "umount: /mnt: not mounted.",
	}

	require.Equal(t, "umount /mnt failed (exit 32): umount: /mnt: not mounted.", err.Error())
}

func TestCommandError_WithoutStderr(t *testing.T) {
	err := &CommandError{Name: "false", ExitCode: 1}

	require.Equal(t, "false failed (exit 1)", err.Error())
	require.True(t, err.IsProcFilterError())
}
