package errors

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// ProcFilterError is the base interface for all procfilter errors.
type ProcFilterError interface {
	error
	IsProcFilterError() bool
}

// Compile-time verification that all error types implement ProcFilterError.
var (
	_ ProcFilterError = (*SystemError)(nil)
	_ ProcFilterError = (*LogicError)(nil)
	_ ProcFilterError = (*ProtocolError)(nil)
	_ ProcFilterError = (*StreamError)(nil)
	_ ProcFilterError = (*ExecutableNotFoundError)(nil)
	_ ProcFilterError = (*CommandError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNoProcess indicates an operation that needs a live child was
	// called on a handle without one.
	ErrNoProcess = errors.New("no subprocess spawned")

	// ErrPIDMismatch indicates wait reaped a different pid than the one
	// the handle spawned.
	ErrPIDMismatch = errors.New("reaped pid does not match spawned pid")

	// ErrProcessRunning indicates spawn was called on a handle that still
	// owns a live child.
	ErrProcessRunning = errors.New("subprocess already running")

	// ErrUnknownStream indicates a pipe lookup for a stream number that
	// has no configured channel.
	ErrUnknownStream = errors.New("unknown stream")
)

// SystemError indicates an operating-system level failure.
type SystemError struct {
	// Op describes the failed operation, e.g. "create pipe for fd 1".
	Op string
	// Errno is the OS error number.
	Errno syscall.Errno
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Errno)
}

func (e *SystemError) Unwrap() error {
	return e.Errno
}

// IsProcFilterError implements ProcFilterError.
func (e *SystemError) IsProcFilterError() bool { return true }

// NewSystemError builds a SystemError from err. Errors that are not an
// errno are reported as EIO so callers always get a number.
func NewSystemError(op string, err error) *SystemError {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		errno = syscall.EIO
	}

	return &SystemError{Op: op, Errno: errno}
}

// LogicError indicates misuse of a process handle.
type LogicError struct {
	Op  string
	Err error
}

func (e *LogicError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *LogicError) Unwrap() error {
	return e.Err
}

// IsProcFilterError implements ProcFilterError.
func (e *LogicError) IsProcFilterError() bool { return true }

// ProtocolError indicates an invalid pipe direction supplied to spawn.
type ProtocolError struct {
	Stream    int
	Direction string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("invalid pipe direction for fd %d: %s", e.Stream, e.Direction)
}

// IsProcFilterError implements ProcFilterError.
func (e *ProtocolError) IsProcFilterError() bool { return true }

// StreamError indicates a caller-supplied source or sink failed.
type StreamError struct {
	Stream int
	Op     string
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s (fd %d): %v", e.Op, e.Stream, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// IsProcFilterError implements ProcFilterError.
func (e *StreamError) IsProcFilterError() bool { return true }

// ExecutableNotFoundError indicates the requested executable could not be
// resolved to a file.
type ExecutableNotFoundError struct {
	Name          string
	SearchedPaths []string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found in: %v", e.Name, e.SearchedPaths)
}

// Unwrap reports ENOENT so the error also matches errno checks.
func (e *ExecutableNotFoundError) Unwrap() error {
	return syscall.ENOENT
}

// IsProcFilterError implements ProcFilterError.
func (e *ExecutableNotFoundError) IsProcFilterError() bool { return true }

// CommandError indicates the command ran but exited with a non-zero code.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	command := strings.Join(append([]string{e.Name}, e.Args...), " ")
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed (exit %d): %s", command, e.ExitCode, e.Stderr)
	}

	return fmt.Sprintf("%s failed (exit %d)", command, e.ExitCode)
}

// IsProcFilterError implements ProcFilterError.
func (e *CommandError) IsProcFilterError() bool { return true }
