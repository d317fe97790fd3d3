package procfilter

import "github.com/wagiedev/procfilter/internal/errors"

// Re-export error types from internal package

// SystemError reports a failed operating system call with its errno.
type SystemError = errors.SystemError

// LogicError reports an operation that is invalid in the current state.
type LogicError = errors.LogicError

// ProtocolError reports a pipe configured with an invalid direction.
type ProtocolError = errors.ProtocolError

// StreamError reports a failure of a caller-supplied reader or writer.
type StreamError = errors.StreamError

// ExecutableNotFoundError indicates the executable could not be resolved.
type ExecutableNotFoundError = errors.ExecutableNotFoundError

// CommandError indicates a command ran and exited with a non-zero status.
type CommandError = errors.CommandError

// ProcFilterError is the base interface for all procfilter errors.
type ProcFilterError = errors.ProcFilterError

// Re-export sentinel errors from internal package.
var (
	// ErrNoProcess indicates an operation that needs a live child.
	ErrNoProcess = errors.ErrNoProcess

	// ErrPIDMismatch indicates wait reaped an unexpected process.
	ErrPIDMismatch = errors.ErrPIDMismatch

	// ErrUnknownStream indicates a stream number without a pipe.
	ErrUnknownStream = errors.ErrUnknownStream

	// ErrProcessRunning indicates a spawn on a handle that owns a live child.
	ErrProcessRunning = errors.ErrProcessRunning
)
