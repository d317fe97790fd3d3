package config

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultBufferSize is the per-stream copy buffer size.
const DefaultBufferSize = 8192

// BlockIndefinitely makes the filter loop wait for readiness without a
// timeout.
const BlockIndefinitely time.Duration = -1

// Options configures one filter invocation.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Stdin is copied to the child's standard input.
	// If nil, the child inherits this process's standard input.
	Stdin io.Reader

	// Stdout receives the child's standard output.
	// If nil, the child inherits this process's standard output.
	Stdout io.Writer

	// Stderr receives the child's standard error.
	// If nil, the child inherits this process's standard error.
	Stderr io.Writer

	// BufferSize is the size of the fixed buffer used per stream.
	// Defaults to DefaultBufferSize.
	BufferSize int

	// PollTimeout bounds each readiness wait. A timeout that expires with
	// nothing ready simply starts the next iteration.
	// Negative values block indefinitely; zero means BlockIndefinitely.
	PollTimeout time.Duration

	// KillSignal is sent first to a child that is still running when the
	// invocation is torn down. A child that outlives it for two seconds is
	// sent SIGKILL. Defaults to SIGKILL.
	KillSignal unix.Signal

	// Env is the child environment. If nil, the current environment is used.
	Env []string

	// Dir is the working directory of the child.
	Dir string

	// SearchPaths are extra directories searched for the executable after
	// $PATH and the system binary directories.
	SearchPaths []string

	// StartHook is called with the child's pid right after it is spawned.
	// The CLI uses it to forward signals.
	StartHook func(pid int)

	// ReapHook is called with the child's pid just before the child is
	// reaped, on success and on every error path. The pid is still owned
	// by the child while the hook runs.
	ReapHook func(pid int)
}

// EffectiveBufferSize returns BufferSize or its default.
func (o *Options) EffectiveBufferSize() int {
	if o.BufferSize <= 0 {
		return DefaultBufferSize
	}

	return o.BufferSize
}

// EffectivePollTimeout returns PollTimeout or its default.
func (o *Options) EffectivePollTimeout() time.Duration {
	if o.PollTimeout == 0 {
		return BlockIndefinitely
	}

	return o.PollTimeout
}
