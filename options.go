package procfilter

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/sys/unix"

	"github.com/wagiedev/procfilter/internal/config"
)

// Options configures an invocation.
type Options = config.Options

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithStdin copies r to the child's standard input.
func WithStdin(r io.Reader) Option {
	return func(o *Options) {
		o.Stdin = r
	}
}

// WithStdout sends the child's standard output to w.
func WithStdout(w io.Writer) Option {
	return func(o *Options) {
		o.Stdout = w
	}
}

// WithStderr sends the child's standard error to w.
func WithStderr(w io.Writer) Option {
	return func(o *Options) {
		o.Stderr = w
	}
}

// WithBufferSize sets the per-stream copy buffer size.
func WithBufferSize(size int) Option {
	return func(o *Options) {
		o.BufferSize = size
	}
}

// WithPollTimeout bounds each readiness wait.
func WithPollTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.PollTimeout = timeout
	}
}

// WithKillSignal sets the first signal sent to a child that is still
// running when the invocation is aborted. A child that survives it is
// killed with SIGKILL after a grace period.
func WithKillSignal(sig unix.Signal) Option {
	return func(o *Options) {
		o.KillSignal = sig
	}
}

// WithEnv sets the child environment.
func WithEnv(env []string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithDir sets the child working directory.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// WithSearchPaths adds directories searched for the executable after $PATH
// and the system binary directories.
func WithSearchPaths(paths ...string) Option {
	return func(o *Options) {
		o.SearchPaths = append(o.SearchPaths, paths...)
	}
}

// WithStartHook registers a function called with the child's pid once it
// has been started.
func WithStartHook(hook func(pid int)) Option {
	return func(o *Options) {
		o.StartHook = hook
	}
}

// WithReapHook registers a function called with the child's pid just
// before it is reaped. After the hook returns the pid may be reused.
func WithReapHook(hook func(pid int)) Option {
	return func(o *Options) {
		o.ReapHook = hook
	}
}
