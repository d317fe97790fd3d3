package subprocess

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/wagiedev/procfilter/internal/errors"
	"github.com/wagiedev/procfilter/internal/lookup"
)

// noPID marks a handle without a live child.
const noPID = -1

// inheritedStreams are passed through to the child when not piped.
const inheritedStreams = 3

const (
	// closeGracePeriod is how long Close waits after a non-SIGKILL kill
	// signal before escalating.
	closeGracePeriod  = 2 * time.Second
	closePollInterval = 10 * time.Millisecond
)

// Config holds configuration for a Process.
type Config struct {
	// Logger receives debug output. If nil, logging is disabled.
	Logger *slog.Logger

	// KillSignal is sent by Kill and first by Close, which escalates to
	// SIGKILL when the child outlives it. Defaults to SIGKILL.
	KillSignal unix.Signal

	// Env is the child environment. If nil, the current environment is used.
	Env []string

	// Dir is the child working directory. If empty, it is inherited.
	Dir string

	// Resolver maps the executable name to a path. Defaults to a resolver
	// with lookup.DefaultSearchPaths.
	Resolver lookup.Resolver
}

// Process is a handle on one child process and the pipes to its streams.
// A Process is not safe for concurrent use.
type Process struct {
	log        *slog.Logger
	cfg        *Config
	resolver   lookup.Resolver
	pid        int
	killSignal unix.Signal
	pipes      pipeTable
}

// New creates a Process handle. No child exists until Spawn.
func New(cfg *Config) *Process {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	killSignal := cfg.KillSignal
	if killSignal == 0 {
		killSignal = unix.SIGKILL
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = lookup.NewResolver(&lookup.Config{Logger: log})
	}

	return &Process{
		log:        log.With("component", "subprocess"),
		cfg:        cfg,
		resolver:   resolver,
		pid:        noPID,
		killSignal: killSignal,
		pipes:      newPipeTable(),
	}
}

// Pid returns the child pid, or -1 when there is no live child.
func (p *Process) Pid() int {
	return p.pid
}

// SetPipeDirection configures the pipe for a child stream number.
// DirectionNone closes the pipe and removes it.
func (p *Process) SetPipeDirection(stream int, dir Direction) {
	p.pipes.set(stream, dir)
}

// PipeDirection returns the configured direction for stream.
func (p *Process) PipeDirection(stream int) Direction {
	pipe, ok := p.pipes.pipes[stream]
	if !ok {
		return DirectionNone
	}

	return pipe.Direction()
}

// PipeFD returns the parent end of the pipe for stream.
func (p *Process) PipeFD(stream int) (int, error) {
	pipe, err := p.pipes.lookup(stream)
	if err != nil {
		return closedFD, err
	}

	return pipe.ParentFD(), nil
}

// Spawn starts name with args. Every configured pipe is allocated and its
// child end becomes the child's stream of the same number. Standard
// streams without a pipe are inherited.
//
// On failure every descriptor opened by Spawn is closed again.
func (p *Process) Spawn(name string, args []string) error {
	p.log.Debug("Spawning subprocess", "name", name, "args", args)

	if p.pid != noPID {
		return &errors.LogicError{Op: "spawn", Err: errors.ErrProcessRunning}
	}

	streams := p.pipes.streams()

	for _, stream := range streams {
		dir := p.pipes.pipes[stream].Direction()
		if stream < 0 || (dir != ParentToChild && dir != ChildToParent) {
			return &errors.ProtocolError{Stream: stream, Direction: dir.String()}
		}
	}

	path, err := p.resolver.Resolve(name)
	if err != nil {
		return err
	}

	if err := p.openPipes(streams); err != nil {
		return err
	}

	env := p.cfg.Env
	if env == nil {
		env = os.Environ()
	}

	argv := make([]string, 0, len(args)+1)
	argv = append(argv, name)
	argv = append(argv, args...)

	pid, err := syscall.ForkExec(path, argv, &syscall.ProcAttr{
		Dir:   p.cfg.Dir,
		Env:   env,
		Files: p.childFiles(streams),
	})

	p.pipes.closeChildren()

	if err != nil {
		p.pipes.closeParents()
		p.log.Debug("Failed to start subprocess", "name", name, "path", path, "error", err)

		return errors.NewSystemError("execute "+name, err)
	}

	p.pid = pid
	p.log.Debug("Forked child", "pid", pid, "path", path)

	return nil
}

// openPipes allocates the pipe for each stream. Partial allocations are
// undone on failure.
func (p *Process) openPipes(streams []int) error {
	for _, stream := range streams {
		pipe := p.pipes.pipes[stream]

		op := ""

		err := pipe.open()
		if err != nil {
			op = fmt.Sprintf("create pipe for fd %d", stream)
		} else if err = unix.SetNonblock(pipe.ParentFD(), true); err != nil {
			op = fmt.Sprintf("set non-blocking mode for fd %d", stream)
		}

		if err != nil {
			p.pipes.closeParents()
			p.pipes.closeChildren()

			return errors.NewSystemError(op, err)
		}
	}

	return nil
}

// childFiles builds the descriptor table of the child. Entry i becomes
// fd i in the child; ^uintptr(0) closes it.
func (p *Process) childFiles(streams []int) []uintptr {
	size := inheritedStreams
	if n := len(streams); n > 0 && streams[n-1]+1 > size {
		size = streams[n-1] + 1
	}

	files := make([]uintptr, size)
	for i := range files {
		if i < inheritedStreams {
			files[i] = uintptr(i)
		} else {
			files[i] = ^uintptr(0)
		}
	}

	for _, stream := range streams {
		files[stream] = uintptr(p.pipes.pipes[stream].ChildFD())
	}

	return files
}

// Kill sends the configured kill signal to the child.
func (p *Process) Kill() error {
	return p.Signal(p.killSignal)
}

// Signal sends sig to the child.
func (p *Process) Signal(sig unix.Signal) error {
	p.log.Debug("Signalling subprocess", "pid", p.pid, "signal", sig)

	if p.pid == noPID {
		return &errors.LogicError{Op: "kill", Err: errors.ErrNoProcess}
	}

	if err := unix.Kill(p.pid, sig); err != nil {
		return errors.NewSystemError(fmt.Sprintf("send signal %d to pid %d", sig, p.pid), err)
	}

	return nil
}

// Wait blocks until the child changes state and returns the raw status.
// The handle has no live child afterwards.
func (p *Process) Wait() (unix.WaitStatus, error) {
	p.log.Debug("Waiting for subprocess", "pid", p.pid)

	var status unix.WaitStatus

	if p.pid == noPID {
		return status, &errors.LogicError{Op: "wait", Err: errors.ErrNoProcess}
	}

	var (
		reaped int
		err    error
	)

	for {
		reaped, err = unix.Wait4(p.pid, &status, 0, nil)
		if err != unix.EINTR {
			break
		}
	}

	if err != nil {
		return status, errors.NewSystemError(fmt.Sprintf("get state of pid %d", p.pid), err)
	}

	if reaped != p.pid {
		return status, &errors.LogicError{
			Op:  "wait",
			Err: fmt.Errorf("%w: spawned pid %d but pid %d exited", errors.ErrPIDMismatch, p.pid, reaped),
		}
	}

	p.log.Debug("Subprocess exited", "pid", p.pid, "status", fmt.Sprintf("0x%04x", uint32(status)))

	p.pid = noPID

	return status, nil
}

// Close releases the handle. Parent pipe ends are closed, and a child that
// is still alive is killed and reaped. A child that survives the configured
// kill signal for closeGracePeriod is sent SIGKILL. Errors from that cleanup
// are only logged, so Close always returns nil.
func (p *Process) Close() error {
	p.pipes.closeParents()
	p.pipes.closeChildren()

	if p.pid == noPID {
		return nil
	}

	if err := p.Kill(); err != nil {
		p.log.Debug("Kill during close failed", "pid", p.pid, "error", err)
	}

	if p.killSignal != unix.SIGKILL && !p.reapedWithin(closeGracePeriod) {
		p.log.Debug("Subprocess survived kill signal, sending SIGKILL",
			"pid", p.pid, "signal", p.killSignal)

		if err := p.Signal(unix.SIGKILL); err != nil {
			p.log.Debug("SIGKILL during close failed", "pid", p.pid, "error", err)
		}
	}

	if p.pid == noPID {
		return nil
	}

	if _, err := p.Wait(); err != nil {
		p.log.Debug("Wait during close failed", "pid", p.pid, "error", err)

		p.pid = noPID
	}

	return nil
}

// reapedWithin polls the child without blocking until it exits or grace
// elapses. It reports whether the child was reaped.
func (p *Process) reapedWithin(grace time.Duration) bool {
	deadline := time.Now().Add(grace)

	for {
		var status unix.WaitStatus

		reaped, err := unix.Wait4(p.pid, &status, unix.WNOHANG, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			p.log.Debug("Polling subprocess state failed", "pid", p.pid, "error", err)

			return false
		case reaped == p.pid:
			p.log.Debug("Subprocess exited", "pid", p.pid, "status", fmt.Sprintf("0x%04x", uint32(status)))
			p.pid = noPID

			return true
		}

		if !time.Now().Before(deadline) {
			return false
		}

		time.Sleep(closePollInterval)
	}
}
