package filter

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sys/unix"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/errors"
	"github.com/wagiedev/procfilter/internal/lookup"
	"github.com/wagiedev/procfilter/internal/multiplex"
	"github.com/wagiedev/procfilter/internal/subprocess"
)

// Standard stream numbers.
const (
	streamStdin  = 0
	streamStdout = 1
	streamStderr = 2
)

// inputStream feeds a source into the child's stdin.
type inputStream struct {
	src    io.Reader
	buf    []byte
	start  int
	end    int
	eof    bool
	idx    int
	fd     int
	active bool
}

// outputStream drains one of the child's output streams into a sink.
type outputStream struct {
	stream int
	dst    io.Writer
	buf    []byte
	idx    int
	fd     int
	active bool
	count  *int64
}

type executor struct {
	log     *slog.Logger
	proc    *subprocess.Process
	mux     *multiplex.Multiplexer
	input   *inputStream
	outputs []*outputStream
	result  *Result
}

// Execute runs name with args, connecting the endpoints set in opts, and
// returns once the child has exited and every connected stream has been
// drained. Streams without an endpoint are inherited from this process.
//
// Whatever happens after the child has been started, it is killed and
// reaped before Execute returns.
func Execute(opts *config.Options, name string, args []string) (*Result, error) {
	if opts == nil {
		opts = &config.Options{}
	}

	id := ulid.Make().String()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("component", "filter", "invocation", id)

	proc := subprocess.New(&subprocess.Config{
		Logger:     log,
		KillSignal: opts.KillSignal,
		Env:        opts.Env,
		Dir:        opts.Dir,
		Resolver: lookup.NewResolver(&lookup.Config{
			SearchPaths: opts.SearchPaths,
			Logger:      log,
		}),
	})
	defer proc.Close()

	if opts.Stdin != nil {
		proc.SetPipeDirection(streamStdin, subprocess.ParentToChild)
	}

	if opts.Stdout != nil {
		proc.SetPipeDirection(streamStdout, subprocess.ChildToParent)
	}

	if opts.Stderr != nil {
		proc.SetPipeDirection(streamStderr, subprocess.ChildToParent)
	}

	if err := proc.Spawn(name, args); err != nil {
		return nil, err
	}

	result := &Result{ID: id, PID: proc.Pid()}

	if opts.StartHook != nil {
		opts.StartHook(result.PID)
	}

	beforeReap := func() {}
	if opts.ReapHook != nil {
		beforeReap = sync.OnceFunc(func() { opts.ReapHook(result.PID) })
	}
	defer beforeReap()

	e := &executor{
		log:    log,
		proc:   proc,
		mux:    multiplex.New(),
		result: result,
	}

	if err := e.register(opts); err != nil {
		return nil, err
	}

	if err := e.run(opts.EffectivePollTimeout()); err != nil {
		log.Debug("Copy loop failed", "pid", result.PID, "error", err)

		return nil, err
	}

	beforeReap()

	status, err := proc.Wait()
	if err != nil {
		return nil, err
	}

	result.Status = status
	result.ExitCode = subprocess.ExitCode(status)

	log.Debug("Invocation finished",
		"name", name,
		"pid", result.PID,
		"exit_code", result.ExitCode,
		"iterations", result.Iterations,
		"bytes_in", result.BytesIn,
		"bytes_out", result.BytesOut,
		"bytes_err", result.BytesErr,
	)

	return result, nil
}

// register adds every configured pipe to the multiplexer.
func (e *executor) register(opts *config.Options) error {
	size := opts.EffectiveBufferSize()

	if opts.Stdin != nil {
		fd, err := e.proc.PipeFD(streamStdin)
		if err != nil {
			return err
		}

		e.input = &inputStream{
			src:    opts.Stdin,
			buf:    make([]byte, size),
			idx:    e.mux.Add(fd, unix.POLLOUT),
			fd:     fd,
			active: true,
		}
	}

	sinks := []struct {
		stream int
		dst    io.Writer
		count  *int64
	}{
		{streamStdout, opts.Stdout, &e.result.BytesOut},
		{streamStderr, opts.Stderr, &e.result.BytesErr},
	}

	for _, s := range sinks {
		if s.dst == nil {
			continue
		}

		fd, err := e.proc.PipeFD(s.stream)
		if err != nil {
			return err
		}

		e.outputs = append(e.outputs, &outputStream{
			stream: s.stream,
			dst:    s.dst,
			buf:    make([]byte, size),
			idx:    e.mux.Add(fd, unix.POLLIN),
			fd:     fd,
			active: true,
			count:  s.count,
		})
	}

	return nil
}

// run services ready streams until none is left.
func (e *executor) run(timeout time.Duration) error {
	for e.mux.Active() > 0 {
		e.result.Iterations++

		if _, err := e.mux.Monitor(timeout); err != nil {
			return err
		}

		if e.input != nil && e.input.active {
			if err := e.pumpInput(); err != nil {
				return err
			}
		}

		for _, out := range e.outputs {
			if !out.active {
				continue
			}

			if err := e.pumpOutput(out); err != nil {
				return err
			}
		}
	}

	return nil
}

// pumpInput moves at most one buffer refill and one write towards the
// child's stdin.
func (e *executor) pumpInput() error {
	in := e.input

	revents := e.mux.Revents(in.idx)
	if revents == 0 {
		return nil
	}

	if revents&unix.POLLOUT == 0 {
		e.closeInput("child closed its stdin")

		return nil
	}

	if in.start == in.end && !in.eof {
		n, err := in.src.Read(in.buf)
		in.start, in.end = 0, n

		switch {
		case err == io.EOF:
			in.eof = true
		case err != nil:
			return &errors.StreamError{Stream: streamStdin, Op: "read input", Err: err}
		}
	}

	if in.start == in.end {
		if in.eof {
			e.closeInput("end of input")
		}

		return nil
	}

	n, err := unix.Write(in.fd, in.buf[in.start:in.end])
	if err != nil {
		switch {
		case stderrors.Is(err, unix.EAGAIN), stderrors.Is(err, unix.EINTR):
			return nil
		case stderrors.Is(err, unix.EPIPE):
			e.closeInput("child closed its stdin")

			return nil
		default:
			return errors.NewSystemError(fmt.Sprintf("write to fd %d", streamStdin), err)
		}
	}

	in.start += n
	e.result.BytesIn += int64(n)

	if in.start == in.end && in.eof {
		e.closeInput("end of input")
	}

	return nil
}

// closeInput stops feeding the child. Closing the parent end delivers
// end-of-file to the child.
func (e *executor) closeInput(reason string) {
	in := e.input

	if pending := in.end - in.start; pending > 0 || !in.eof {
		e.log.Debug("Discarding remaining input", "reason", reason, "pending", pending)
	}

	e.mux.Deactivate(in.idx)
	e.proc.SetPipeDirection(streamStdin, subprocess.DirectionNone)

	in.active = false
	in.start, in.end = 0, 0
}

// pumpOutput performs at most one read from a child's output stream and
// forwards what it got.
func (e *executor) pumpOutput(out *outputStream) error {
	if e.mux.Revents(out.idx) == 0 {
		return nil
	}

	n, err := unix.Read(out.fd, out.buf)
	if err != nil {
		if stderrors.Is(err, unix.EAGAIN) || stderrors.Is(err, unix.EINTR) {
			return nil
		}

		return errors.NewSystemError(fmt.Sprintf("read from fd %d", out.stream), err)
	}

	if n == 0 {
		e.mux.Deactivate(out.idx)
		e.proc.SetPipeDirection(out.stream, subprocess.DirectionNone)
		out.active = false

		return nil
	}

	if _, err := out.dst.Write(out.buf[:n]); err != nil {
		return &errors.StreamError{Stream: out.stream, Op: "write output", Err: err}
	}

	*out.count += int64(n)

	return nil
}
