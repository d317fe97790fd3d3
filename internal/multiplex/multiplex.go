package multiplex

import (
	"math"
	"time"

	"golang.org/x/sys/unix"

	"github.com/wagiedev/procfilter/internal/errors"
)

// inactiveFD marks an entry that poll(2) must ignore.
const inactiveFD = -1

// PollFunc matches unix.Poll. It is replaceable so tests can simulate
// interrupted waits.
type PollFunc func(fds []unix.PollFd, timeout int) (int, error)

// Option configures a Multiplexer.
type Option func(*Multiplexer)

// WithPollFunc replaces the poll primitive.
func WithPollFunc(poll PollFunc) Option {
	return func(m *Multiplexer) {
		m.poll = poll
	}
}

// Multiplexer waits for readiness on a set of descriptors.
type Multiplexer struct {
	fds    []unix.PollFd
	active int
	poll   PollFunc
}

// New creates an empty Multiplexer.
func New(opts ...Option) *Multiplexer {
	m := &Multiplexer{poll: unix.Poll}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Add registers fd for the requested events and returns its index.
// A negative fd is stored as inactive and not counted by Active.
func (m *Multiplexer) Add(fd int, events int16) int {
	if fd < 0 {
		fd = inactiveFD
	} else {
		m.active++
	}

	m.fds = append(m.fds, unix.PollFd{Fd: int32(fd), Events: events})

	return len(m.fds) - 1
}

// Deactivate stops monitoring the entry at idx.
func (m *Multiplexer) Deactivate(idx int) {
	if m.fds[idx].Fd >= 0 {
		m.active--
	}

	m.fds[idx].Fd = inactiveFD
	m.fds[idx].Revents = 0
}

// Active returns the number of entries still monitored.
func (m *Multiplexer) Active() int {
	return m.active
}

// Len returns the number of entries, active or not.
func (m *Multiplexer) Len() int {
	return len(m.fds)
}

// FD returns the descriptor at idx, or -1 once deactivated.
func (m *Multiplexer) FD(idx int) int {
	return int(m.fds[idx].Fd)
}

// Revents returns the events reported for idx by the last Monitor call.
func (m *Multiplexer) Revents(idx int) int16 {
	return m.fds[idx].Revents
}

// Monitor blocks until at least one entry is ready or timeout elapses and
// returns the number of ready entries. A negative timeout blocks
// indefinitely. Interrupted waits are retried.
func (m *Multiplexer) Monitor(timeout time.Duration) (int, error) {
	ms := pollTimeout(timeout)

	for {
		n, err := m.poll(m.fds, ms)
		if err == unix.EINTR {
			continue
		}

		if err != nil {
			return 0, errors.NewSystemError("poll", err)
		}

		return n, nil
	}
}

// pollTimeout converts timeout to poll(2) milliseconds. Positive durations
// below one millisecond round up to 1 and long ones are clamped to MaxInt32.
func pollTimeout(timeout time.Duration) int {
	switch {
	case timeout < 0:
		return -1
	case timeout == 0:
		return 0
	case timeout < time.Millisecond:
		return 1
	case timeout/time.Millisecond > math.MaxInt32:
		return math.MaxInt32
	default:
		return int(timeout / time.Millisecond)
	}
}
