package subprocess

import (
	"fmt"
	"slices"

	"github.com/wagiedev/procfilter/internal/errors"
)

// pipeTable maps a stream number in the child to its Pipe.
type pipeTable struct {
	pipes map[int]*Pipe
}

func newPipeTable() pipeTable {
	return pipeTable{pipes: make(map[int]*Pipe, 3)}
}

// set configures the pipe for stream. DirectionNone closes and removes it.
func (t *pipeTable) set(stream int, dir Direction) {
	pipe, ok := t.pipes[stream]

	if dir == DirectionNone {
		if ok {
			pipe.Close()
			delete(t.pipes, stream)
		}

		return
	}

	if ok {
		pipe.SetDirection(dir)

		return
	}

	t.pipes[stream] = NewPipe(dir)
}

// lookup returns the pipe for stream or a not-found LogicError.
func (t *pipeTable) lookup(stream int) (*Pipe, error) {
	pipe, ok := t.pipes[stream]
	if !ok {
		return nil, &errors.LogicError{
			Op:  "pipe lookup",
			Err: fmt.Errorf("%w: fd %d", errors.ErrUnknownStream, stream),
		}
	}

	return pipe, nil
}

// streams returns the configured stream numbers in ascending order.
func (t *pipeTable) streams() []int {
	streams := make([]int, 0, len(t.pipes))
	for stream := range t.pipes {
		streams = append(streams, stream)
	}

	slices.Sort(streams)

	return streams
}

func (t *pipeTable) closeParents() {
	for _, pipe := range t.pipes {
		pipe.CloseParent()
	}
}

func (t *pipeTable) closeChildren() {
	for _, pipe := range t.pipes {
		pipe.CloseChild()
	}
}
