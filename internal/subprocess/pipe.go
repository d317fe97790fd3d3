package subprocess

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// closedFD marks a pipe end that is not open.
const closedFD = -1

// pipe2 allocates a pipe. Tests replace it to simulate allocation failure.
var pipe2 = unix.Pipe2

// Direction is the data flow of a Pipe.
type Direction int

const (
	// DirectionNone means the stream has no pipe.
	DirectionNone Direction = iota
	// ParentToChild carries data from this process to the child's stream.
	ParentToChild
	// ChildToParent carries data from the child's stream to this process.
	ChildToParent
)

// String returns the human-readable name of a direction.
func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case ParentToChild:
		return "parent-to-child"
	case ChildToParent:
		return "child-to-parent"
	default:
		return "unknown(" + strconv.Itoa(int(d)) + ")"
	}
}

// Pipe is one directional OS pipe bound to a standard stream. The parent
// end stays in this process, the child end is handed to the child.
type Pipe struct {
	dir      Direction
	parentFD int
	childFD  int
}

// NewPipe creates a closed Pipe with the given direction.
func NewPipe(dir Direction) *Pipe {
	return &Pipe{dir: dir, parentFD: closedFD, childFD: closedFD}
}

// Direction returns the configured direction.
func (p *Pipe) Direction() Direction {
	return p.dir
}

// ParentFD returns the parent end, or -1 when closed.
func (p *Pipe) ParentFD() int {
	return p.parentFD
}

// ChildFD returns the child end, or -1 when closed.
func (p *Pipe) ChildFD() int {
	return p.childFD
}

// SetDirection changes the direction. Changing the direction of an open
// pipe closes both ends first.
func (p *Pipe) SetDirection(dir Direction) {
	if p.dir == dir {
		return
	}

	p.Close()
	p.dir = dir
}

// Close closes both ends.
func (p *Pipe) Close() {
	p.CloseParent()
	p.CloseChild()
}

// CloseParent closes the parent end if it is open.
func (p *Pipe) CloseParent() {
	if p.parentFD >= 0 {
		_ = unix.Close(p.parentFD)
		p.parentFD = closedFD
	}
}

// CloseChild closes the child end if it is open.
func (p *Pipe) CloseChild() {
	if p.childFD >= 0 {
		_ = unix.Close(p.childFD)
		p.childFD = closedFD
	}
}

// open allocates the OS pipe and assigns its ends by direction.
func (p *Pipe) open() error {
	p.Close()

	var fds [2]int
	if err := pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return err
	}

	if p.dir == ParentToChild {
		p.parentFD, p.childFD = fds[1], fds[0]
	} else {
		p.parentFD, p.childFD = fds[0], fds[1]
	}

	return nil
}
