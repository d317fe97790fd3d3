package procfilter

import (
	"github.com/wagiedev/procfilter/internal/lookup"
	"github.com/wagiedev/procfilter/internal/multiplex"
	"github.com/wagiedev/procfilter/internal/subprocess"
)

// Process is a low-level handle on one child and its pipes.
type Process = subprocess.Process

// Direction is the data flow direction of a pipe.
type Direction = subprocess.Direction

// Pipe directions.
const (
	DirectionNone = subprocess.DirectionNone
	ParentToChild = subprocess.ParentToChild
	ChildToParent = subprocess.ChildToParent
)

// Multiplexer waits for readiness on a set of descriptors.
type Multiplexer = multiplex.Multiplexer

// NewProcess creates a Process handle configured by the logger, kill
// signal, environment, directory and search path options. Stream
// endpoints are ignored; pipes are configured with SetPipeDirection.
func NewProcess(opts ...Option) *Process {
	o := applyOptions(opts)

	return subprocess.New(&subprocess.Config{
		Logger:     o.Logger,
		KillSignal: o.KillSignal,
		Env:        o.Env,
		Dir:        o.Dir,
		Resolver: lookup.NewResolver(&lookup.Config{
			SearchPaths: o.SearchPaths,
			Logger:      o.Logger,
		}),
	})
}

// NewMultiplexer creates an empty Multiplexer.
func NewMultiplexer() *Multiplexer {
	return multiplex.New()
}

// ExitCode decodes a raw wait status as Execute does.
var ExitCode = subprocess.ExitCode
