package filter

import "golang.org/x/sys/unix"

// Result describes a finished invocation.
type Result struct {
	// ID identifies the invocation in log output.
	ID string

	// PID is the process id the child ran as.
	PID int

	// ExitCode is the child's exit status, or 128+N when it was
	// terminated by signal N.
	ExitCode int

	// Status is the raw wait status.
	Status unix.WaitStatus

	// Iterations counts readiness waits of the copy loop.
	Iterations int

	// BytesIn is the number of bytes delivered to the child's stdin.
	BytesIn int64

	// BytesOut is the number of bytes read from the child's stdout.
	BytesOut int64

	// BytesErr is the number of bytes read from the child's stderr.
	BytesErr int64
}
