package subprocess

import "golang.org/x/sys/unix"

// signalExitBase is added to the signal number of a child killed by a
// signal, following the shell convention.
const signalExitBase = 128

// ExitCode decodes a raw wait status. A normally terminated child yields its
// exit code, a child terminated by signal N yields 128+N, anything else -1.
func ExitCode(status unix.WaitStatus) int {
	switch {
	case status.Exited():
		return status.ExitStatus()
	case status.Signaled():
		return signalExitBase + int(status.Signal())
	default:
		return -1
	}
}
