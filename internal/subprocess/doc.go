// Package subprocess spawns a child process with some of its standard
// streams connected to pipes owned by the caller.
//
// A Process is configured with one Pipe per stream number before Spawn.
// Spawn allocates the pipes, starts the executable with the child ends
// duplicated onto their stream numbers and keeps only the parent ends open
// in this process. Parent ends are close-on-exec and non-blocking, so they
// are suitable for a poll(2) driven copy loop and never leak into unrelated
// children.
//
// Child exec failures are reported through the close-on-exec status pipe of
// syscall.ForkExec: the child writes its errno and exits without running any
// Go code, and Spawn returns the errno as a SystemError.
//
// Close must be called on every Process. It closes the parent ends and, if a
// child is still alive, kills and reaps it.
package subprocess
