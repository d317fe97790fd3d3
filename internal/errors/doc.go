// Package errors defines error types for procfilter.
//
// Transport failures are split into three families: SystemError for
// operating-system failures that carry an errno, LogicError for misuse of a
// process handle, and ProtocolError for an invalid pipe configuration handed
// to spawn. StreamError reports failures of caller-supplied sources and
// sinks. CommandError is different in kind: the command ran and exited
// non-zero, the transport itself worked.
//
// All error types support unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
