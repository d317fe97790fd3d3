// Package filter runs a child process with any of its standard streams
// connected to caller-supplied readers and writers, and copies data in
// both directions from a single goroutine until every connected stream is
// finished. Readiness is driven by poll(2) through package multiplex.
//
// Each stream owns one fixed buffer. A wake-up moves at most one buffer
// worth of data per stream, so memory use is bounded no matter how much
// the child produces.
package filter
