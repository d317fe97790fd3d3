// Package multiplex provides a readiness wait over a flat list of file
// descriptors.
//
// A Multiplexer is a thin layer over poll(2). Entries are added once and
// deactivated in place, so indexes returned by Add stay valid for the
// lifetime of the Multiplexer. The owning loop runs while Active reports a
// non-zero count.
package multiplex
