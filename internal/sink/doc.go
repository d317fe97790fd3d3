// Package sink provides writers that sit between a child's output stream
// and its final destination: streaming compressors, a BLAKE3 digest that
// counts and hashes the bytes it forwards, and a size-capped capture
// buffer.
package sink
