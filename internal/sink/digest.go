package sink

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// Digest forwards writes to an underlying writer while counting and hashing
// the bytes that were accepted.
type Digest struct {
	w      io.Writer
	hasher *blake3.Hasher
	size   int64
}

// NewDigest wraps w. A nil w discards the data and only hashes it.
func NewDigest(w io.Writer) *Digest {
	if w == nil {
		w = io.Discard
	}

	return &Digest{w: w, hasher: blake3.New()}
}

// Write implements io.Writer.
func (d *Digest) Write(p []byte) (int, error) {
	n, err := d.w.Write(p)
	if n > 0 {
		_, _ = d.hasher.Write(p[:n])
		d.size += int64(n)
	}

	return n, err
}

// Sum returns the hex encoded BLAKE3-256 of the bytes written so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.hasher.Sum(nil))
}

// Size returns the number of bytes written so far.
func (d *Digest) Size() int64 {
	return d.size
}
