package sink

import "bytes"

// Capped keeps the first limit bytes written to it and drops the rest.
// Writes always report full success so a chatty child is never failed for
// exceeding the cap.
type Capped struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

// NewCapped creates a capture buffer holding at most limit bytes.
func NewCapped(limit int) *Capped {
	return &Capped{limit: limit}
}

// Write implements io.Writer.
func (c *Capped) Write(p []byte) (int, error) {
	room := c.limit - c.buf.Len()
	if room < len(p) {
		c.truncated = true
	}

	if room > 0 {
		c.buf.Write(p[:min(room, len(p))])
	}

	return len(p), nil
}

// Bytes returns the captured data.
func (c *Capped) Bytes() []byte {
	return c.buf.Bytes()
}

// String returns the captured data as a string.
func (c *Capped) String() string {
	return c.buf.String()
}

// Truncated reports whether data was dropped.
func (c *Capped) Truncated() bool {
	return c.truncated
}
