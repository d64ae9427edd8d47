package arena

// Chunk is a fixed-capacity byte buffer. Its backing memory is allocated once
// and never moves; only its committed length changes.
type Chunk struct {
	buf   []byte // len(buf) is the capacity
	owner *Arena
	n     int
}

// Len returns the committed length.
func (c *Chunk) Len() int { return c.n }

// Cap returns the fixed capacity.
func (c *Chunk) Cap() int { return len(c.buf) }

// Spare returns the uncommitted tail of the chunk for writing.
// Bytes written here are invisible to every view until Commit.
func (c *Chunk) Spare() []byte { return c.buf[c.n:] }

// Commit extends the committed length by n bytes and returns a view of them.
// The view's capacity ends at its length.
func (c *Chunk) Commit(n int) []byte {
	if n < 0 || n > len(c.buf)-c.n {
		panic("arena: commit beyond chunk capacity")
	}
	start := c.n
	c.n += n
	if c.owner != nil {
		c.owner.committed(n)
	}
	return c.buf[start:c.n:c.n]
}

// Bytes returns the committed contents.
func (c *Chunk) Bytes() []byte { return c.buf[:c.n:c.n] }
