package arena

// MinChunkLen is the smallest capacity of a freshly allocated chunk.
const MinChunkLen = 1024

// Config holds arena settings.
type Config struct {
	// MinChunkLen is the minimum capacity of new chunks.
	// Values below the package MinChunkLen are raised to it.
	MinChunkLen int
}

// DefaultConfig returns the default arena configuration.
func DefaultConfig() Config {
	return Config{MinChunkLen: MinChunkLen}
}

// Position is a checkpoint of the committed end of an arena's chain.
type Position struct {
	Chain  int // number of chunks in the chain
	Offset int // committed length of the last chunk
}

// Arena is an append-only chain of chunks. Not goroutine-safe.
type Arena struct {
	chain       []*Chunk
	spare       *Chunk
	minChunkLen int
	used        int
	peak        int
	allocations int
	reuses      int
	released    bool
}

// New creates an empty Arena with the default configuration.
func New() *Arena {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an empty Arena. No chunk is allocated until the
// first ReserveTail.
func NewWithConfig(cfg Config) *Arena {
	if cfg.MinChunkLen < MinChunkLen {
		cfg.MinChunkLen = MinChunkLen
	}
	return &Arena{minChunkLen: cfg.MinChunkLen}
}

// Tell returns the current end of committed data.
func (a *Arena) Tell() Position {
	a.panicIfReleased()
	if len(a.chain) == 0 {
		return Position{}
	}
	return Position{Chain: len(a.chain), Offset: a.chain[len(a.chain)-1].n}
}

// Truncate rolls the arena back to pos, which must come from Tell on this
// arena. Chunks at index pos.Chain and above are dropped and the chunk at
// pos.Chain-1 is shortened to pos.Offset. Capacity is kept.
func (a *Arena) Truncate(pos Position) {
	a.panicIfReleased()
	if pos.Chain < 0 || pos.Chain > len(a.chain) {
		assertf("truncate to chain length %d, have %d chunks", pos.Chain, len(a.chain))
		return
	}
	if pos.Chain > 0 {
		if last := a.chain[pos.Chain-1]; pos.Offset < 0 || pos.Offset > last.n {
			assertf("truncate to offset %d, chunk %d holds %d bytes", pos.Offset, pos.Chain-1, last.n)
			return
		}
	}

	for i := pos.Chain; i < len(a.chain); i++ {
		a.keepSpare(a.chain[i])
		a.chain[i] = nil
	}
	a.chain = a.chain[:pos.Chain]
	if pos.Chain > 0 {
		a.chain[pos.Chain-1].n = pos.Offset
	}
	a.recount()
}

// Clear drops all data but keeps the first chunk's allocation.
// No-op on an empty chain.
func (a *Arena) Clear() {
	a.panicIfReleased()
	if len(a.chain) == 0 {
		return
	}
	a.Truncate(Position{Chain: 1})
}

// ReserveTail returns the tail chunk if it has at least n bytes of spare
// capacity, otherwise appends a new chunk of capacity max(n, MinChunkLen)
// and returns that. Existing chunks are never resized or moved.
func (a *Arena) ReserveTail(n int) *Chunk {
	a.panicIfReleased()
	if n < 0 {
		n = 0
	}
	if len(a.chain) > 0 {
		if last := a.chain[len(a.chain)-1]; len(last.buf)-last.n >= n {
			return last
		}
	}

	c := a.takeSpare(n)
	if c == nil {
		c = &Chunk{buf: make([]byte, max(n, a.minChunkLen)), owner: a}
		a.allocations++
	}
	a.chain = append(a.chain, c)
	return c
}

// Len returns the number of chunks in the chain.
func (a *Arena) Len() int {
	a.panicIfReleased()
	return len(a.chain)
}

// Chunk returns the i-th chunk of the chain.
func (a *Arena) Chunk(i int) *Chunk {
	a.panicIfReleased()
	return a.chain[i]
}

// Release drops all chunks and makes the arena unusable.
// Every view previously returned becomes invalid; later calls panic.
func (a *Arena) Release() {
	for i := range a.chain {
		a.chain[i].owner = nil
		a.chain[i] = nil
	}
	a.chain = nil
	a.spare = nil
	a.used = 0
	a.released = true
}

// Released reports whether Release has been called.
func (a *Arena) Released() bool {
	return a.released
}

// keepSpare remembers the largest dropped chunk for reuse.
func (a *Arena) keepSpare(c *Chunk) {
	if a.spare == nil || len(c.buf) > len(a.spare.buf) {
		c.n = 0
		a.spare = c
	}
}

func (a *Arena) takeSpare(n int) *Chunk {
	c := a.spare
	if c == nil || len(c.buf) < n {
		return nil
	}
	a.spare = nil
	c.n = 0
	a.reuses++
	return c
}

func (a *Arena) committed(n int) {
	a.used += n
	if a.used > a.peak {
		a.peak = a.used
	}
}

func (a *Arena) recount() {
	used := 0
	for _, c := range a.chain {
		used += c.n
	}
	a.used = used
}

func (a *Arena) panicIfReleased() {
	if a.released {
		panic("arena: use after Release()")
	}
}
