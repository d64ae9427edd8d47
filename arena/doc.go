// Package arena implements an append-only chain of fixed-capacity byte chunks
// with checkpoint and rollback.
//
// # Overview
//
// Bytes written through the arena never move. Each chunk is allocated once
// with a fixed capacity; when the tail chunk cannot hold the next write a new
// chunk is appended instead of resizing the old one. Slices handed out by
// Chunk.Commit therefore stay valid while more data is appended.
//
// # Checkpoints
//
// Tell returns a Position marking the current end of committed data.
// Truncate rolls back to such a position, dropping later chunks and
// shortening the chunk the position points into. Clear is Truncate to the
// start of the first chunk, keeping its allocation for reuse:
//
//	a := arena.New()
//	defer a.Release()
//
//	row := a.Tell()
//	c := a.ReserveTail(len(src))
//	n := copy(c.Spare(), src)
//	view := c.Commit(n)
//	...
//	a.Truncate(row) // view is no longer valid
//
// # Validity of views
//
// A view stays valid until the arena is released, or a Truncate or Clear
// removes the chunk or the byte range backing it. Views are capacity-clipped:
// appending to one reallocates instead of writing into the arena.
//
// # Misuse
//
// A Position whose chain length exceeds the current chain, or whose offset
// lies beyond the committed length, is a programming error. Builds with
// -tags utf8arena_debug panic on it; other builds ignore the call. Positions
// are only meaningful for the arena that produced them. Any call after
// Release panics.
//
// # Thread Safety
//
// Arena is not safe for concurrent use. It is meant for one goroutine
// building one message at a time.
package arena
