// Package transcoder converts fixed-width code units to UTF-8 inside an arena.
//
// # Widths
//
//	Width   Source        Valid units                    UTF-8 per unit
//	──────────────────────────────────────────────────────────────────────
//	1       Latin-1       all of 0x00-0xFF               1-2 bytes
//	2       UCS-2         0x0000-0xFFFF minus surrogates 1-3 bytes
//	4       UCS-4         0-0x10FFFF minus surrogates    1-4 bytes
//
// Every code unit is an independent scalar value. UCS-2 input is not UTF-16:
// surrogate halves are rejected, never paired.
//
// # Encoding Flow
//
//  1. Reserve worst-case space (units × max bytes per unit) in the arena tail.
//  2. Validate and write each unit into the chunk's uncommitted tail.
//  3. Commit the written length and return a view of exactly those bytes.
//
// If a unit is invalid the arena is rolled back to its position before the
// call, including any chunk the call had to open, and an error carrying the
// offending unit is returned. Nothing the call wrote is ever visible.
//
// # ASCII Fast Path
//
// UCS-1 input is scanned eight bytes at a time for the high bit. An ASCII
// prefix is copied in one step. With Options.AliasASCII, all-ASCII input is
// returned as a view of the caller's own buffer and the arena is not touched;
// the caller must then keep that buffer alive and unchanged while the view is
// in use.
//
// # Runtime Width
//
// Encode takes native-endian raw bytes plus a width and dispatches to the
// typed paths. Widths other than 1, 2 and 4 fail with unsupported_width.
// Misaligned input is copied into pooled scratch memory first.
//
// # Thread Safety
//
// Encoder holds only options and is safe for concurrent use, but the arena
// passed to it is not: use one arena per goroutine.
package transcoder
