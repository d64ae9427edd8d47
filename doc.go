// Package utf8arena converts fixed-width Unicode code units into UTF-8 held
// in an append-only memory arena.
//
// Host runtimes often store strings as arrays of 1-, 2- or 4-byte code units
// (Latin-1, UCS-2, UCS-4). A wire encoder that builds a message out of many
// such strings wants stable slices into the converted bytes, and wants to
// throw away a half-built row without touching rows already committed. This
// module provides exactly that.
//
// # Architecture Overview
//
//	utf8arena/           Root package with the Width type
//	├── arena/           Chunked, address-stable byte arena with tell/truncate
//	├── transcoder/      UCS-1/2/4 to UTF-8 encoder writing into an arena
//	├── errors/          Structured error types
//	├── decimal/         256-bit limb to big-endian converter
//	├── senders/         Connection slot tracker with reconnect warnings
//	├── resource/        Handle table used by the boundary surface
//	├── abi/             Handle-based boundary contract, prometheus collector
//	├── wasmhost/        The boundary contract as a wazero host module
//	└── cmd/pystr/       Command line tool
//
// # Quick Start
//
//	a := arena.New()
//	defer a.Release()
//
//	row := a.Tell()
//	name, err := transcoder.UCS2(a, []uint16{0x569C, 0x61})
//	if err != nil {
//	    a.Truncate(row) // drop the whole row
//	}
//	fmt.Printf("%q\n", name) // "嚜a"
//
// # Memory Model
//
// The arena is a chain of chunks. A chunk is allocated once and never
// resized, so every slice returned by the transcoder stays valid until the
// range backing it is removed by Truncate or Clear, or the arena is released.
// When a chunk is full a new one is appended to the chain.
//
// # Thread Safety
//
// Arena and the transcoder are single-producer: one goroutine builds one
// message at a time. Use one arena per worker and reuse it with Clear.
// The boundary surface in package abi and the tracker in package senders are
// safe for concurrent use.
package utf8arena
