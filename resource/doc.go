// Package resource maps small integer handles to host-side values.
//
// Handles are what crosses a foreign-function boundary in place of Go
// pointers: a guest holds a Handle, the host looks the value up on every call
// and rejects handles it never issued or has already removed.
//
// # Handle Table
//
//	table := resource.NewTable[*arena.Arena]()
//
//	// Insert a value, get a handle
//	h := table.Insert(arena.New())
//
//	// Retrieve value by handle
//	a, ok := table.Get(h)
//
//	// Remove and take the value back
//	a, ok = table.Remove(h)
//
// Handle 0 is never issued. Removed handles are reused, most recently freed
// first.
//
// # Memory Management
//
// Values are not released on Remove; the caller owns what Remove returns.
// Close removes every remaining value and calls Release on those that
// implement Releaser. After Close, Insert returns 0.
package resource
