package resource

import "sync"

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Releaser is implemented by values that hold resources freed on Close.
type Releaser interface {
	Release()
}

type entry[T any] struct {
	value T
	valid bool
}

// Table is a handle table with free-list reuse. Safe for concurrent use.
type Table[T any] struct {
	entries  []entry[T]
	freeList []Handle
	live     int
	mu       sync.RWMutex
	closed   bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]Handle, 0, 8),
	}
}

// Insert stores a value and returns its handle, or 0 if the table is closed.
func (t *Table[T]) Insert(value T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}
	t.live++

	e := entry[T]{value: value, valid: true}
	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries))
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(h Handle) (T, bool) {
	var zero T
	if h == 0 {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(h) > len(t.entries) || !t.entries[h-1].valid {
		return zero, false
	}
	return t.entries[h-1].value, true
}

// Remove drops a handle and returns its value.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T
	if h == 0 {
		return zero, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(h) > len(t.entries) || !t.entries[h-1].valid {
		return zero, false
	}

	e := &t.entries[h-1]
	value := e.value
	e.value = zero
	e.valid = false
	t.freeList = append(t.freeList, h)
	t.live--
	return value, true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Close removes all values, releasing those that implement Releaser.
// Closing twice is a no-op.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	for i := range t.entries {
		if t.entries[i].valid {
			if r, ok := any(t.entries[i].value).(Releaser); ok {
				r.Release()
			}
		}
	}

	t.entries = nil
	t.freeList = nil
	t.live = 0
	return nil
}

// Closed reports whether Close has been called.
func (t *Table[T]) Closed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}
