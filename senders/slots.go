package senders

import "slices"

// slots hands out small integer ids, preferring the lowest returned one.
type slots struct {
	next     uint32
	returned []uint32 // sorted ascending, all < next
}

func (s *slots) acquire() uint32 {
	if len(s.returned) > 0 {
		id := s.returned[0]
		s.returned = s.returned[1:]
		return id
	}
	id := s.next
	s.next++
	return id
}

// release returns id to the pool. Releasing the highest id shrinks the fresh
// range and absorbs any returned ids that now sit at its end.
func (s *slots) release(id uint32) bool {
	if id >= s.next {
		return false
	}
	pos, found := slices.BinarySearch(s.returned, id)
	if found {
		return false
	}

	if id != s.next-1 {
		s.returned = slices.Insert(s.returned, pos, id)
		return true
	}
	s.next--
	for n := len(s.returned); n > 0 && s.returned[n-1] == s.next-1; n-- {
		s.returned = s.returned[:n-1]
		s.next--
	}
	return true
}

func (s *slots) active() int {
	return int(s.next) - len(s.returned)
}
