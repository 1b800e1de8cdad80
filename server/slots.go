package server

import "sync/atomic"

// playerSlots counts connections in the Play state against max_players.
type playerSlots struct {
	max  int64
	used atomic.Int64
}

func (s *playerSlots) Acquire() bool {
	for {
		n := s.used.Load()
		if n >= s.max {
			return false
		}
		if s.used.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (s *playerSlots) Release() {
	s.used.Add(-1)
}

// Online returns the number of held slots.
func (s *playerSlots) Online() int {
	return int(s.used.Load())
}
