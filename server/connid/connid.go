package connid

import "sync/atomic"

// Generator hands out connection ids. Ids start at 1 and are never reused.
type Generator struct {
	counter atomic.Uint64
}

// Next returns the next id.
func (g *Generator) Next() uint64 {
	return g.counter.Add(1)
}
