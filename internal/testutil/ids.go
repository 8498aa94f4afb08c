package testutil

import "sync"

// FixedIDGenerator returns predetermined provenance IDs for testing.
//
// IDs are returned in order; once exhausted, the last ID repeats. With a
// single ID every generated table carries the same ID, which keeps golden
// output byte-identical between runs.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator returning ids in order.
//
// If no ids are given, Generate() returns "00000000-0000-7000-8000-000000000000".
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	if len(ids) == 0 {
		ids = []string{"00000000-0000-7000-8000-000000000000"}
	}
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.idx]
	if g.idx < len(g.ids)-1 {
		g.idx++
	}
	return id
}
