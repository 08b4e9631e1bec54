package testutil

import "sync"

// FixedRunIDGenerator returns the same run id every time, so a scenario run
// twice writes byte-identical store rows.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a fixed run id generator.
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
// Implements store.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequenceRunIDGenerator returns predetermined run ids in order.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewSequenceRunIDGenerator creates a generator that returns ids in order.
//
//	gen := NewSequenceRunIDGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all run ids exhausted
func NewSequenceRunIDGenerator(ids ...string) *SequenceRunIDGenerator {
	return &SequenceRunIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
// Panics if all ids have been used.
func (g *SequenceRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("SequenceRunIDGenerator: all run ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
