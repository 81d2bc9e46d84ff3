package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator hands out snapshot ids "snap-0001", "snap-0002", ...
//
// It replaces the store's UUIDv7 generator in tests so that persisted
// metadata and golden snapshots are byte-identical across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu  sync.Mutex
	seq int
}

// NewSequenceIDGenerator creates a generator whose first id is "snap-0001".
func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

// Generate returns the next id.
//
// Implements store.IDGenerator.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("snap-%04d", g.seq)
}

// Reset restarts the sequence. After Reset the next id is "snap-0001".
func (g *SequenceIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedIDGenerator returns the same id every time.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a fixed id generator.
// If id is empty, Generate returns "snap-fixed".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "snap-fixed"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
