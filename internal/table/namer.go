package table

import (
	"strconv"
	"sync/atomic"
)

// Namer hands out the counter suffixes used to name derived tables.
//
// Every derived table is named base + n where n is drawn from the namer of
// its left operand, so two derivations never share a name as long as they
// share a Namer.
//
// Thread-safety: Namer is safe for concurrent use (atomic operations).
type Namer struct {
	seq atomic.Int64
}

// DefaultNamer is used by tables created without WithNamer.
var DefaultNamer = NewNamer()

// NewNamer creates a namer whose first suffix is 0.
func NewNamer() *Namer {
	return &Namer{}
}

// Next returns the next suffix and advances the counter.
// Calls are linearizable - each call returns a unique, increasing value.
func (n *Namer) Next() int64 {
	return n.seq.Add(1) - 1
}

// Current returns the suffix the next call to Next will return.
func (n *Namer) Current() int64 {
	return n.seq.Load()
}

// Derive returns base with the next suffix appended.
func (n *Namer) Derive(base string) string {
	return base + strconv.FormatInt(n.Next(), 10)
}
