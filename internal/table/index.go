package table

import (
	"github.com/google/btree"

	"github.com/roach88/relalg/internal/value"
)

// indexDegree is the B-tree branching factor.
const indexDegree = 16

// indexEntry maps one key projection to the store positions of the tuples
// carrying it, in store order.
type indexEntry struct {
	key  value.Tuple
	rows []int
}

// keyIndex is the ordered key → tuples mapping of a table.
//
// Base tables reject duplicate keys on insert so every entry holds exactly
// one row. Operator outputs follow bag semantics and may hold several.
type keyIndex struct {
	tree *btree.BTreeG[*indexEntry]
}

func lessEntry(a, b *indexEntry) bool {
	return a.key.Compare(b.key) < 0
}

func newKeyIndex() *keyIndex {
	return &keyIndex{tree: btree.NewG(indexDegree, lessEntry)}
}

// lookup returns the entry for key, if present. O(log n).
func (ix *keyIndex) lookup(key value.Tuple) (*indexEntry, bool) {
	return ix.tree.Get(&indexEntry{key: key})
}

// add records that the tuple at row carries key.
func (ix *keyIndex) add(key value.Tuple, row int) {
	if e, ok := ix.lookup(key); ok {
		e.rows = append(e.rows, row)
		return
	}
	ix.tree.ReplaceOrInsert(&indexEntry{key: key, rows: []int{row}})
}

// len returns the number of distinct keys.
func (ix *keyIndex) len() int {
	return ix.tree.Len()
}

// ascend visits entries in key order until fn returns false.
func (ix *keyIndex) ascend(fn func(*indexEntry) bool) {
	ix.tree.Ascend(fn)
}

// IndexEntry is one key of the index with the tuples carrying it.
type IndexEntry struct {
	Key    value.Tuple
	Tuples []value.Tuple
}

// IndexEntries returns the index in ascending key order.
// The returned tuples are copies.
func (t *Table) IndexEntries() []IndexEntry {
	entries := make([]IndexEntry, 0, t.index.len())
	t.index.ascend(func(e *indexEntry) bool {
		tuples := make([]value.Tuple, len(e.rows))
		for i, row := range e.rows {
			tuples[i] = t.tuples[row].Clone()
		}
		entries = append(entries, IndexEntry{Key: e.key.Clone(), Tuples: tuples})
		return true
	})
	return entries
}

// DistinctKeys returns the number of distinct key projections stored.
func (t *Table) DistinctKeys() int {
	return t.index.len()
}

// KeyOf returns the key projection of tup.
func (t *Table) KeyOf(tup value.Tuple) value.Tuple {
	return tup.Gather(t.keyPos)
}
