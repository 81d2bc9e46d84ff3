package table

import (
	"slices"
	"strings"

	"github.com/roach88/relalg/internal/value"
)

// Predicate decides whether a tuple is kept by Select.
// Predicates must not modify the tuple they are given.
type Predicate func(value.Tuple) bool

// Project keeps the named attributes, in the given order.
//
// The result key is t's key when every key attribute is projected, and the
// projected attribute list otherwise. Duplicate output tuples are kept (bag
// semantics), so a projection that drops part of the key may produce
// several tuples with one key projection.
func (t *Table) Project(names ...string) (*Table, error) {
	t.log().Debug("RA", "op", "project", "table", t.name, "attributes", strings.Join(names, " "))

	if len(names) == 0 {
		return nil, NewInvalidSchemaError(t.name, "projection requires at least one attribute")
	}
	if dup := firstDuplicate(names); dup != "" {
		return nil, NewDuplicateAttributeError(t.name, dup)
	}
	positions, err := t.ResolvePositions(names)
	if err != nil {
		return nil, err
	}

	key := names
	if containsAll(names, t.key) {
		key = t.key
	}

	out := t.derive(names, t.DomainsAt(positions), key)
	for _, tup := range t.tuples {
		out.appendRow(tup.Gather(positions))
	}
	return out, nil
}

// Select keeps the tuples for which pred returns true, in store order.
// A nil predicate keeps every tuple.
func (t *Table) Select(pred Predicate) *Table {
	t.log().Debug("RA", "op", "select", "table", t.name)

	out := t.derive(t.attributes, t.domains, t.key)
	for _, tup := range t.tuples {
		if pred == nil || pred(tup) {
			out.appendRow(tup)
		}
	}
	return out
}

// SelectKey keeps the tuples whose key projection equals key, found through
// the index in O(log n). The result is the same as
//
//	t.Select(t.KeyPredicate(key))
//
// key must have one value per key attribute, each of that attribute's
// domain; otherwise an ArityMismatch or DomainMismatch error is returned.
func (t *Table) SelectKey(key ...value.Value) (*Table, error) {
	t.log().Debug("RA", "op", "select_key", "table", t.name, "key", value.Tuple(key).String())

	if len(key) != len(t.keyPos) {
		return nil, NewArityMismatchError(t.name, "key", len(t.keyPos), len(key))
	}
	probe := make(value.Tuple, len(key))
	for i, v := range key {
		want := t.domains[t.keyPos[i]]
		if got := value.DomainOf(v); got != want {
			return nil, NewDomainMismatchError(t.name, i, want, got)
		}
		probe[i] = value.Normalize(v)
	}

	out := t.derive(t.attributes, t.domains, t.key)
	if e, ok := t.index.lookup(probe); ok {
		for _, row := range e.rows {
			out.appendRow(t.tuples[row])
		}
	}
	return out, nil
}

// KeyPredicate returns a predicate matching tuples whose key projection
// equals key.
func (t *Table) KeyPredicate(key value.Tuple) Predicate {
	probe := key.Clone()
	positions := slices.Clone(t.keyPos)
	return func(tup value.Tuple) bool {
		return tup.Gather(positions).Equal(probe)
	}
}

// Where returns a predicate matching tuples whose attr equals v.
// v is coerced to the attribute's domain (an Int literal matches a Real
// attribute); an incompatible v yields a DomainMismatch error.
func (t *Table) Where(attr string, v value.Value) (Predicate, error) {
	pos := t.Col(attr)
	if pos < 0 {
		return nil, NewAttributeNotFoundError(t.name, attr)
	}
	want, err := value.Coerce(v, t.domains[pos])
	if err != nil {
		return nil, NewDomainMismatchError(t.name, pos, t.domains[pos], value.DomainOf(v))
	}
	want = value.Normalize(want)
	return func(tup value.Tuple) bool {
		return value.Equal(tup[pos], want)
	}, nil
}

func containsAll(set, subset []string) bool {
	for _, s := range subset {
		if !slices.Contains(set, s) {
			return false
		}
	}
	return true
}
