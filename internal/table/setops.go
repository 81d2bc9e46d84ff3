package table

import (
	"github.com/roach88/relalg/internal/value"
)

// Union returns the tuples appearing in t or other, each distinct tuple
// exactly once, in first-seen order (t's tuples, then other's). Schema and
// key come from t.
//
// The operands must be compatible; otherwise an IncompatibleSchemas error
// wrapping the ArityMismatch or DomainMismatch is returned.
func (t *Table) Union(other *Table) (*Table, error) {
	t.log().Debug("RA", "op", "union", "table", t.name, "other", other.name)

	if err := t.Compatible(other); err != nil {
		return nil, NewIncompatibleSchemasError(t.name, other.name, err)
	}

	out := t.derive(t.attributes, t.domains, t.key)
	seen := make(map[string]struct{}, len(t.tuples)+len(other.tuples))
	for _, src := range [][]value.Tuple{t.tuples, other.tuples} {
		for _, tup := range src {
			h := tup.HashKey()
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out.appendRow(tup)
		}
	}
	return out, nil
}

// Minus returns the tuples of t that do not appear anywhere in other, in
// store order. Schema and key come from t.
//
// The operands must be compatible; otherwise an IncompatibleSchemas error
// wrapping the ArityMismatch or DomainMismatch is returned.
func (t *Table) Minus(other *Table) (*Table, error) {
	t.log().Debug("RA", "op", "minus", "table", t.name, "other", other.name)

	if err := t.Compatible(other); err != nil {
		return nil, NewIncompatibleSchemasError(t.name, other.name, err)
	}

	exclude := make(map[string]struct{}, len(other.tuples))
	for _, tup := range other.tuples {
		exclude[tup.HashKey()] = struct{}{}
	}

	out := t.derive(t.attributes, t.domains, t.key)
	for _, tup := range t.tuples {
		if _, ok := exclude[tup.HashKey()]; !ok {
			out.appendRow(tup)
		}
	}
	return out, nil
}
