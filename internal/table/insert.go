package table

import (
	"unicode/utf8"

	"github.com/roach88/relalg/internal/value"
)

// Insert appends tup to the table and indexes it.
//
// The tuple must have one value per attribute, each of the attribute's
// domain, and its key projection must not already be stored. Failures are
// reported as ArityMismatch, TypeMismatch or DuplicateKey errors and leave
// the table unchanged.
//
// The tuple is copied; the caller may reuse tup afterwards.
func (t *Table) Insert(tup value.Tuple) error {
	t.log().Debug("DML", "op", "insert", "table", t.name, "values", tup.String())

	if err := t.typeCheck(tup); err != nil {
		return err
	}

	row := tup.Clone()
	key := row.Gather(t.keyPos)
	if _, dup := t.index.lookup(key); dup {
		return NewDuplicateKeyError(t.name, key)
	}

	t.appendRow(row)
	return nil
}

// InsertValues converts plain Go scalars to values of the attribute domains
// (see value.FromAnyAs) and inserts them as one tuple.
//
//	movie.InsertValues("Star_Wars", 1977, 124, "Fox")
func (t *Table) InsertValues(vals ...any) error {
	if len(vals) != len(t.domains) {
		return NewArityMismatchError(t.name, "tuple", len(t.domains), len(vals))
	}
	tup := make(value.Tuple, len(vals))
	for i, x := range vals {
		v, err := value.FromAnyAs(x, t.domains[i])
		if err != nil {
			if x == nil {
				return NewTypeMismatchError(t.name, i, t.domains[i], 0)
			}
			raw, rawErr := value.FromAny(x)
			if rawErr != nil {
				return NewUnsupportedValueError(t.name, i, t.domains[i], x)
			}
			return NewTypeMismatchError(t.name, i, t.domains[i], raw.Domain())
		}
		tup[i] = v
	}
	return t.Insert(tup)
}

// typeCheck verifies tup's arity and the variant of every value. Text must
// be valid UTF-8, since the canonical encoding could not store it intact.
func (t *Table) typeCheck(tup value.Tuple) error {
	if len(tup) != len(t.domains) {
		return NewArityMismatchError(t.name, "tuple", len(t.domains), len(tup))
	}
	for i, v := range tup {
		if actual := value.DomainOf(v); actual != t.domains[i] {
			return NewTypeMismatchError(t.name, i, t.domains[i], actual)
		}
		if txt, ok := v.(value.Text); ok && !utf8.ValidString(string(txt)) {
			return NewInvalidTextError(t.name, i)
		}
	}
	return nil
}
