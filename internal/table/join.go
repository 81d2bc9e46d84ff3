package table

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/relalg/internal/value"
)

// joinSuffix is appended to an attribute of the right operand whose name
// collides with an attribute already in the join output.
const joinSuffix = "2"

// Join is the theta equi-join of t and other on the conditions
// t[attrs1[i]] = other[attrs2[i]].
//
// The output attributes are t's followed by other's; a name of other that
// equals (ignoring case) an earlier output name gets "2" appended until it
// is unique. The output key is t's key followed by other's key attributes
// under their output names. Rows are the concatenation of every pair of
// tuples satisfying all conditions, in t-major store order. Empty condition
// lists yield the cartesian product.
//
// Errors: ArityMismatch when attrs1 and attrs2 differ in length,
// AttributeNotFound for unknown names, DomainMismatch(i) when the domains of
// attrs1[i] and attrs2[i] differ.
func (t *Table) Join(attrs1, attrs2 []string, other *Table) (*Table, error) {
	t.log().Debug("RA", "op", "join", "table", t.name, "other", other.name,
		"on", strings.Join(attrs1, " "), "with", strings.Join(attrs2, " "))

	if len(attrs1) != len(attrs2) {
		return nil, NewArityMismatchError(other.name, "join condition", len(attrs1), len(attrs2))
	}
	left, err := t.ResolvePositions(attrs1)
	if err != nil {
		return nil, err
	}
	right, err := other.ResolvePositions(attrs2)
	if err != nil {
		return nil, err
	}
	ld, rd := t.DomainsAt(left), other.DomainsAt(right)
	for i := range ld {
		if ld[i] != rd[i] {
			return nil, NewDomainMismatchError(other.name, i, ld[i], rd[i])
		}
	}

	names := disambiguate(t.attributes, other.attributes)
	key := joinKey(t.key, other, names, nil)
	out := t.derive(names, append(t.Domains(), other.domains...), key)

	for _, a := range t.tuples {
		for _, b := range other.tuples {
			if matches(a, b, left, right) {
				out.appendRow(value.Concat(a, b))
			}
		}
	}
	return out, nil
}

// NaturalJoin joins t and other on every pair of attributes whose names are
// equal ignoring case. An attribute of other pairs with the attribute of t
// spelled exactly the same if there is one, otherwise with the first of t's
// attributes that folds to the same name.
//
// The output attributes are t's followed by other's with the common ones
// removed. If the operands share no attribute the result has that
// concatenated schema and no rows; no cartesian product is formed. Common
// attributes of different domains are reported as DomainMismatch, positioned
// at the attribute of t.
func (t *Table) NaturalJoin(other *Table) (*Table, error) {
	t.log().Debug("RA", "op", "natural_join", "table", t.name, "other", other.name)

	fold := cases.Fold()
	exact := make(map[string]int, len(t.attributes))
	byName := make(map[string]int, len(t.attributes))
	for i, a := range t.attributes {
		exact[a] = i
		f := fold.String(a)
		if _, ok := byName[f]; !ok {
			byName[f] = i
		}
	}

	var left, right []int
	// shared maps a dropped column of other to the column of t it equals.
	shared := make(map[int]int)
	var keep []int
	for j, a := range other.attributes {
		i, ok := exact[a]
		if !ok {
			i, ok = byName[fold.String(a)]
		}
		if !ok {
			keep = append(keep, j)
			continue
		}
		if t.domains[i] != other.domains[j] {
			return nil, NewDomainMismatchError(other.name, i, t.domains[i], other.domains[j])
		}
		left = append(left, i)
		right = append(right, j)
		shared[j] = i
	}

	names := t.Attributes()
	domains := t.Domains()
	for _, j := range keep {
		names = append(names, other.attributes[j])
		domains = append(domains, other.domains[j])
	}
	key := joinKey(t.key, other, names, func(j int) string {
		if i, ok := shared[j]; ok {
			return t.attributes[i]
		}
		return names[len(t.attributes)+slices.Index(keep, j)]
	})
	out := t.derive(names, domains, key)

	if len(left) == 0 {
		return out, nil
	}
	for _, a := range t.tuples {
		for _, b := range other.tuples {
			if matches(a, b, left, right) {
				out.appendRow(value.Concat(a, b.Gather(keep)))
			}
		}
	}
	return out, nil
}

func matches(a, b value.Tuple, left, right []int) bool {
	for i := range left {
		if !value.Equal(a[left[i]], b[right[i]]) {
			return false
		}
	}
	return true
}

// disambiguate returns the output attribute names of a join whose left
// operand has attributes left and right operand right.
func disambiguate(left, right []string) []string {
	fold := cases.Fold()
	taken := make(map[string]struct{}, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))
	for _, a := range left {
		taken[fold.String(a)] = struct{}{}
		out = append(out, a)
	}
	for _, a := range right {
		name := a
		for {
			if _, ok := taken[fold.String(name)]; !ok {
				break
			}
			name += joinSuffix
		}
		taken[fold.String(name)] = struct{}{}
		out = append(out, name)
	}
	return out
}

// joinKey builds the key of a join output: leftKey, then the output names of
// other's key attributes, skipping repeats. rename maps a column of other to
// its output name; nil means other's columns follow the left operand's
// columns one to one in names.
func joinKey(leftKey []string, other *Table, names []string, rename func(int) string) []string {
	if rename == nil {
		offset := len(names) - len(other.attributes)
		rename = func(j int) string { return names[offset+j] }
	}
	key := slices.Clone(leftKey)
	for _, j := range other.keyPos {
		if n := rename(j); !slices.Contains(key, n) {
			key = append(key, n)
		}
	}
	return key
}
