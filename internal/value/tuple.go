package value

import (
	"math"
	"strconv"
	"strings"
)

// Tuple is an ordered, fixed-length sequence of values, one per attribute.
type Tuple []Value

// Of builds a tuple from values.
func Of(vals ...Value) Tuple {
	return Tuple(vals)
}

// Clone returns a copy of t with Text values NFC normalized.
func (t Tuple) Clone() Tuple {
	if t == nil {
		return nil
	}
	out := make(Tuple, len(t))
	for i, v := range t {
		out[i] = Normalize(v)
	}
	return out
}

// Equal reports whether t and o hold equal values at every position.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if !Equal(t[i], o[i]) {
			return false
		}
	}
	return true
}

// Compare orders tuples lexicographically by Compare; a shorter tuple that
// is a prefix of a longer one sorts first.
func (t Tuple) Compare(o Tuple) int {
	n := min(len(t), len(o))
	for i := 0; i < n; i++ {
		if c := Compare(t[i], o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(t) < len(o):
		return -1
	case len(t) > len(o):
		return 1
	default:
		return 0
	}
}

// Gather returns the values of t at the given positions, in that order.
func (t Tuple) Gather(positions []int) Tuple {
	out := make(Tuple, len(positions))
	for i, p := range positions {
		out[i] = t[p]
	}
	return out
}

// Concat returns a new tuple holding the values of a followed by b.
func Concat(a, b Tuple) Tuple {
	out := make(Tuple, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Domains returns the domain of every value in t.
func (t Tuple) Domains() []Domain {
	out := make([]Domain, len(t))
	for i, v := range t {
		out[i] = DomainOf(v)
	}
	return out
}

// String renders t as "[Star_Wars, 1977, 124, Fox]".
func (t Tuple) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range t {
		if i > 0 {
			b.WriteString(", ")
		}
		if v == nil {
			b.WriteString("null")
			continue
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// HashKey returns a string that is identical for two tuples exactly when
// Equal reports them equal. Used as a map key for set operations.
func (t Tuple) HashKey() string {
	var b strings.Builder
	for _, v := range t {
		switch x := v.(type) {
		case Int:
			b.WriteByte('i')
			b.WriteString(strconv.FormatInt(int64(x), 10))
		case Real:
			b.WriteByte('r')
			f := float64(x)
			switch {
			case math.IsNaN(f):
				b.WriteString("NaN")
			case f == 0:
				// -0 and +0 compare equal.
				b.WriteByte('0')
			default:
				b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			}
		case Text:
			b.WriteByte('t')
			b.WriteString(strconv.Itoa(len(x)))
			b.WriteByte(':')
			b.WriteString(string(x))
		default:
			b.WriteByte('n')
		}
		b.WriteByte(';')
	}
	return b.String()
}
