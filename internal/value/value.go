package value

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing one tuple entry.
// Only Int, Real and Text implement this.
type Value interface {
	// Domain returns the domain this variant belongs to.
	Domain() Domain
	// String renders the value for display.
	String() string

	value() // Sealed - only these types implement it
}

// Int is an Integer domain value.
type Int int64

func (Int) value() {}

// Domain implements Value.
func (Int) Domain() Domain { return DomainInteger }

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

// Real is a Real domain value.
type Real float64

func (Real) value() {}

// Domain implements Value.
func (Real) Domain() Domain { return DomainReal }

func (v Real) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// Text is a Text domain value.
// Construct with NewText so the content is NFC normalized.
type Text string

func (Text) value() {}

// Domain implements Value.
func (Text) Domain() Domain { return DomainText }

func (v Text) String() string { return string(v) }

// NewInt creates an Int value.
func NewInt(n int64) Int {
	return Int(n)
}

// NewReal creates a Real value.
func NewReal(f float64) Real {
	return Real(f)
}

// NewText creates a Text value, NFC normalizing s.
func NewText(s string) Text {
	return Text(norm.NFC.String(s))
}

// Normalize returns v with Text content NFC normalized.
// Other variants are returned unchanged.
func Normalize(v Value) Value {
	if t, ok := v.(Text); ok {
		return NewText(string(t))
	}
	return v
}

// DomainOf returns the domain of v, or 0 for a nil value.
func DomainOf(v Value) Domain {
	if v == nil {
		return 0
	}
	return v.Domain()
}

// Compare orders two values. Values of different domains order by domain
// (Integer < Real < Text); a nil value sorts before everything.
//
// Reals follow cmp.Compare: NaN sorts before every other Real and equals
// itself, and -0 equals +0. This keeps Compare a total order, which the key
// index relies on.
func Compare(a, b Value) int {
	da, db := DomainOf(a), DomainOf(b)
	if da != db {
		return cmp.Compare(da, db)
	}
	switch x := a.(type) {
	case Int:
		return cmp.Compare(x, b.(Int))
	case Real:
		return cmp.Compare(x, b.(Real))
	case Text:
		return strings.Compare(string(x), string(b.(Text)))
	default:
		// Both nil.
		return 0
	}
}

// Equal reports whether a and b are the same value.
// Int(1) and Real(1) are different values.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Coerce converts v to domain d.
//
// The only conversion performed is the widening of an Int to a Real; every
// other domain change fails. Literals written in YAML or CUE as 124 can
// therefore be used against a Real attribute.
func Coerce(v Value, d Domain) (Value, error) {
	if v == nil {
		return nil, fmt.Errorf("null value cannot be used as %s", d)
	}
	if v.Domain() == d {
		return v, nil
	}
	if n, ok := v.(Int); ok && d == DomainReal {
		return Real(float64(n)), nil
	}
	return nil, fmt.Errorf("%s value %s cannot be used as %s", v.Domain(), v, d)
}

// FromAny converts a decoded Go scalar (from YAML, JSON or CUE) into a Value.
//
// Supported inputs: Value, every signed and unsigned integer type (range
// checked), float32, float64, json.Number and string. Anything else,
// including nil, is rejected.
func FromAny(x any) (Value, error) {
	switch val := x.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a value")
	case Value:
		return Normalize(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return fromUint(val)
	case float32:
		return Real(val), nil
	case float64:
		return Real(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return Real(f), nil
	case string:
		return NewText(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", x)
	}
}

// FromAnyAs converts x with FromAny and coerces the result to d.
func FromAnyAs(x any, d Domain) (Value, error) {
	v, err := FromAny(x)
	if err != nil {
		return nil, err
	}
	return Coerce(v, d)
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d out of int64 range", u)
	}
	return Int(int64(u)), nil
}
