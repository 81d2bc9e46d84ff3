package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Non-finite Reals are not representable as JSON numbers and are encoded
// as these strings instead.
const (
	encodedNaN    = "NaN"
	encodedPosInf = "+Inf"
	encodedNegInf = "-Inf"
)

// MarshalValue produces the canonical JSON encoding of a single value.
//
// Key differences from encoding/json:
//  1. Text is NFC normalized and HTML characters are NOT escaped
//  2. Real uses the shortest round-tripping representation
//  3. NaN and ±Inf Reals become the strings "NaN", "+Inf" and "-Inf"
//
// The encoding is not self-describing: an integral Real encodes like an
// Int. Decoders need the domain, see UnmarshalTuple.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Int:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case Real:
		return marshalReal(float64(val))
	case Text:
		return marshalCanonicalString(string(val))
	case nil:
		return nil, fmt.Errorf("null is forbidden in tuples")
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

func marshalReal(f float64) ([]byte, error) {
	switch {
	case math.IsNaN(f):
		return marshalCanonicalString(encodedNaN)
	case math.IsInf(f, 1):
		return marshalCanonicalString(encodedPosInf)
	case math.IsInf(f, -1):
		return marshalCanonicalString(encodedNegInf)
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// marshalCanonicalString produces a JSON string with NFC normalization.
// Only control characters, backslash and quote are escaped. Invalid UTF-8
// is an error: encoding/json would silently replace it with U+FFFD.
func marshalCanonicalString(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("text %q is not valid UTF-8", s)
	}
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}
	// Encoder adds a trailing newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalTuple encodes a tuple as a canonical JSON array.
func MarshalTuple(t Tuple) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := MarshalValue(v)
		if err != nil {
			return nil, fmt.Errorf("tuple[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler using the canonical encoding.
func (t Tuple) MarshalJSON() ([]byte, error) {
	return MarshalTuple(t)
}

// UnmarshalTuple decodes a JSON array produced by MarshalTuple, using the
// domains to pick each value's variant. The array length must equal
// len(domains).
func UnmarshalTuple(data []byte, domains []Domain) (Tuple, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tuple: %w", err)
	}
	if len(raw) != len(domains) {
		return nil, fmt.Errorf("tuple has %d values, expected %d", len(raw), len(domains))
	}

	t := make(Tuple, len(raw))
	for i, elem := range raw {
		v, err := decodeAs(elem, domains[i])
		if err != nil {
			return nil, fmt.Errorf("tuple[%d]: %w", i, err)
		}
		t[i] = v
	}
	return t, nil
}

// decodeAs converts one decoded JSON element to a value of domain d.
// Unlike Coerce it never widens: an Integer column must hold an integer.
func decodeAs(elem any, d Domain) (Value, error) {
	switch d {
	case DomainInteger:
		n, ok := elem.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected Integer, got %T", elem)
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected Integer, got %s", n)
		}
		return Int(i), nil

	case DomainReal:
		switch x := elem.(type) {
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				return nil, fmt.Errorf("invalid Real %s: %w", x, err)
			}
			return Real(f), nil
		case string:
			switch x {
			case encodedNaN:
				return Real(math.NaN()), nil
			case encodedPosInf:
				return Real(math.Inf(1)), nil
			case encodedNegInf:
				return Real(math.Inf(-1)), nil
			}
			return nil, fmt.Errorf("invalid Real %q", x)
		default:
			return nil, fmt.Errorf("expected Real, got %T", elem)
		}

	case DomainText:
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("expected Text, got %T", elem)
		}
		return NewText(s), nil

	default:
		return nil, fmt.Errorf("invalid domain %d", uint8(d))
	}
}
