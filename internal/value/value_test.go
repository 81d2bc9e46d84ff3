package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_SealedInterface(t *testing.T) {
	// Compile-time checks: only these types satisfy Value.
	var _ Value = Int(0)
	var _ Value = Real(0)
	var _ Value = Text("")
}

func TestValue_Domains(t *testing.T) {
	assert.Equal(t, DomainInteger, NewInt(5).Domain())
	assert.Equal(t, DomainReal, NewReal(1.5).Domain())
	assert.Equal(t, DomainText, NewText("x").Domain())
	assert.Equal(t, Domain(0), DomainOf(nil))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "1977", Int(1977).String())
	assert.Equal(t, "1.5", Real(1.5).String())
	assert.Equal(t, "124", Real(124).String())
	assert.Equal(t, "Fox", Text("Fox").String())
}

func TestNewText_NFCNormalization(t *testing.T) {
	// "é" as e + combining acute accent (NFD) becomes the single code point (NFC).
	decomposed := "e\u0301"
	composed := "\u00e9"

	assert.Equal(t, Text(composed), NewText(decomposed))
	assert.True(t, Equal(NewText(decomposed), NewText(composed)))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"int less", Int(1), Int(2), -1},
		{"int equal", Int(7), Int(7), 0},
		{"int greater", Int(9), Int(-9), 1},
		{"real less", Real(1.5), Real(2.5), -1},
		{"real negative zero", Real(math.Copysign(0, -1)), Real(0), 0},
		{"nan equals nan", Real(math.NaN()), Real(math.NaN()), 0},
		{"nan sorts first", Real(math.NaN()), Real(math.Inf(-1)), -1},
		{"text", Text("Jaws"), Text("Star_Wars"), -1},
		{"domain order int<real", Int(100), Real(1), -1},
		{"domain order real<text", Real(100), Text("a"), -1},
		{"nil first", nil, Int(0), -1},
		{"nil equal", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a), "compare must be antisymmetric")
		})
	}
}

func TestEqual_DistinguishesVariants(t *testing.T) {
	assert.False(t, Equal(Int(1), Real(1)), "Int(1) and Real(1) are different values")
	assert.True(t, Equal(Real(1), Real(1.0)))
}

func TestCoerce(t *testing.T) {
	v, err := Coerce(Int(124), DomainReal)
	require.NoError(t, err)
	assert.Equal(t, Real(124), v)

	v, err = Coerce(Text("Fox"), DomainText)
	require.NoError(t, err)
	assert.Equal(t, Text("Fox"), v)

	_, err = Coerce(Real(1.5), DomainInteger)
	assert.Error(t, err, "narrowing is never performed")

	_, err = Coerce(Int(1), DomainText)
	assert.Error(t, err)

	_, err = Coerce(nil, DomainText)
	assert.Error(t, err)
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"int", 5, Int(5)},
		{"int64", int64(-3), Int(-3)},
		{"uint8", uint8(7), Int(7)},
		{"float64", 2.5, Real(2.5)},
		{"float32", float32(0.5), Real(0.5)},
		{"string", "Fox", Text("Fox")},
		{"json int", json.Number("1977"), Int(1977)},
		{"json real", json.Number("1.25"), Real(1.25)},
		{"value passthrough", Int(9), Int(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_Rejects(t *testing.T) {
	_, err := FromAny(nil)
	assert.Error(t, err)

	_, err = FromAny(true)
	assert.Error(t, err)

	_, err = FromAny(uint64(math.MaxUint64))
	assert.Error(t, err)

	_, err = FromAny([]any{1})
	assert.Error(t, err)
}

func TestFromAnyAs(t *testing.T) {
	v, err := FromAnyAs(124, DomainReal)
	require.NoError(t, err)
	assert.Equal(t, Real(124), v)

	_, err = FromAnyAs("124", DomainInteger)
	assert.Error(t, err)
}

func TestParseDomain(t *testing.T) {
	tests := map[string]Domain{
		"Integer":   DomainInteger,
		"integer":   DomainInteger,
		"Long":      DomainInteger,
		"Short":     DomainInteger,
		"Byte":      DomainInteger,
		"Real":      DomainReal,
		"Double":    DomainReal,
		"Float":     DomainReal,
		"Text":      DomainText,
		"String":    DomainText,
		"Character": DomainText,
		" String ":  DomainText,
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseDomain(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseDomain("Boolean")
	assert.Error(t, err)
}

func TestParseDomains(t *testing.T) {
	got, err := ParseDomains([]string{"String", "Integer", "Double"})
	require.NoError(t, err)
	assert.Equal(t, []Domain{DomainText, DomainInteger, DomainReal}, got)

	_, err = ParseDomains([]string{"String", "Date"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain[1]")
}

func TestDomain_TextMarshaling(t *testing.T) {
	data, err := json.Marshal([]Domain{DomainText, DomainInteger, DomainReal})
	require.NoError(t, err)
	assert.Equal(t, `["Text","Integer","Real"]`, string(data))

	var back []Domain
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Domain{DomainText, DomainInteger, DomainReal}, back)

	_, err = Domain(0).MarshalText()
	assert.Error(t, err)
	assert.False(t, Domain(0).Valid())
	assert.Equal(t, "Domain(9)", Domain(9).String())
}

func TestEqualDomains(t *testing.T) {
	assert.True(t, EqualDomains([]Domain{DomainText}, []Domain{DomainText}))
	assert.False(t, EqualDomains([]Domain{DomainText}, []Domain{DomainInteger}))
	assert.False(t, EqualDomains([]Domain{DomainText}, nil))
	assert.True(t, EqualDomains(nil, []Domain{}))
}

func TestMarshalValue_RejectsInvalidUTF8(t *testing.T) {
	_, err := MarshalValue(Text("x\xffy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")

	data, err := MarshalValue(Text("Amélie"))
	require.NoError(t, err)
	assert.Equal(t, `"Amélie"`, string(data))
}
