package value

import (
	"fmt"
	"strings"
)

// Domain is the declared scalar type of an attribute.
//
// The zero Domain is invalid; tables never carry it.
type Domain uint8

const (
	// DomainInteger holds Int values.
	DomainInteger Domain = iota + 1
	// DomainReal holds Real values.
	DomainReal
	// DomainText holds Text values.
	DomainText
)

// Domains lists every valid domain in declaration order.
var Domains = []Domain{DomainInteger, DomainReal, DomainText}

// String returns the canonical domain name ("Integer", "Real", "Text").
func (d Domain) String() string {
	switch d {
	case DomainInteger:
		return "Integer"
	case DomainReal:
		return "Real"
	case DomainText:
		return "Text"
	default:
		return fmt.Sprintf("Domain(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the declared domains.
func (d Domain) Valid() bool {
	return d >= DomainInteger && d <= DomainText
}

// ParseDomain maps a domain name to a Domain.
//
// Besides the canonical names it accepts common aliases, so schemas written
// as "String Integer Double" also parse:
//
//	Integer, Int, Long, Short, Byte  -> DomainInteger
//	Real, Double, Float              -> DomainReal
//	Text, String, Character, Char    -> DomainText
//
// Matching is case-insensitive.
func ParseDomain(name string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "integer", "int", "long", "short", "byte":
		return DomainInteger, nil
	case "real", "double", "float":
		return DomainReal, nil
	case "text", "string", "character", "char":
		return DomainText, nil
	default:
		return 0, fmt.Errorf("unknown domain %q", name)
	}
}

// ParseDomains parses a list of domain names.
func ParseDomains(names []string) ([]Domain, error) {
	domains := make([]Domain, len(names))
	for i, n := range names {
		d, err := ParseDomain(n)
		if err != nil {
			return nil, fmt.Errorf("domain[%d]: %w", i, err)
		}
		domains[i] = d
	}
	return domains, nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Domain) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid domain %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Domain) UnmarshalText(text []byte) error {
	parsed, err := ParseDomain(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// EqualDomains reports whether two domain sequences are positionally equal.
func EqualDomains(a, b []Domain) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
