package table

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/relalg/internal/value"
)

// Schema is the metadata a table is created from.
type Schema struct {
	Name       string         `json:"name" yaml:"name"`
	Attributes []string       `json:"attributes" yaml:"attributes"`
	Domains    []value.Domain `json:"domains" yaml:"domains"`
	Key        []string       `json:"key" yaml:"key"`
}

// Table is a typed relation with a key index.
//
// Invariants, maintained by every constructor and by Insert:
//   - len(attributes) == len(domains), attribute names unique
//   - every tuple has one value per attribute, of the attribute's domain
//   - key is non-empty and names attributes only
//   - index holds exactly the key projections of tuples
type Table struct {
	name       string
	attributes []string
	domains    []value.Domain
	key        []string
	keyPos     []int
	tuples     []value.Tuple
	index      *keyIndex

	namer  *Namer
	logger *slog.Logger
}

// Option configures a table at construction.
type Option func(*Table)

// WithNamer sets the namer used for tables derived from this one.
func WithNamer(n *Namer) Option {
	return func(t *Table) {
		if n != nil {
			t.namer = n
		}
	}
}

// WithLogger sets the logger operations on this table (and tables derived
// from it) write their command log to. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		t.logger = l
	}
}

// New creates an empty table from s after validating it.
//
// Returns an *Error with code InvalidSchema (empty name, no attributes,
// invalid domain, empty key), ArityMismatch (attribute/domain counts
// differ), DuplicateAttribute or AttributeNotFound (key names).
func New(s Schema, opts ...Option) (*Table, error) {
	if err := validateSchema(s); err != nil {
		return nil, err
	}

	t := &Table{
		name:       s.Name,
		attributes: slices.Clone(s.Attributes),
		domains:    slices.Clone(s.Domains),
		key:        slices.Clone(s.Key),
		index:      newKeyIndex(),
		namer:      DefaultNamer,
	}
	for _, opt := range opts {
		opt(t)
	}
	// Key names were validated above, positions always resolve.
	t.keyPos, _ = t.ResolvePositions(t.key)

	t.log().Debug("DDL", "op", "create", "table", t.name,
		"attributes", strings.Join(t.attributes, " "),
		"key", strings.Join(t.key, " "))
	return t, nil
}

// Parse creates an empty table from space-separated attribute, domain and
// key lists, e.g.
//
//	Parse("movie", "title year length studioName", "String Integer Integer String", "title year")
//
// Domain names are parsed with value.ParseDomain.
func Parse(name, attributes, domains, key string, opts ...Option) (*Table, error) {
	ds, err := value.ParseDomains(strings.Fields(domains))
	if err != nil {
		return nil, NewInvalidSchemaError(name, err.Error())
	}
	return New(Schema{
		Name:       name,
		Attributes: strings.Fields(attributes),
		Domains:    ds,
		Key:        strings.Fields(key),
	}, opts...)
}

// Restore rebuilds a table from a schema and a tuple list, e.g. after
// loading it from a store. Tuples are type checked but duplicate keys are
// accepted, since operator outputs may legitimately carry them. The index is
// rebuilt from the tuples.
func Restore(s Schema, tuples []value.Tuple, opts ...Option) (*Table, error) {
	t, err := New(s, opts...)
	if err != nil {
		return nil, err
	}
	for _, tup := range tuples {
		if err := t.typeCheck(tup); err != nil {
			return nil, err
		}
		t.appendRow(tup.Clone())
	}
	return t, nil
}

func validateSchema(s Schema) error {
	if s.Name == "" {
		return NewInvalidSchemaError(s.Name, "table name is required")
	}
	if len(s.Attributes) == 0 {
		return NewInvalidSchemaError(s.Name, "at least one attribute is required")
	}
	if len(s.Attributes) != len(s.Domains) {
		return NewArityMismatchError(s.Name, "domains", len(s.Attributes), len(s.Domains))
	}
	for i, d := range s.Domains {
		if !d.Valid() {
			return NewInvalidSchemaError(s.Name, "attribute "+s.Attributes[i]+" has an invalid domain")
		}
	}
	for _, a := range s.Attributes {
		if a == "" {
			return NewInvalidSchemaError(s.Name, "attribute names must not be empty")
		}
	}
	if dup := firstDuplicate(s.Attributes); dup != "" {
		return NewDuplicateAttributeError(s.Name, dup)
	}
	if len(s.Key) == 0 {
		return NewInvalidSchemaError(s.Name, "key must name at least one attribute")
	}
	if dup := firstDuplicate(s.Key); dup != "" {
		return NewDuplicateAttributeError(s.Name, dup)
	}
	for _, k := range s.Key {
		if !slices.Contains(s.Attributes, k) {
			return NewAttributeNotFoundError(s.Name, k)
		}
	}
	return nil
}

// derive creates the empty output table of an operator applied to t.
// The schema is trusted: operators only build valid ones.
func (t *Table) derive(attributes []string, domains []value.Domain, key []string) *Table {
	out := &Table{
		name:       t.namer.Derive(t.name),
		attributes: slices.Clone(attributes),
		domains:    slices.Clone(domains),
		key:        slices.Clone(key),
		index:      newKeyIndex(),
		namer:      t.namer,
		logger:     t.logger,
	}
	out.keyPos, _ = out.ResolvePositions(out.key)
	return out
}

// appendRow stores tup and indexes it. tup must already be type checked
// and must not be shared with a caller that could modify it.
func (t *Table) appendRow(tup value.Tuple) {
	t.tuples = append(t.tuples, tup)
	t.index.add(tup.Gather(t.keyPos), len(t.tuples)-1)
}

func (t *Table) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Attributes returns a copy of the attribute names in column order.
func (t *Table) Attributes() []string { return slices.Clone(t.attributes) }

// Domains returns a copy of the attribute domains in column order.
func (t *Table) Domains() []value.Domain { return slices.Clone(t.domains) }

// Key returns a copy of the key attribute names.
func (t *Table) Key() []string { return slices.Clone(t.key) }

// Arity returns the number of attributes.
func (t *Table) Arity() int { return len(t.attributes) }

// Len returns the number of stored tuples.
func (t *Table) Len() int { return len(t.tuples) }

// Namer returns the namer used for tables derived from t.
func (t *Table) Namer() *Namer { return t.namer }

// Schema returns a copy of the table's metadata.
func (t *Table) Schema() Schema {
	return Schema{
		Name:       t.name,
		Attributes: t.Attributes(),
		Domains:    t.Domains(),
		Key:        t.Key(),
	}
}

// Tuples returns copies of the stored tuples in store order.
func (t *Table) Tuples() []value.Tuple {
	out := make([]value.Tuple, len(t.tuples))
	for i, tup := range t.tuples {
		out[i] = tup.Clone()
	}
	return out
}

// Col returns the column position of attr, or -1 if t has no such attribute.
func (t *Table) Col(attr string) int {
	return slices.Index(t.attributes, attr)
}

// ResolvePositions maps attribute names to column positions.
//
// Names that are not attributes get position -1 and are reported as
// AttributeNotFound errors (joined when several are missing). The positions
// of the names that did resolve remain usable.
func (t *Table) ResolvePositions(names []string) ([]int, error) {
	positions := make([]int, len(names))
	var errs []error
	for i, n := range names {
		positions[i] = t.Col(n)
		if positions[i] < 0 {
			errs = append(errs, NewAttributeNotFoundError(t.name, n))
		}
	}
	return positions, errors.Join(errs...)
}

// DomainsAt returns the domains at the given column positions.
func (t *Table) DomainsAt(positions []int) []value.Domain {
	out := make([]value.Domain, len(positions))
	for i, p := range positions {
		out[i] = t.domains[p]
	}
	return out
}

// Compatible reports whether t and other have the same arity and the same
// domain at every position. It returns nil when they do, an ArityMismatch
// when the arities differ and a DomainMismatch naming the first position
// that differs otherwise.
func (t *Table) Compatible(other *Table) error {
	if len(t.domains) != len(other.domains) {
		return NewArityMismatchError(other.name, "schema", len(t.domains), len(other.domains))
	}
	for j := range t.domains {
		if t.domains[j] != other.domains[j] {
			return NewDomainMismatchError(other.name, j, t.domains[j], other.domains[j])
		}
	}
	return nil
}

// Equal reports whether t and other have the same name, schema, key and
// tuples in the same order.
func (t *Table) Equal(other *Table) bool {
	if t.name != other.name ||
		!slices.Equal(t.attributes, other.attributes) ||
		!value.EqualDomains(t.domains, other.domains) ||
		!slices.Equal(t.key, other.key) ||
		len(t.tuples) != len(other.tuples) {
		return false
	}
	for i := range t.tuples {
		if !t.tuples[i].Equal(other.tuples[i]) {
			return false
		}
	}
	return true
}

func firstDuplicate(names []string) string {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n
		}
		seen[n] = struct{}{}
	}
	return ""
}
