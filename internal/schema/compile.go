package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

// Definition is a compiled table definition: its schema and seed rows.
type Definition struct {
	Schema table.Schema
	Rows   []value.Tuple
	Pos    token.Pos
}

// CompileTable parses a CUE value into a Definition.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the table struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`table: Movie: { ... }`)
//	def, err := CompileTable(v.LookupPath(cue.ParsePath("table.Movie")))
//
// The table name is the struct label. Schema rules (unique attributes, key
// naming attributes) are checked when the definition is built, see Build.
func CompileTable(v cue.Value) (*Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &Definition{Pos: v.Pos()}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Schema.Name = labels[len(labels)-1].String()
	}

	if err := parseAttributes(v, def); err != nil {
		return nil, err
	}

	keyVal := v.LookupPath(cue.ParsePath("key"))
	if !keyVal.Exists() {
		return nil, &CompileError{
			Field:   "key",
			Message: "key is required",
			Pos:     v.Pos(),
		}
	}
	key, err := parseStrings(keyVal)
	if err != nil {
		return nil, err
	}
	def.Schema.Key = key

	rowsVal := v.LookupPath(cue.ParsePath("rows"))
	if rowsVal.Exists() {
		def.Rows, err = parseRows(rowsVal, def.Schema.Domains)
		if err != nil {
			return nil, err
		}
	}

	return def, nil
}

// Build creates the table described by def and inserts its rows.
// Insert failures (duplicate keys among the rows) are reported with the
// row number.
func Build(def *Definition, opts ...table.Option) (*table.Table, error) {
	t, err := table.New(def.Schema, opts...)
	if err != nil {
		return nil, err
	}
	for i, row := range def.Rows {
		if err := t.Insert(row); err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", def.Schema.Name, i, err)
		}
	}
	return t, nil
}

// parseAttributes fills the attribute names and domains of def, in field
// declaration order.
func parseAttributes(v cue.Value, def *Definition) error {
	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return &CompileError{
			Field:   "attributes",
			Message: "attributes are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := attrsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		d, err := extractDomain(iter.Value())
		if err != nil {
			return err
		}
		def.Schema.Attributes = append(def.Schema.Attributes, iter.Label())
		def.Schema.Domains = append(def.Schema.Domains, d)
	}

	if len(def.Schema.Attributes) == 0 {
		return &CompileError{
			Field:   "attributes",
			Message: "at least one attribute is required",
			Pos:     attrsVal.Pos(),
		}
	}
	return nil
}

// extractDomain converts a CUE type to a domain.
func extractDomain(v cue.Value) (value.Domain, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return value.DomainText, nil
	case cue.IntKind:
		return value.DomainInteger, nil
	case cue.FloatKind, cue.NumberKind:
		return value.DomainReal, nil
	default:
		return 0, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported attribute kind: %v (use string, int, float or number)", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func parseStrings(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseRows converts the rows list to tuples of the given domains.
func parseRows(v cue.Value, domains []value.Domain) ([]value.Tuple, error) {
	rowIter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rows []value.Tuple
	for r := 0; rowIter.Next(); r++ {
		rowVal := rowIter.Value()
		iter, err := rowVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}

		var row value.Tuple
		for i := 0; iter.Next(); i++ {
			if i >= len(domains) {
				return nil, &CompileError{
					Field:   "rows",
					Message: fmt.Sprintf("row %d has more than %d values", r, len(domains)),
					Pos:     rowVal.Pos(),
				}
			}
			val, err := convertValue(iter.Value(), domains[i])
			if err != nil {
				return nil, &CompileError{
					Field:   "rows",
					Message: fmt.Sprintf("row %d position %d: %v", r, i, err),
					Pos:     iter.Value().Pos(),
				}
			}
			row = append(row, val)
		}
		if len(row) != len(domains) {
			return nil, &CompileError{
				Field:   "rows",
				Message: fmt.Sprintf("row %d has %d values, expected %d", r, len(row), len(domains)),
				Pos:     rowVal.Pos(),
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func convertValue(v cue.Value, d value.Domain) (value.Value, error) {
	switch kind := v.Kind(); {
	case d == value.DomainInteger && kind == cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil
	case d == value.DomainReal && (kind == cue.IntKind || kind == cue.FloatKind):
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return value.Real(f), nil
	case d == value.DomainText && kind == cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return value.NewText(s), nil
	default:
		return nil, fmt.Errorf("expected %s, got %v", d, kind)
	}
}
