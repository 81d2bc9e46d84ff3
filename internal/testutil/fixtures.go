// Package testutil holds fixtures shared by the package tests: the Movie and
// Studio relations used throughout, and deterministic id generators.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

// MovieSchema is Movie(title:Text, year:Integer, length:Integer, studioName:Text)
// keyed on {title, year}.
func MovieSchema() table.Schema {
	return table.Schema{
		Name:       "Movie",
		Attributes: []string{"title", "year", "length", "studioName"},
		Domains:    []value.Domain{value.DomainText, value.DomainInteger, value.DomainInteger, value.DomainText},
		Key:        []string{"title", "year"},
	}
}

// StudioSchema is Studio(name:Text, address:Text) keyed on {name}.
func StudioSchema() table.Schema {
	return table.Schema{
		Name:       "Studio",
		Attributes: []string{"name", "address"},
		Domains:    []value.Domain{value.DomainText, value.DomainText},
		Key:        []string{"name"},
	}
}

// StarWars is the Movie tuple ("Star_Wars", 1977, 124, "Fox").
func StarWars() value.Tuple {
	return value.Of(value.Text("Star_Wars"), value.Int(1977), value.Int(124), value.Text("Fox"))
}

// Jaws is the Movie tuple ("Jaws", 1975, 124, "Universal").
func Jaws() value.Tuple {
	return value.Of(value.Text("Jaws"), value.Int(1975), value.Int(124), value.Text("Universal"))
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Options returns table options with a fresh namer and a discarding logger,
// so derived names in a test start at suffix 0.
func Options() []table.Option {
	return []table.Option{table.WithNamer(table.NewNamer()), table.WithLogger(DiscardLogger())}
}

// NewTable creates an empty table from s with Options and the given tuples
// inserted, failing the test on any error.
func NewTable(t testing.TB, s table.Schema, tuples ...value.Tuple) *table.Table {
	t.Helper()
	tbl, err := table.New(s, Options()...)
	require.NoError(t, err)
	for _, tup := range tuples {
		require.NoError(t, tbl.Insert(tup))
	}
	return tbl
}

// Movie returns the Movie table holding StarWars and Jaws.
func Movie(t testing.TB) *table.Table {
	t.Helper()
	return NewTable(t, MovieSchema(), StarWars(), Jaws())
}

// Studio returns the Studio table holding ("Fox", "LA").
func Studio(t testing.TB) *table.Table {
	t.Helper()
	return NewTable(t, StudioSchema(), value.Of(value.Text("Fox"), value.Text("LA")))
}

// Rows returns the tuples of tbl rendered with value.Tuple.String, in store
// order, for compact assertions.
func Rows(tbl *table.Table) []string {
	tuples := tbl.Tuples()
	out := make([]string, len(tuples))
	for i, tup := range tuples {
		out[i] = tup.String()
	}
	return out
}
