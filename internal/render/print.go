package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

// columnWidth is the right-aligned width of every column in Print.
const columnWidth = 15

// indexRule separates the index listing from surrounding output.
const indexRule = "-------------------"

// Print writes t with a header line, a ruled attribute row and one row per
// tuple in store order. Values wider than a column are not truncated.
func Print(w io.Writer, t *table.Table) error {
	var b strings.Builder
	rule := "|-" + strings.Repeat("-", columnWidth*t.Arity()) + "-|\n"

	fmt.Fprintf(&b, "\n Table %s\n", t.Name())
	b.WriteString(rule)
	writeRow(&b, t.Attributes())
	b.WriteString(rule)
	for _, tup := range t.Tuples() {
		writeRow(&b, cells(tup))
	}
	b.WriteString(rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// PrintIndex writes the key index of t in ascending key order, one line per
// key: the key projection, then every tuple stored under it.
func PrintIndex(w io.Writer, t *table.Table) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n Index for %s\n", t.Name())
	b.WriteString(indexRule + "\n")
	for _, e := range t.IndexEntries() {
		rows := make([]string, len(e.Tuples))
		for i, tup := range e.Tuples {
			rows[i] = tup.String()
		}
		fmt.Fprintf(&b, "%s -> %s\n", e.Key, strings.Join(rows, " "))
	}
	b.WriteString(indexRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, cols []string) {
	b.WriteString("| ")
	for _, c := range cols {
		fmt.Fprintf(b, "%*s", columnWidth, c)
	}
	b.WriteString(" |\n")
}

func cells(tup value.Tuple) []string {
	out := make([]string, len(tup))
	for i, v := range tup {
		out[i] = v.String()
	}
	return out
}
