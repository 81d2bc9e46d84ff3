package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

var (
	borderColor = lipgloss.Color("#334155")
	headerColor = lipgloss.Color("#8B5CF6")
	keyColor    = lipgloss.Color("#F59E0B")
	mutedColor  = lipgloss.Color("#94A3B8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(headerColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(headerColor).
			Padding(0, 1)

	keyHeaderStyle = headerStyle.
			Foreground(keyColor)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Styled renders t as a bordered terminal table. Key attributes are
// highlighted in the header and numeric columns are right aligned.
func Styled(t *table.Table) string {
	attrs := t.Attributes()
	domains := t.Domains()
	isKey := make(map[int]bool)
	for _, k := range t.Key() {
		isKey[t.Col(k)] = true
	}

	tuples := t.Tuples()
	rows := make([][]string, len(tuples))
	for i, tup := range tuples {
		rows[i] = cells(tup)
	}

	tbl := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(attrs...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow && isKey[col]:
				return keyHeaderStyle
			case row == lgtable.HeaderRow:
				return headerStyle
			case col < len(domains) && domains[col] != value.DomainText:
				return numberStyle
			default:
				return cellStyle
			}
		})

	footer := fmt.Sprintf("%d tuples", len(tuples))
	if len(tuples) == 1 {
		footer = "1 tuple"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(t.Name()),
		tbl.Render(),
		footerStyle.Render(footer),
	)
}
