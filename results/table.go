package results

import "strings"

// Columns splits width equally between the variables. The remainder goes one
// cell each to the leftmost columns.
func Columns(variables []string, width int) []int {
	n := len(variables)
	if n == 0 {
		return nil
	}
	if width < 0 {
		width = 0
	}
	widths := make([]int, n)
	base, rem := width/n, width%n
	for i := range widths {
		widths[i] = base
		if i < rem {
			widths[i]++
		}
	}
	return widths
}

// RowHeight is one plus the largest number of line breaks in any bound value.
func RowHeight(row Row, variables []string) int {
	breaks := 0
	for _, v := range variables {
		b, ok := row[v]
		if !ok {
			continue
		}
		if n := strings.Count(b.Value, "\n"); n > breaks {
			breaks = n
		}
	}
	return 1 + breaks
}

// Cells renders a row in variable order. Unbound variables are empty cells.
func Cells(row Row, variables []string) []string {
	cells := make([]string, len(variables))
	for i, v := range variables {
		if b, ok := row[v]; ok {
			cells[i] = b.Value
		}
	}
	return cells
}

// Table is everything a canvas needs to paint a result.
type Table struct {
	Header  []string
	Widths  []int
	Rows    [][]string
	Heights []int
}

// Layout computes the table for a result drawn width cells wide.
func Layout(res *QueryResult, width int) Table {
	if res == nil {
		return Table{}
	}
	t := Table{
		Header:  res.Variables,
		Widths:  Columns(res.Variables, width),
		Rows:    make([][]string, len(res.Rows)),
		Heights: make([]int, len(res.Rows)),
	}
	for i, row := range res.Rows {
		t.Rows[i] = Cells(row, res.Variables)
		t.Heights[i] = RowHeight(row, res.Variables)
	}
	return t
}

// Next advances the selection over n rows, wrapping to the first row.
// An unselected table (-1) starts at 0.
func Next(selected, n int) int {
	switch {
	case n == 0:
		return selected
	case selected < 0 || selected >= n-1:
		return 0
	default:
		return selected + 1
	}
}

// Previous moves the selection back, wrapping to the last row.
// An unselected table (-1) starts at 0.
func Previous(selected, n int) int {
	switch {
	case n == 0:
		return selected
	case selected < 0:
		return 0
	case selected == 0 || selected >= n:
		return n - 1
	default:
		return selected - 1
	}
}
