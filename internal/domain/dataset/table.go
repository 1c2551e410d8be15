// Package dataset holds survey responses: raw provider tables and the
// resolved, read-only Dataset the scoring engine works on.
package dataset

import (
	"strconv"
	"strings"
)

// Table is one tab as loaded by a data provider. Every row has exactly
// len(Header) cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// NewTable trims header names, renames repeated headers to "name.1",
// "name.2", and pads or truncates rows to the header width.
func NewTable(name string, header []string, rows [][]string) Table {
	h := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, raw := range header {
		n := strings.TrimSpace(raw)
		if c, ok := seen[n]; ok {
			seen[n] = c + 1
			n = n + "." + strconv.Itoa(c+1)
		} else {
			seen[n] = 0
		}
		h[i] = n
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if blank(r) {
			continue
		}
		row := make([]string, len(h))
		copy(row, r)
		out = append(out, row)
	}
	return Table{Name: name, Header: h, Rows: out}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no header or no rows.
func (t Table) Empty() bool { return len(t.Header) == 0 || len(t.Rows) == 0 }

// Column returns a copy of the cells of column i.
func (t Table) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// Concat stacks tables. The header is the union of all headers in
// first-seen order; cells a table does not have are left empty. Empty
// tables are skipped.
func Concat(tables ...Table) Table {
	var (
		header []string
		index  = map[string]int{}
		names  []string
		total  int
	)
	for _, t := range tables {
		if t.Empty() {
			continue
		}
		names = append(names, t.Name)
		total += len(t.Rows)
		for _, h := range t.Header {
			if _, ok := index[h]; !ok {
				index[h] = len(header)
				header = append(header, h)
			}
		}
	}

	rows := make([][]string, 0, total)
	for _, t := range tables {
		if t.Empty() {
			continue
		}
		for _, r := range t.Rows {
			row := make([]string, len(header))
			for i, h := range t.Header {
				if i < len(r) {
					row[index[h]] = r[i]
				}
			}
			rows = append(rows, row)
		}
	}
	return Table{Name: strings.Join(names, "+"), Header: header, Rows: rows}
}
