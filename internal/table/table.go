// Package table implements the in-memory tabular data type the query engine
// operates on: filtering, group-and-aggregate, outer joins, sorting, and
// summary statistics over rows of string and numeric cells.
package table

import (
	"fmt"
	"sort"
)

// Row is a single record. Cell values are string, float64, or nil.
type Row map[string]any

// Table is an ordered set of columns over a sequence of rows.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table is nil or has no rows.
func (t *Table) Empty() bool {
	return t.NumRows() == 0
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Columns not yet known are registered in first-seen order.
func (t *Table) Append(row Row) {
	for _, c := range sortedKeys(row) {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
		}
	}
	t.Rows = append(t.Rows, row)
}

// Number extracts a cell as float64. Strings and nils are not numbers.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Text renders a cell for display or string comparison.
func Text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Where returns a new table keeping only rows the predicate accepts.
func (t *Table) Where(pred func(Row) bool) *Table {
	out := &Table{Name: t.Name, Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		if pred(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// NumericColumns returns columns holding at least one numeric cell,
// preserving column order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		for _, r := range t.Rows {
			if _, ok := Number(r[c]); ok {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// DistinctStrings returns the distinct string values of a column in
// first-encounter order.
func (t *Table) DistinctStrings(col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		s := Text(r[col])
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// SortBy stably sorts rows by the given column. Numeric cells compare
// numerically; everything else compares as text. Nil cells sort last.
func (t *Table) SortBy(col string, ascending bool) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		less := cellLess(t.Rows[i][col], t.Rows[j][col])
		if ascending {
			return less
		}
		return cellLess(t.Rows[j][col], t.Rows[i][col])
	})
}

func cellLess(a, b any) bool {
	if b == nil {
		return a != nil
	}
	if a == nil {
		return false
	}
	na, aok := Number(a)
	nb, bok := Number(b)
	if aok && bok {
		return na < nb
	}
	return Text(a) < Text(b)
}

// GroupBy groups rows by the key columns and reduces valueCol with agg,
// producing one row per group in first-encounter order. Rows whose valueCol
// is not numeric contribute nothing to the reduction but still open a group.
func (t *Table) GroupBy(keys []string, valueCol string, agg func([]float64) float64) *Table {
	type group struct {
		key    Row
		values []float64
	}
	index := make(map[string]*group)
	var order []string

	for _, r := range t.Rows {
		id := ""
		key := Row{}
		for _, k := range keys {
			key[k] = r[k]
			id += Text(r[k]) + "\x1f"
		}
		g, ok := index[id]
		if !ok {
			g = &group{key: key}
			index[id] = g
			order = append(order, id)
		}
		if v, ok := Number(r[valueCol]); ok {
			g.values = append(g.values, v)
		}
	}

	out := New(t.Name, append(append([]string(nil), keys...), valueCol)...)
	for _, id := range order {
		g := index[id]
		row := Row{}
		for k, v := range g.key {
			row[k] = v
		}
		row[valueCol] = agg(g.values)
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Reduce applies agg to every numeric cell of a column.
func (t *Table) Reduce(col string, agg func([]float64) float64) float64 {
	var values []float64
	for _, r := range t.Rows {
		if v, ok := Number(r[col]); ok {
			values = append(values, v)
		}
	}
	return agg(values)
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
