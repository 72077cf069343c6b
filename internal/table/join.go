package table

// OuterJoin performs a full outer join of two tables on the given key
// columns. Non-key columns of the right table that clash with a left column
// are suffixed "_y". Left rows come first; unmatched right rows follow.
func OuterJoin(left, right *Table, keys []string) *Table {
	rename := map[string]string{}
	for _, c := range right.Columns {
		if containsString(keys, c) {
			continue
		}
		if left.HasColumn(c) {
			rename[c] = c + "_y"
		}
	}

	columns := append([]string(nil), left.Columns...)
	for _, c := range right.Columns {
		if containsString(keys, c) {
			continue
		}
		name := c
		if r, ok := rename[c]; ok {
			name = r
		}
		columns = append(columns, name)
	}
	out := New(left.Name, columns...)

	rightIndex := make(map[string][]Row)
	for _, r := range right.Rows {
		rightIndex[joinKey(r, keys)] = append(rightIndex[joinKey(r, keys)], r)
	}
	matched := make(map[string]bool)

	for _, lr := range left.Rows {
		k := joinKey(lr, keys)
		rights := rightIndex[k]
		if len(rights) == 0 {
			out.Rows = append(out.Rows, copyRow(lr))
			continue
		}
		matched[k] = true
		for _, rr := range rights {
			merged := copyRow(lr)
			for c, v := range rr {
				if containsString(keys, c) {
					continue
				}
				name := c
				if r, ok := rename[c]; ok {
					name = r
				}
				merged[name] = v
			}
			out.Rows = append(out.Rows, merged)
		}
	}

	// Unmatched right rows keep their key cells; left-only columns stay nil.
	for _, rr := range right.Rows {
		if matched[joinKey(rr, keys)] {
			continue
		}
		row := Row{}
		for _, k := range keys {
			row[k] = rr[k]
		}
		for c, v := range rr {
			if containsString(keys, c) {
				continue
			}
			name := c
			if r, ok := rename[c]; ok {
				name = r
			}
			row[name] = v
		}
		out.Rows = append(out.Rows, row)
	}

	return out
}

func joinKey(r Row, keys []string) string {
	k := ""
	for _, c := range keys {
		k += Text(r[c]) + "\x1f"
	}
	return k
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
