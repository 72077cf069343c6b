package respond

import (
	"sort"
	"strings"

	"github.com/samarth-project/samarth/internal/model"
	"github.com/samarth-project/samarth/internal/table"
)

// findTable returns the first result table whose key contains the substring,
// scanning keys in sorted order.
func findTable(rs *model.ResultSet, substr string) *table.Table {
	for _, name := range sortedKeys(rs.Data) {
		if strings.Contains(name, substr) {
			return rs.Data[name]
		}
	}
	return nil
}

// metricColumn picks the first column that is not a grouping column.
func metricColumn(columns []string) string {
	for _, c := range columns {
		if !groupColumns[c] {
			return c
		}
	}
	return ""
}

// firstValue returns the metric value of the first row where keyCol equals
// keyVal.
func firstValue(t *table.Table, keyCol, keyVal, metric string) (float64, bool) {
	for _, r := range t.Rows {
		if table.Text(r[keyCol]) == keyVal {
			return table.Number(r[metric])
		}
	}
	return 0, false
}

func sortedKeys(m map[string]*table.Table) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
