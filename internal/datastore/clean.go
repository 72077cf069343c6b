package datastore

import "github.com/samarth-project/samarth/internal/table"

// cleanAgriculture drops rows missing state/crop/year and rows with zero or
// negative production.
func cleanAgriculture(t *table.Table) *table.Table {
	if t.Empty() {
		return t
	}
	critical := []string{"state", "crop", "year"}
	return t.Where(func(r table.Row) bool {
		for _, c := range critical {
			if !t.HasColumn(c) {
				continue
			}
			if r[c] == nil || table.Text(r[c]) == "" {
				return false
			}
		}
		if t.HasColumn("production") {
			v, ok := table.Number(r["production"])
			if !ok || v <= 0 {
				return false
			}
		}
		return true
	})
}

// cleanMeteorology drops rows with negative rainfall.
func cleanMeteorology(t *table.Table) *table.Table {
	if t.Empty() || !t.HasColumn("rainfall") {
		return t
	}
	return t.Where(func(r table.Row) bool {
		v, ok := table.Number(r["rainfall"])
		return !ok || v >= 0
	})
}

func cleanForCategory(category string, t *table.Table) *table.Table {
	switch category {
	case "agriculture":
		return cleanAgriculture(t)
	case "meteorology":
		return cleanMeteorology(t)
	default:
		return t
	}
}
