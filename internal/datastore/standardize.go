package datastore

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/samarth-project/samarth/internal/table"
)

// columnMappings renames known source headers (after normalization) to the
// canonical column names the engine filters and aggregates on.
var columnMappings = map[string]string{
	// Market prices data
	"commodity":         "crop",
	"arrival_date":      "date",
	"min_x0020_price":   "min_price",
	"max_x0020_price":   "max_price",
	"modal_x0020_price": "modal_price",

	// Crop production data
	"crop_name":            "crop",
	"state_name":           "state",
	"district_name":        "district",
	"crop_year":            "year",
	"season_name":          "season",
	"production_in_tonnes": "production",
	"area_in_hectares":     "area",
	"yield_kg_per_hectare": "yield",

	// Rainfall data
	"total_actual_rainfall_juneto_mayinmm":                         "total_actual_rainfall",
	"total_normal_rainfall_juneto_mayinmm":                         "total_normal_rainfall",
	"actual_rainfall_in_south_west_monsoon_juneto_septemberinmm":   "sw_monsoon_actual",
	"normal_rainfall_in_south_west_monsoon_juneto_septemberinmm":   "sw_monsoon_normal",
	"actual_rainfall_in_north_east_monsoon_octoberto_decemberinmm": "ne_monsoon_actual",
	"normal_rainfall_in_north_east_monsoon_octoberto_decemberinmm": "ne_monsoon_normal",
	"actual_rainfall_in_winter_season_januaryto_and_februaryinmm":  "winter_actual",
	"normal_rainfall_in_winter_season_januaryto_and_februaryinmm":  "winter_normal",
	"actual_rainfall_in_hot_weather_season_marchto_mayinmm":        "summer_actual",
	"normal_rainfall_in_hot_weather_season_marchto_mayinmm":        "summer_normal",
}

// numericColumns are coerced to float64 after renaming; unparsable cells
// become nil.
var numericColumns = []string{
	"production", "area", "yield", "year", "rainfall",
	"min_price", "max_price", "modal_price",
	"total_actual_rainfall", "total_normal_rainfall",
	"sw_monsoon_actual", "sw_monsoon_normal",
	"ne_monsoon_actual", "ne_monsoon_normal",
	"winter_actual", "winter_normal",
	"summer_actual", "summer_normal",
	"annual_rainfall", "monsoon_rainfall", "winter_rainfall", "summer_rainfall",
}

var textColumns = []string{"state", "district", "crop", "variety"}

var titleCaser = cases.Title(language.English)

// normalizeHeader lowercases a source header and strips the punctuation
// data.gov.in exports carry.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	replacer := strings.NewReplacer(" ", "_", "-", "_", "(", "", ")", "", "'", "")
	return replacer.Replace(h)
}

// standardize renames headers, coerces numeric columns, Title-cases text
// columns, and derives a year column from a date column when absent.
func standardize(t *table.Table) *table.Table {
	renamed := map[string]string{}
	var columns []string
	for _, c := range t.Columns {
		name := normalizeHeader(c)
		if mapped, ok := columnMappings[name]; ok {
			name = mapped
		}
		renamed[c] = name
		columns = append(columns, name)
	}

	out := table.New(t.Name, columns...)
	hasYear := out.HasColumn("year")
	hasDate := out.HasColumn("date")

	for _, r := range t.Rows {
		row := table.Row{}
		for old, v := range r {
			row[renamed[old]] = v
		}
		for _, c := range numericColumns {
			if v, ok := row[c]; ok {
				row[c] = coerceNumber(v)
			}
		}
		for _, c := range textColumns {
			if s, ok := row[c].(string); ok {
				row[c] = titleCaser.String(strings.TrimSpace(s))
			}
		}
		if hasDate && !hasYear {
			if year, ok := yearFromDate(table.Text(row["date"])); ok {
				row["year"] = float64(year)
			}
		}
		out.Rows = append(out.Rows, row)
	}

	if hasDate && !hasYear && !out.HasColumn("year") {
		out.Columns = append(out.Columns, "year")
	}
	return out
}

func coerceNumber(v any) any {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return f
	default:
		return nil
	}
}

// yearFromDate extracts the year from dd/mm/yyyy or yyyy-mm-dd dates.
func yearFromDate(s string) (int, bool) {
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
