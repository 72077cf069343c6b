package table

import (
	"math"
	"sort"
)

// Sum reduces values by addition. Empty input yields 0.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean reduces values to their arithmetic mean. Empty input yields 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Max reduces values to the largest. Empty input yields 0.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min reduces values to the smallest. Empty input yields 0.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Count reduces values to how many there are.
func Count(values []float64) float64 {
	return float64(len(values))
}

// Median returns the middle value, averaging the two central values for an
// even count. Empty input yields 0.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Std returns the sample standard deviation. Fewer than two values yield 0.
func Std(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// ColumnSummary holds the descriptive statistics of a numeric column.
type ColumnSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes descriptive statistics over a column's numeric cells.
func (t *Table) Summarize(col string) ColumnSummary {
	var values []float64
	for _, r := range t.Rows {
		if v, ok := Number(r[col]); ok {
			values = append(values, v)
		}
	}
	return ColumnSummary{
		Mean:   Mean(values),
		Median: Median(values),
		Std:    Std(values),
		Min:    Min(values),
		Max:    Max(values),
	}
}

// YearSpan returns the inclusive min and max of the year column, or false
// when no numeric year cell exists.
func (t *Table) YearSpan() (int, int, bool) {
	found := false
	var lo, hi float64
	for _, r := range t.Rows {
		v, ok := Number(r["year"])
		if !ok {
			continue
		}
		if !found {
			lo, hi = v, v
			found = true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return int(lo), int(hi), found
}
