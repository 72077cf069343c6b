package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// DatasetRef identifies a registered dataset by category and name.
type DatasetRef struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// String renders the ref in "category.name" form.
func (r DatasetRef) String() string {
	return r.Category + "." + r.Name
}

// Key renders the ref with an underscore, used to name result tables.
func (r DatasetRef) Key() string {
	return r.Category + "_" + r.Name
}

// ParseDatasetRef parses a "category.name" reference.
func ParseDatasetRef(s string) (DatasetRef, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return DatasetRef{}, eris.Errorf("invalid dataset reference: %q", s)
	}
	return DatasetRef{Category: parts[0], Name: parts[1]}, nil
}

// YearRange is an inclusive [Start, End] bound on a year column.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the year falls inside the inclusive range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Filters constrains which rows an operation considers. In holds set-valued
// column filters with OR semantics; Years restricts the year column to
// specific values; YearRange bounds it inclusively. Columns absent from a
// table are ignored.
type Filters struct {
	In        map[string][]string `json:"in,omitempty"`
	Years     []int               `json:"years,omitempty"`
	YearRange *YearRange          `json:"year_range,omitempty"`
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return len(f.In) == 0 && len(f.Years) == 0 && f.YearRange == nil
}

// Aggregation describes one group-and-aggregate step.
type Aggregation struct {
	Column   string   `json:"column"`
	Function AggFunc  `json:"function"`
	GroupBy  []string `json:"group_by"`
}

// JoinSpec describes a join between loaded tables.
type JoinSpec struct {
	Keys []string `json:"keys"`
	Kind string   `json:"kind"`
}

// OutputFormat selects how results should be presented.
type OutputFormat string

const (
	FormatTable       OutputFormat = "table"
	FormatChart       OutputFormat = "chart"
	FormatRankedTable OutputFormat = "ranked_table"
)

// OperationSpec is the concrete data-operation plan derived from a query.
type OperationSpec struct {
	QueryType      QueryType     `json:"query_type"`
	DatasetsNeeded []DatasetRef  `json:"datasets_needed"`
	Filters        Filters       `json:"filters"`
	Aggregations   []Aggregation `json:"aggregations"`
	Joins          []JoinSpec    `json:"joins,omitempty"`
	OutputFormat   OutputFormat  `json:"output_format"`
}
