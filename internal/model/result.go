package model

import "github.com/samarth-project/samarth/internal/table"

// DatasetMetadata is the static provenance record of a registered dataset.
type DatasetMetadata struct {
	ID              string   `json:"id" yaml:"id"`
	Category        string   `json:"category" yaml:"-"`
	Name            string   `json:"name" yaml:"-"`
	LocalFile       string   `json:"local_file" yaml:"local_file"`
	Format          string   `json:"format" yaml:"format"`
	Description     string   `json:"description" yaml:"description"`
	Source          string   `json:"source" yaml:"source"`
	URL             string   `json:"url" yaml:"url"`
	Publisher       string   `json:"publisher" yaml:"publisher"`
	DataQuality     string   `json:"data_quality" yaml:"data_quality"`
	UpdateFrequency string   `json:"update_frequency" yaml:"update_frequency"`
	LastUpdated     string   `json:"last_updated" yaml:"last_updated"`
	License         string   `json:"license" yaml:"license"`
	Coverage        string   `json:"coverage" yaml:"coverage"`
	Variables       []string `json:"variables" yaml:"variables"`
}

// TableMeta records what was loaded for one dataset reference.
type TableMeta struct {
	Source  *DatasetMetadata `json:"source,omitempty"`
	Rows    int              `json:"rows"`
	Cols    int              `json:"cols"`
	Columns []string         `json:"columns"`
}

// Statistics summarizes the tables of a result set.
type Statistics struct {
	TotalRecords int `json:"total_records"`
	// YearSpan maps result table name to "min-max" over its year column.
	YearSpan map[string]string `json:"year_span,omitempty"`
	// Summary maps numeric column -> result table name -> statistics.
	Summary map[string]map[string]table.ColumnSummary `json:"summary,omitempty"`
}

// ResultSet is the output of executing an OperationSpec.
type ResultSet struct {
	// Data maps result table names (dataset key plus a shape suffix such as
	// "grouped", "trend", "ranked", or "joined") to tables.
	Data map[string]*table.Table `json:"-"`
	// Scalars holds whole-column reductions keyed "<dataset key>_total".
	Scalars map[string]float64 `json:"scalars,omitempty"`
	// Metadata maps dataset references ("category.name") to load records.
	Metadata   map[string]TableMeta `json:"metadata"`
	Statistics Statistics           `json:"statistics"`
}

// NewResultSet returns an empty but valid result set.
func NewResultSet() *ResultSet {
	return &ResultSet{
		Data:     make(map[string]*table.Table),
		Scalars:  make(map[string]float64),
		Metadata: make(map[string]TableMeta),
		Statistics: Statistics{
			YearSpan: make(map[string]string),
			Summary:  make(map[string]map[string]table.ColumnSummary),
		},
	}
}
