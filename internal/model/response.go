package model

import "time"

// FormattedTable is a table serialized for API consumers.
type FormattedTable struct {
	Columns []string         `json:"columns"`
	Records []map[string]any `json:"records"`
	Shape   [2]int           `json:"shape"`
}

// ChartType selects a visualization shape.
type ChartType string

const (
	ChartLine          ChartType = "line"
	ChartBar           ChartType = "bar"
	ChartHorizontalBar ChartType = "horizontal_bar"
	ChartTable         ChartType = "table"
)

// ChartSpec tells the caller how to visualize one result table.
type ChartSpec struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	DataKey string    `json:"data_key"`
	Type    ChartType `json:"type"`
	XAxis   string    `json:"x_axis,omitempty"`
	YAxis   string    `json:"y_axis,omitempty"`
}

// Citation ties an answer to the dataset and rows that produced it.
type Citation struct {
	DatasetID          string    `json:"dataset_id"`
	DatasetName        string    `json:"dataset_name"`
	SourceOrganization string    `json:"source_organization"`
	Publisher          string    `json:"publisher"`
	URL                string    `json:"url"`
	License            string    `json:"license"`
	DataQuality        string    `json:"data_quality"`
	UpdateFrequency    string    `json:"update_frequency"`
	LastUpdated        string    `json:"last_updated"`
	Coverage           string    `json:"coverage"`
	VariablesUsed      []string  `json:"variables_used"`
	RecordsAnalyzed    int       `json:"records_analyzed"`
	AccessedDate       string    `json:"accessed_date"`
	AccessedTime       string    `json:"accessed_time"`
	QueryTimestamp     time.Time `json:"query_timestamp"`
	DataFreshness      string    `json:"data_freshness"`
}

// ResponseMeta carries processing details alongside the answer.
type ResponseMeta struct {
	QueryType     QueryType `json:"query_type"`
	EntitiesFound int       `json:"entities_found"`
	DatasetsUsed  []string  `json:"datasets_used"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// Response is the complete result returned for one query. It is always
// well-formed: failures surface as Success=false with an explanatory Answer,
// never as an error across the boundary.
type Response struct {
	Success        bool                      `json:"success"`
	Query          string                    `json:"query"`
	Intent         string                    `json:"intent"`
	Confidence     float64                   `json:"confidence"`
	Answer         string                    `json:"answer"`
	Data           map[string]FormattedTable `json:"data"`
	Scalars        map[string]float64        `json:"scalars,omitempty"`
	Visualizations []ChartSpec               `json:"visualizations"`
	Citations      []Citation                `json:"citations"`
	Cached         bool                      `json:"cached"`
	Error          string                    `json:"error,omitempty"`
	Meta           ResponseMeta              `json:"metadata"`
}
