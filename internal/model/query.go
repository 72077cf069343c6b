package model

// QueryType identifies the kind of question being asked.
type QueryType string

const (
	QueryTypeComparison    QueryType = "comparison"
	QueryTypeRanking       QueryType = "ranking"
	QueryTypeTrendAnalysis QueryType = "trend_analysis"
	QueryTypeCorrelation   QueryType = "correlation"
	QueryTypeGeneralInfo   QueryType = "general_info"
)

// AllQueryTypes returns every supported query type.
func AllQueryTypes() []QueryType {
	return []QueryType{
		QueryTypeComparison,
		QueryTypeRanking,
		QueryTypeTrendAnalysis,
		QueryTypeCorrelation,
		QueryTypeGeneralInfo,
	}
}

// EntityType identifies the kind of span extracted from a query.
type EntityType string

const (
	EntityState    EntityType = "state"
	EntityCrop     EntityType = "crop"
	EntityYear     EntityType = "year"
	EntityLocation EntityType = "location"
	EntityDate     EntityType = "date"
)

// ExtractedEntity is a typed, located span of query text. Start and End are a
// half-open character range into the original query.
type ExtractedEntity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
}

// Overlaps reports whether two entity spans intersect.
func (e ExtractedEntity) Overlaps(other ExtractedEntity) bool {
	return e.Start < other.End && e.End > other.Start
}

// Metric names the measured quantity a query asks about.
type Metric string

const (
	MetricProduction Metric = "production"
	MetricRainfall   Metric = "rainfall"
	MetricYield      Metric = "yield"
	MetricArea       Metric = "area"
)

// AggFunc is an aggregation function applied to a column.
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggMean  AggFunc = "mean"
	AggMax   AggFunc = "max"
	AggMin   AggFunc = "min"
	AggCount AggFunc = "count"
)

// TimePeriod is the resolved time constraint of a query. Either Start/End
// hold an explicit year range, or Years holds the integer form ("last N
// years" and the bare "in YYYY" both yield an integer, matching the source
// behavior the mapper relies on).
type TimePeriod struct {
	Years   int  `json:"years,omitempty"`
	Start   int  `json:"start,omitempty"`
	End     int  `json:"end,omitempty"`
	IsRange bool `json:"is_range,omitempty"`
}

// Parameters holds the optional query parameters pulled from free text.
type Parameters struct {
	TimePeriod  *TimePeriod `json:"time_period,omitempty"`
	Metric      Metric      `json:"metric,omitempty"`
	Aggregation AggFunc     `json:"aggregation,omitempty"`
}

// Count returns how many parameters are set, for confidence scoring.
func (p Parameters) Count() int {
	n := 0
	if p.TimePeriod != nil {
		n++
	}
	if p.Metric != "" {
		n++
	}
	if p.Aggregation != "" {
		n++
	}
	return n
}

// QueryAnalysis is the full structured reading of a natural-language query.
// Entities are ordered by start offset and never overlap.
type QueryAnalysis struct {
	QueryType  QueryType         `json:"query_type"`
	Entities   []ExtractedEntity `json:"entities"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Parameters Parameters        `json:"parameters"`
}

// EntitiesOfType returns the values of all entities with the given type,
// preserving query order.
func (a QueryAnalysis) EntitiesOfType(t EntityType) []string {
	var out []string
	for _, e := range a.Entities {
		if e.Type == t {
			out = append(out, e.Value)
		}
	}
	return out
}
