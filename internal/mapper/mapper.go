// Package mapper translates a QueryAnalysis into a concrete OperationSpec:
// which datasets to load, how to filter them, and what to aggregate.
package mapper

import (
	"strconv"
	"time"

	"github.com/samarth-project/samarth/internal/model"
)

// datasetBinding names the datasets that carry a metric and the columns
// they expose.
type datasetBinding struct {
	datasets   []model.DatasetRef
	keyColumns []string
}

var metricBindings = map[model.Metric]datasetBinding{
	model.MetricProduction: {
		datasets: []model.DatasetRef{
			{Category: "agriculture", Name: "crop_production"},
			{Category: "agriculture", Name: "state_wise_production"},
		},
		keyColumns: []string{"state", "crop", "year", "production"},
	},
	model.MetricRainfall: {
		datasets: []model.DatasetRef{
			{Category: "meteorology", Name: "rainfall_data"},
			{Category: "meteorology", Name: "rainfall_districts"},
		},
		keyColumns: []string{"state", "year", "rainfall"},
	},
	model.MetricYield: {
		datasets: []model.DatasetRef{
			{Category: "agriculture", Name: "state_wise_production"},
		},
		keyColumns: []string{"state", "crop", "year", "yield"},
	},
	model.MetricArea: {
		datasets: []model.DatasetRef{
			{Category: "agriculture", Name: "state_wise_production"},
		},
		keyColumns: []string{"state", "crop", "year", "area"},
	},
}

// Mapper derives operation plans. It is stateless apart from the clock,
// which is injectable for tests.
type Mapper struct {
	Now func() time.Time
}

// New creates a Mapper using the wall clock.
func New() *Mapper {
	return &Mapper{Now: time.Now}
}

// Map derives an OperationSpec from a query analysis. It is pure and never
// fails; an analysis with no recognizable metric falls back to production.
func (m *Mapper) Map(analysis model.QueryAnalysis) model.OperationSpec {
	spec := model.OperationSpec{
		QueryType:    analysis.QueryType,
		Filters:      model.Filters{In: map[string][]string{}},
		OutputFormat: model.FormatTable,
	}

	metric := analysis.Parameters.Metric
	if metric == "" {
		metric = model.MetricProduction
	}
	if binding, ok := metricBindings[metric]; ok {
		spec.DatasetsNeeded = append(spec.DatasetsNeeded, binding.datasets...)
	}

	for _, e := range analysis.Entities {
		switch e.Type {
		case model.EntityState:
			spec.Filters.In["state"] = append(spec.Filters.In["state"], e.Value)
		case model.EntityCrop:
			spec.Filters.In["crop"] = append(spec.Filters.In["crop"], e.Value)
		case model.EntityYear:
			if y := parseYear(e.Value); y > 0 {
				spec.Filters.Years = append(spec.Filters.Years, y)
			}
		}
	}

	if tp := analysis.Parameters.TimePeriod; tp != nil {
		if tp.IsRange {
			spec.Filters.YearRange = &model.YearRange{Start: tp.Start, End: tp.End}
		} else {
			current := m.Now().Year()
			spec.Filters.YearRange = &model.YearRange{Start: current - tp.Years, End: current}
		}
	}

	groupBy := []string{"state"}
	if analysis.QueryType == model.QueryTypeTrendAnalysis {
		groupBy = []string{"state", "year"}
	}
	function := analysis.Parameters.Aggregation
	if function == "" {
		function = model.AggSum
	}
	spec.Aggregations = []model.Aggregation{{
		Column:   string(metric),
		Function: function,
		GroupBy:  groupBy,
	}}

	if len(spec.DatasetsNeeded) > 1 {
		spec.Joins = []model.JoinSpec{{Keys: []string{"state", "year"}, Kind: "outer"}}
	}

	switch analysis.QueryType {
	case model.QueryTypeTrendAnalysis, model.QueryTypeCorrelation:
		spec.OutputFormat = model.FormatChart
	case model.QueryTypeRanking:
		spec.OutputFormat = model.FormatRankedTable
	}

	return spec
}

func parseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return y
}
