package respond

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarth-project/samarth/internal/model"
	"github.com/samarth-project/samarth/internal/table"
)

var testNow = time.Date(2025, time.October, 26, 12, 0, 0, 0, time.UTC)

func testGenerator() *Generator {
	g := New()
	g.now = func() time.Time { return testNow }
	return g
}

func groupedResult(rows []table.Row) *model.ResultSet {
	rs := model.NewResultSet()
	t := table.New("grouped", "state", "production")
	t.Rows = rows
	rs.Data["agriculture_state_wise_production_grouped"] = t
	return rs
}

func stateEntities(states ...string) []model.ExtractedEntity {
	var out []model.ExtractedEntity
	for _, s := range states {
		out = append(out, model.ExtractedEntity{Type: model.EntityState, Value: s})
	}
	return out
}

func TestGenerate_ComparisonAnswerHigherStateFirst(t *testing.T) {
	g := testGenerator()
	rs := groupedResult([]table.Row{
		{"state": "Kerala", "production": 5000.0},
		{"state": "Punjab", "production": 11000.0},
	})
	rs.Statistics.TotalRecords = 2

	resp := g.Generate("compare", model.QueryAnalysis{
		QueryType: model.QueryTypeComparison,
		Entities:  stateEntities("Kerala", "Punjab"),
	}, model.OperationSpec{}, rs)

	assert.Contains(t, resp.Answer,
		"Based on the data, Punjab has higher production (11,000.00) compared to Kerala (5,000.00).")
	assert.Contains(t, resp.Answer, "This analysis is based on 2 data records.")
}

func TestGenerate_ComparisonFallbackWithoutStates(t *testing.T) {
	g := testGenerator()
	rs := groupedResult([]table.Row{
		{"state": "Punjab", "production": 100.0},
	})

	resp := g.Generate("compare", model.QueryAnalysis{
		QueryType: model.QueryTypeComparison,
	}, model.OperationSpec{}, rs)

	assert.Contains(t, resp.Answer, "Here's the comparison data you requested.")
}

func TestGenerate_ComparisonInsufficientData(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()
	rs.Data["agriculture_state_wise_production_aggregated"] = func() *table.Table {
		tb := table.New("agg", "state", "production")
		tb.Rows = []table.Row{{"state": "Punjab", "production": 1.0}}
		return tb
	}()

	resp := g.Generate("compare", model.QueryAnalysis{
		QueryType: model.QueryTypeComparison,
		Entities:  stateEntities("Punjab", "Kerala"),
	}, model.OperationSpec{}, rs)

	assert.Contains(t, resp.Answer,
		"I couldn't find sufficient data to make the requested comparison.")
}

func TestGenerate_RankingAnswer(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()
	ranked := table.New("ranked", "state", "production")
	ranked.Rows = []table.Row{
		{"state": "Punjab", "production": 11000.0},
		{"state": "Kerala", "production": 5000.0},
		{"state": "Assam", "production": 1200.0},
	}
	rs.Data["agriculture_state_wise_production_ranked"] = ranked

	resp := g.Generate("rank", model.QueryAnalysis{
		QueryType: model.QueryTypeRanking,
		Entities: []model.ExtractedEntity{
			{Type: model.EntityCrop, Value: "Rice"},
		},
	}, model.OperationSpec{}, rs)

	assert.Contains(t, resp.Answer,
		"Based on the available data, Punjab has the highest production for Rice (11,000.00), while Assam has the lowest (1,200.00).")
}

func TestGenerate_TrendAnswerIncreasing(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()
	trend := table.New("trend", "state", "year", "production")
	trend.Rows = []table.Row{
		{"state": "Punjab", "year": 2016.0, "production": 100.0},
		{"state": "Punjab", "year": 2020.0, "production": 150.0},
	}
	rs.Data["agriculture_state_wise_production_trend"] = trend

	resp := g.Generate("trend", model.QueryAnalysis{
		QueryType: model.QueryTypeTrendAnalysis,
		Entities: []model.ExtractedEntity{
			{Type: model.EntityCrop, Value: "Rice"},
			{Type: model.EntityState, Value: "Punjab"},
		},
	}, model.OperationSpec{}, rs)

	assert.Contains(t, resp.Answer,
		"The trend analysis shows that production for Rice in Punjab has been increasing over the analyzed period, with a change of approximately 50.0%.")
}

func TestGenerate_TrendAnswerStable(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()
	trend := table.New("trend", "year", "production")
	trend.Rows = []table.Row{
		{"year": 2019.0, "production": 100.0},
		{"year": 2020.0, "production": 100.0},
	}
	rs.Data["x_trend"] = trend

	resp := g.Generate("trend", model.QueryAnalysis{
		QueryType: model.QueryTypeTrendAnalysis,
	}, model.OperationSpec{}, rs)

	assert.Contains(t, resp.Answer,
		"production for the metric has been stable over the analyzed period.")
	assert.NotContains(t, resp.Answer, "change of approximately")
}

func TestGenerate_TrendAnswerZeroStartOmitsChange(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()
	trend := table.New("trend", "year", "rainfall")
	trend.Rows = []table.Row{
		{"year": 2018.0, "rainfall": 0.0},
		{"year": 2019.0, "rainfall": 120.0},
	}
	rs.Data["meteorology_rainfall_data_trend"] = trend

	resp := g.Generate("trend", model.QueryAnalysis{
		QueryType: model.QueryTypeTrendAnalysis,
		Entities: []model.ExtractedEntity{
			{Type: model.EntityState, Value: "Kerala"},
		},
	}, model.OperationSpec{}, rs)

	assert.Contains(t, resp.Answer,
		"The trend analysis shows that rainfall for the metric in Kerala has been increasing over the analyzed period.")
	assert.NotContains(t, resp.Answer, "change of approximately")
	assert.NotContains(t, resp.Answer, "Inf")
}

func TestGenerate_NoDataAnswer(t *testing.T) {
	g := testGenerator()

	resp := g.Generate("anything", model.QueryAnalysis{
		QueryType: model.QueryTypeGeneralInfo,
	}, model.OperationSpec{}, model.NewResultSet())

	assert.Equal(t,
		"I couldn't find relevant data to answer your query. "+
			"Please try rephrasing your question or check if the requested data is available.",
		resp.Answer)
}

func TestGenerate_CorrelationAndGeneralAnswers(t *testing.T) {
	g := testGenerator()
	rs := groupedResult([]table.Row{{"state": "Punjab", "production": 1.0}})

	corr := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeCorrelation},
		model.OperationSpec{}, rs)
	assert.Contains(t, corr.Answer, "I've analyzed the correlation")

	general := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeGeneralInfo},
		model.OperationSpec{}, rs)
	assert.Contains(t, general.Answer, "Here's the information I found")
}

func TestGenerate_FormatsTables(t *testing.T) {
	g := testGenerator()
	rs := groupedResult([]table.Row{
		{"state": "Punjab", "production": 100.0},
		{"state": "Kerala", "production": 50.0},
	})

	resp := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeComparison},
		model.OperationSpec{}, rs)

	ft, ok := resp.Data["agriculture_state_wise_production_grouped"]
	require.True(t, ok)
	assert.Equal(t, []string{"state", "production"}, ft.Columns)
	assert.Equal(t, [2]int{2, 2}, ft.Shape)
	require.Len(t, ft.Records, 2)
	assert.Equal(t, "Punjab", ft.Records[0]["state"])
}

func TestGenerate_Visualizations(t *testing.T) {
	g := testGenerator()

	rs := model.NewResultSet()
	trend := table.New("trend", "year", "production")
	trend.Rows = []table.Row{{"year": 2019.0, "production": 100.0}}
	rs.Data["agriculture_crop_production_trend"] = trend

	resp := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeTrendAnalysis},
		model.OperationSpec{}, rs)

	require.Len(t, resp.Visualizations, 1)
	viz := resp.Visualizations[0]
	assert.Equal(t, "viz_agriculture_crop_production_trend", viz.ID)
	assert.Equal(t, "Agriculture Crop Production Trend", viz.Title)
	assert.Equal(t, model.ChartLine, viz.Type)
	assert.Equal(t, "year", viz.XAxis)
	assert.Equal(t, "year", viz.YAxis)
}

func TestGenerate_VisualizationTypesPerQueryType(t *testing.T) {
	g := testGenerator()
	rs := groupedResult([]table.Row{{"state": "Punjab", "production": 1.0}})

	comparison := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeComparison},
		model.OperationSpec{}, rs)
	require.Len(t, comparison.Visualizations, 1)
	assert.Equal(t, model.ChartBar, comparison.Visualizations[0].Type)
	assert.Equal(t, "state", comparison.Visualizations[0].XAxis)

	ranking := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeRanking},
		model.OperationSpec{}, rs)
	assert.Equal(t, model.ChartHorizontalBar, ranking.Visualizations[0].Type)

	general := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeGeneralInfo},
		model.OperationSpec{}, rs)
	assert.Equal(t, model.ChartTable, general.Visualizations[0].Type)
}

func TestGenerate_Citations(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()
	rs.Metadata["agriculture.state_wise_production"] = model.TableMeta{
		Rows: 42,
		Source: &model.DatasetMetadata{
			ID:              "sample_agriculture_crop_production",
			Description:     "Historical Crop Production Statistics by State (2016-2020)",
			Source:          "Ministry of Agriculture & Farmers Welfare",
			Publisher:       "Directorate of Economics and Statistics",
			URL:             "https://data.gov.in/resource/sample-crop-production",
			License:         "Open Government Data License - India",
			DataQuality:     "High",
			UpdateFrequency: "Annual",
			LastUpdated:     "2021-03-31",
			Coverage:        "Pan-India",
			Variables:       []string{"State", "Crop", "Production"},
		},
	}

	resp := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeGeneralInfo},
		model.OperationSpec{}, rs)

	require.Len(t, resp.Citations, 1)
	c := resp.Citations[0]
	assert.Equal(t, "sample_agriculture_crop_production", c.DatasetID)
	assert.Equal(t, 42, c.RecordsAnalyzed)
	assert.Equal(t, "2025-10-26", c.AccessedDate)
	assert.Equal(t, "12:00:00 UTC", c.AccessedTime)
	assert.Equal(t, "Historical (4 years old)", c.DataFreshness)
}

func TestGenerate_CitationSkippedWithoutSource(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()
	rs.Metadata["x.y"] = model.TableMeta{Rows: 1}

	resp := g.Generate("q", model.QueryAnalysis{QueryType: model.QueryTypeGeneralInfo},
		model.OperationSpec{}, rs)

	assert.Empty(t, resp.Citations)
}

func TestFreshness_Buckets(t *testing.T) {
	now := testNow

	tests := []struct {
		lastUpdated string
		want        string
	}{
		{"", "Unknown"},
		{"Unknown", "Unknown"},
		{"garbage", "Unknown"},
		{"2025-10-26", "Current (Today)"},
		{"2025-10-25", "Recent (1 day old)"},
		{"2025-10-21", "Recent (5 days old)"},
		{"2025-10-01", "Moderate (25 days old)"},
		{"2025-05-26", "Older (153 days old)"},
		{"2023-10-26", "Historical (2 years old)"},
		{"2024-10-20", "Historical (1 year old)"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, freshness(tc.lastUpdated, now), "last_updated: %s", tc.lastUpdated)
	}
}

func TestGenerate_ResponseMetadata(t *testing.T) {
	g := testGenerator()
	rs := model.NewResultSet()

	resp := g.Generate("my query", model.QueryAnalysis{
		QueryType:  model.QueryTypeRanking,
		Intent:     "Rank by production",
		Confidence: 0.85,
		Entities:   stateEntities("Punjab"),
	}, model.OperationSpec{
		DatasetsNeeded: []model.DatasetRef{{Category: "agriculture", Name: "crop_production"}},
	}, rs)

	assert.True(t, resp.Success)
	assert.Equal(t, "my query", resp.Query)
	assert.Equal(t, "Rank by production", resp.Intent)
	assert.Equal(t, 0.85, resp.Confidence)
	assert.Equal(t, model.QueryTypeRanking, resp.Meta.QueryType)
	assert.Equal(t, 1, resp.Meta.EntitiesFound)
	assert.Equal(t, []string{"agriculture.crop_production"}, resp.Meta.DatasetsUsed)
	assert.Equal(t, testNow, resp.Meta.ProcessedAt)
}
