// Package respond turns execution results into complete responses: a
// natural-language answer, serialized tables, chart specifications, and
// citations with provenance and freshness labels.
package respond

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/samarth-project/samarth/internal/model"
	"github.com/samarth-project/samarth/internal/table"
)

const (
	noDataAnswer = "I couldn't find relevant data to answer your query. " +
		"Please try rephrasing your question or check if the requested data is available."
	noComparisonAnswer = "I couldn't find sufficient data to make the requested comparison."
	noRankingAnswer    = "I couldn't find sufficient data to generate the requested ranking."
	noTrendAnswer      = "I couldn't find sufficient data to analyze the requested trend."

	comparisonFallback = "Here's the comparison data you requested. " +
		"Please refer to the table below for detailed values."
	rankingFallback = "Here's the ranking data you requested. " +
		"Please refer to the table below for detailed information."
	trendFallback = "Here's the trend analysis data. " +
		"Please refer to the chart and table below for detailed information."
	correlationAnswer = "I've analyzed the correlation between the agricultural " +
		"and meteorological data. Please refer to the detailed analysis below."
	generalAnswer = "Here's the information I found based on your query. " +
		"Please refer to the data and visualizations below for detailed insights."
)

// groupColumns are never treated as the metric of a result table.
var groupColumns = map[string]bool{"state": true, "year": true, "crop": true}

// Generator renders responses. Now is injectable for deterministic tests.
type Generator struct {
	now     func() time.Time
	printer *message.Printer
	title   cases.Caser
}

// New creates a Generator with wall-clock time and English number formatting.
func New() *Generator {
	return &Generator{
		now:     time.Now,
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
	}
}

// Generate builds the full response for one processed query.
func (g *Generator) Generate(query string, analysis model.QueryAnalysis, spec model.OperationSpec, rs *model.ResultSet) *model.Response {
	now := g.now()

	datasets := make([]string, len(spec.DatasetsNeeded))
	for i, ref := range spec.DatasetsNeeded {
		datasets[i] = ref.String()
	}

	return &model.Response{
		Success:        true,
		Query:          query,
		Intent:         analysis.Intent,
		Confidence:     analysis.Confidence,
		Answer:         g.answer(analysis, rs),
		Data:           formatTables(rs),
		Scalars:        rs.Scalars,
		Visualizations: g.visualizations(analysis.QueryType, rs),
		Citations:      g.citations(rs, now),
		Meta: model.ResponseMeta{
			QueryType:     analysis.QueryType,
			EntitiesFound: len(analysis.Entities),
			DatasetsUsed:  datasets,
			ProcessedAt:   now,
		},
	}
}

func (g *Generator) answer(analysis model.QueryAnalysis, rs *model.ResultSet) string {
	if len(rs.Data) == 0 {
		return noDataAnswer
	}

	entities := map[model.EntityType]string{}
	for _, e := range analysis.Entities {
		entities[e.Type] = e.Value
	}

	var body string
	switch analysis.QueryType {
	case model.QueryTypeComparison:
		body = g.comparisonAnswer(entities, rs)
	case model.QueryTypeRanking:
		body = g.rankingAnswer(entities, rs)
	case model.QueryTypeTrendAnalysis:
		body = g.trendAnswer(entities, rs)
	case model.QueryTypeCorrelation:
		body = correlationAnswer
	default:
		body = generalAnswer
	}

	if rs.Statistics.TotalRecords > 0 {
		body += fmt.Sprintf(" \n\nThis analysis is based on %d data records.", rs.Statistics.TotalRecords)
	}
	return body
}

func (g *Generator) comparisonAnswer(entities map[model.EntityType]string, rs *model.ResultSet) string {
	t := findTable(rs, "grouped")
	if t.Empty() {
		return noComparisonAnswer
	}

	if _, ok := entities[model.EntityState]; ok && t.HasColumn("state") {
		states := t.DistinctStrings("state")
		metric := metricColumn(t.Columns)
		if len(states) >= 2 && metric != "" {
			v1, ok1 := firstValue(t, "state", states[0], metric)
			v2, ok2 := firstValue(t, "state", states[1], metric)
			if ok1 && ok2 {
				hi, lo := states[0], states[1]
				hiVal, loVal := v1, v2
				if v2 >= v1 {
					hi, lo = states[1], states[0]
					hiVal, loVal = v2, v1
				}
				return g.printer.Sprintf("Based on the data, %s has higher %s (%.2f) compared to %s (%.2f).",
					hi, metric, hiVal, lo, loVal)
			}
		}
	}

	return comparisonFallback
}

func (g *Generator) rankingAnswer(entities map[model.EntityType]string, rs *model.ResultSet) string {
	t := findTable(rs, "ranked")
	if t.Empty() {
		return noRankingAnswer
	}

	metric := metricColumn(t.Columns)
	if metric == "" || !t.HasColumn("state") {
		return rankingFallback
	}

	top := t.Rows[0]
	bottom := t.Rows[len(t.Rows)-1]
	topVal, _ := table.Number(top[metric])
	bottomVal, _ := table.Number(bottom[metric])

	crop := entities[model.EntityCrop]
	forCrop := ""
	if crop != "" {
		forCrop = fmt.Sprintf("for %s ", crop)
	}

	return g.printer.Sprintf("Based on the available data, %s has the highest %s %s(%.2f), while %s has the lowest (%.2f).",
		table.Text(top["state"]), metric, forCrop, topVal, table.Text(bottom["state"]), bottomVal)
}

func (g *Generator) trendAnswer(entities map[model.EntityType]string, rs *model.ResultSet) string {
	t := findTable(rs, "trend")
	if t.Empty() {
		return noTrendAnswer
	}

	metric := metricColumn(t.Columns)
	if !t.HasColumn("year") || metric == "" {
		return trendFallback
	}

	first, ok1 := table.Number(t.Rows[0][metric])
	last, ok2 := table.Number(t.Rows[len(t.Rows)-1][metric])
	if !ok1 || !ok2 {
		return trendFallback
	}

	// The change clause is omitted when the series starts at zero.
	var direction string
	var change float64
	switch {
	case last > first:
		direction = "increasing"
		if first != 0 {
			change = (last - first) / first * 100
		}
	case last < first:
		direction = "decreasing"
		if first != 0 {
			change = (first - last) / first * 100
		}
	default:
		direction = "stable"
	}

	subject := entities[model.EntityCrop]
	if subject == "" {
		subject = "the metric"
	}

	answer := fmt.Sprintf("The trend analysis shows that %s for %s", metric, subject)
	if state := entities[model.EntityState]; state != "" {
		answer += fmt.Sprintf(" in %s", state)
	}
	answer += fmt.Sprintf(" has been %s over the analyzed period", direction)
	if change > 0 {
		answer += fmt.Sprintf(", with a change of approximately %.1f%%", change)
	}
	return answer + "."
}

func formatTables(rs *model.ResultSet) map[string]model.FormattedTable {
	out := make(map[string]model.FormattedTable, len(rs.Data))
	for name, t := range rs.Data {
		records := make([]map[string]any, len(t.Rows))
		for i, r := range t.Rows {
			rec := make(map[string]any, len(t.Columns))
			for _, c := range t.Columns {
				rec[c] = r[c]
			}
			records[i] = rec
		}
		out[name] = model.FormattedTable{
			Columns: t.Columns,
			Records: records,
			Shape:   [2]int{t.NumRows(), len(t.Columns)},
		}
	}
	return out
}

func (g *Generator) visualizations(queryType model.QueryType, rs *model.ResultSet) []model.ChartSpec {
	var specs []model.ChartSpec
	for _, name := range sortedKeys(rs.Data) {
		t := rs.Data[name]
		if t.Empty() {
			continue
		}

		spec := model.ChartSpec{
			ID:      "viz_" + name,
			Title:   g.title.String(strings.ReplaceAll(name, "_", " ")),
			DataKey: name,
		}

		yAxis := "value"
		if cols := t.NumericColumns(); len(cols) > 0 {
			yAxis = cols[0]
		}

		switch {
		case queryType == model.QueryTypeTrendAnalysis && t.HasColumn("year"):
			spec.Type = model.ChartLine
			spec.XAxis = "year"
			spec.YAxis = yAxis
		case queryType == model.QueryTypeComparison:
			spec.Type = model.ChartBar
			if t.HasColumn("state") {
				spec.XAxis = "state"
			}
			spec.YAxis = yAxis
		case queryType == model.QueryTypeRanking:
			spec.Type = model.ChartHorizontalBar
			if t.HasColumn("state") {
				spec.XAxis = "state"
			}
			spec.YAxis = yAxis
		default:
			spec.Type = model.ChartTable
		}

		specs = append(specs, spec)
	}
	return specs
}

func (g *Generator) citations(rs *model.ResultSet, now time.Time) []model.Citation {
	var refs []string
	for ref := range rs.Metadata {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	var citations []model.Citation
	for _, ref := range refs {
		info := rs.Metadata[ref]
		if info.Source == nil {
			continue
		}
		src := info.Source
		citations = append(citations, model.Citation{
			DatasetID:          src.ID,
			DatasetName:        src.Description,
			SourceOrganization: src.Source,
			Publisher:          src.Publisher,
			URL:                src.URL,
			License:            src.License,
			DataQuality:        src.DataQuality,
			UpdateFrequency:    src.UpdateFrequency,
			LastUpdated:        src.LastUpdated,
			Coverage:           src.Coverage,
			VariablesUsed:      src.Variables,
			RecordsAnalyzed:    info.Rows,
			AccessedDate:       now.Format("2006-01-02"),
			AccessedTime:       now.Format("15:04:05") + " UTC",
			QueryTimestamp:     now,
			DataFreshness:      freshness(src.LastUpdated, now),
		})
	}
	return citations
}

// freshness labels how old a dataset is relative to now, bucketed into
// human-readable bands.
func freshness(lastUpdated string, now time.Time) string {
	if lastUpdated == "" || lastUpdated == "Unknown" {
		return "Unknown"
	}

	var updated time.Time
	var err error
	if strings.Contains(lastUpdated, "T") {
		updated, err = time.Parse(time.RFC3339, lastUpdated)
	} else {
		updated, err = time.Parse("2006-01-02", lastUpdated)
	}
	if err != nil {
		return "Unknown"
	}

	daysOld := int(now.Sub(updated).Hours() / 24)
	switch {
	case daysOld <= 0:
		return "Current (Today)"
	case daysOld == 1:
		return "Recent (1 day old)"
	case daysOld <= 7:
		return fmt.Sprintf("Recent (%d days old)", daysOld)
	case daysOld <= 30:
		return fmt.Sprintf("Moderate (%d days old)", daysOld)
	case daysOld <= 365:
		return fmt.Sprintf("Older (%d days old)", daysOld)
	default:
		yearsOld := daysOld / 365
		plural := ""
		if yearsOld > 1 {
			plural = "s"
		}
		return fmt.Sprintf("Historical (%d year%s old)", yearsOld, plural)
	}
}
