// Package engine executes operation plans against tabular datasets:
// loading, filtering, group-and-aggregate with per-query-type ordering,
// joining, and summary statistics. Failures degrade rather than abort: a
// missing dataset is skipped and an empty plan yields an empty but valid
// result set.
package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/samarth-project/samarth/internal/model"
	"github.com/samarth-project/samarth/internal/table"
)

// DataStore supplies cleaned tables and dataset metadata.
type DataStore interface {
	FetchTable(ctx context.Context, category, name string) (*table.Table, error)
	Metadata(category, name string) (model.DatasetMetadata, bool)
}

// Engine runs operation specs. Loaded tables are memoized per dataset for
// the engine's lifetime; the memo is safe for concurrent callers.
type Engine struct {
	store DataStore

	mu   sync.Mutex
	memo map[string]*table.Table
}

// New creates an Engine over a DataStore.
func New(store DataStore) *Engine {
	return &Engine{store: store, memo: make(map[string]*table.Table)}
}

// Execute runs the plan. Partial failures are absorbed: datasets that fail
// to load are skipped with a warning and the result set stays valid.
func (e *Engine) Execute(ctx context.Context, spec model.OperationSpec) *model.ResultSet {
	rs := model.NewResultSet()

	type loaded struct {
		ref model.DatasetRef
		tbl *table.Table
	}
	var tables []loaded

	for _, ref := range spec.DatasetsNeeded {
		t := e.load(ctx, ref)
		if t.Empty() {
			zap.L().Warn("engine: no data for dataset", zap.String("dataset", ref.String()))
			continue
		}
		filtered := applyFilters(t, spec.Filters)
		tables = append(tables, loaded{ref: ref, tbl: filtered})

		meta := model.TableMeta{
			Rows:    filtered.NumRows(),
			Cols:    len(filtered.Columns),
			Columns: filtered.Columns,
		}
		if src, ok := e.store.Metadata(ref.Category, ref.Name); ok {
			meta.Source = &src
		}
		rs.Metadata[ref.String()] = meta
	}

	if len(tables) == 0 {
		zap.L().Warn("engine: no datasets loaded for plan")
		return rs
	}

	for _, agg := range spec.Aggregations {
		for _, l := range tables {
			e.aggregate(rs, spec.QueryType, agg, l.ref, l.tbl)
		}
	}

	if len(tables) > 1 && len(spec.Joins) > 0 {
		all := make([]*table.Table, len(tables))
		for i, l := range tables {
			all[i] = l.tbl
		}
		rs.Data["joined"] = joinAll(all, spec.Joins[0].Keys)
	}

	computeStatistics(rs)
	return rs
}

func (e *Engine) load(ctx context.Context, ref model.DatasetRef) *table.Table {
	key := ref.String()

	e.mu.Lock()
	if t, ok := e.memo[key]; ok {
		e.mu.Unlock()
		return t
	}
	e.mu.Unlock()

	t, err := e.store.FetchTable(ctx, ref.Category, ref.Name)
	if err != nil {
		zap.L().Warn("engine: fetch failed", zap.String("dataset", key), zap.Error(err))
		return nil
	}
	if t == nil {
		return nil
	}

	e.mu.Lock()
	e.memo[key] = t
	e.mu.Unlock()
	return t
}

// applyFilters keeps rows matching every set filter. Filters naming columns
// a table does not have are ignored.
func applyFilters(t *table.Table, f model.Filters) *table.Table {
	if t.Empty() || f.Empty() {
		return t
	}

	out := t
	for col, values := range f.In {
		if !out.HasColumn(col) {
			continue
		}
		allowed := make(map[string]bool, len(values))
		for _, v := range values {
			allowed[v] = true
		}
		out = out.Where(func(r table.Row) bool {
			return allowed[table.Text(r[col])]
		})
	}

	if len(f.Years) > 0 && out.HasColumn("year") {
		allowed := make(map[int]bool, len(f.Years))
		for _, y := range f.Years {
			allowed[y] = true
		}
		out = out.Where(func(r table.Row) bool {
			v, ok := table.Number(r["year"])
			return ok && allowed[int(v)]
		})
	}

	if f.YearRange != nil && out.HasColumn("year") {
		out = out.Where(func(r table.Row) bool {
			v, ok := table.Number(r["year"])
			return ok && f.YearRange.Contains(int(v))
		})
	}

	return out
}

// aggregate groups one table per the aggregation spec and stores the result
// under a name suffixed by the query-type shape: comparison keeps group
// order as produced ("grouped"), trend analysis sorts ascending by year
// ("trend"), ranking sorts strictly descending by the metric ("ranked").
func (e *Engine) aggregate(rs *model.ResultSet, queryType model.QueryType, agg model.Aggregation, ref model.DatasetRef, t *table.Table) {
	if t.Empty() || !t.HasColumn(agg.Column) {
		return
	}

	fn := reducerFor(agg.Function)

	var validGroupBy []string
	for _, c := range agg.GroupBy {
		if t.HasColumn(c) {
			validGroupBy = append(validGroupBy, c)
		}
	}

	if len(validGroupBy) == 0 {
		rs.Scalars[ref.Key()+"_total"] = t.Reduce(agg.Column, fn)
		return
	}

	grouped := t.GroupBy(validGroupBy, agg.Column, fn)

	switch queryType {
	case model.QueryTypeComparison:
		rs.Data[ref.Key()+"_grouped"] = grouped
	case model.QueryTypeTrendAnalysis:
		if !grouped.HasColumn("year") {
			return
		}
		grouped.SortBy("year", true)
		rs.Data[ref.Key()+"_trend"] = grouped
	case model.QueryTypeRanking:
		grouped.SortBy(agg.Column, false)
		rs.Data[ref.Key()+"_ranked"] = grouped
	default:
		rs.Data[ref.Key()+"_aggregated"] = grouped
	}
}

// joinAll outer-joins the tables pairwise on the subset of the requested
// keys present in every table. With no shared key the first table is
// returned unchanged and a degraded-result warning is logged.
func joinAll(tables []*table.Table, keys []string) *table.Table {
	if len(keys) == 0 {
		keys = []string{"state", "year"}
	}

	var shared []string
	for _, k := range keys {
		inAll := true
		for _, t := range tables {
			if !t.HasColumn(k) {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, k)
		}
	}

	if len(shared) == 0 {
		zap.L().Warn("engine: no common join keys, returning first table unjoined")
		return tables[0]
	}

	result := tables[0]
	for _, t := range tables[1:] {
		result = table.OuterJoin(result, t, shared)
	}
	return result
}

func computeStatistics(rs *model.ResultSet) {
	for name, t := range rs.Data {
		rs.Statistics.TotalRecords += t.NumRows()

		if lo, hi, ok := t.YearSpan(); ok {
			rs.Statistics.YearSpan[name] = yearSpanLabel(lo, hi)
		}

		for _, col := range t.NumericColumns() {
			if rs.Statistics.Summary[col] == nil {
				rs.Statistics.Summary[col] = map[string]table.ColumnSummary{}
			}
			rs.Statistics.Summary[col][name] = t.Summarize(col)
		}
	}
}

func yearSpanLabel(lo, hi int) string {
	return fmt.Sprintf("%d-%d", lo, hi)
}

func reducerFor(fn model.AggFunc) func([]float64) float64 {
	switch fn {
	case model.AggMean:
		return table.Mean
	case model.AggMax:
		return table.Max
	case model.AggMin:
		return table.Min
	case model.AggCount:
		return table.Count
	default:
		return table.Sum
	}
}
