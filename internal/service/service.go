// Package service wires query analysis, operation planning, execution,
// response generation, and caching into the single entry point the CLI and
// HTTP server call.
package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samarth-project/samarth/internal/cache"
	"github.com/samarth-project/samarth/internal/datastore"
	"github.com/samarth-project/samarth/internal/engine"
	"github.com/samarth-project/samarth/internal/mapper"
	"github.com/samarth-project/samarth/internal/model"
	"github.com/samarth-project/samarth/internal/nlp"
	"github.com/samarth-project/samarth/internal/respond"
)

// Service answers natural-language questions over the registered datasets.
type Service struct {
	analyzer  *nlp.Analyzer
	mapper    *mapper.Mapper
	engine    *engine.Engine
	generator *respond.Generator
	store     *datastore.Store
	cache     *cache.Cache
}

// New assembles a Service over a data store and response cache.
func New(store *datastore.Store, c *cache.Cache) *Service {
	return &Service{
		analyzer:  nlp.NewAnalyzer(nil),
		mapper:    mapper.New(),
		engine:    engine.New(store),
		generator: respond.New(),
		store:     store,
		cache:     c,
	}
}

// ProcessQuery answers one query. It never returns an error across the
// boundary: failures, including panics in the pipeline, surface as a
// well-formed response with Success=false.
func (s *Service) ProcessQuery(ctx context.Context, query string) (resp *model.Response) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("service: panic while processing query",
				zap.String("query", query),
				zap.Any("panic", r),
			)
			resp = errorResponse(query, eris.Errorf("internal error: %v", r))
		}
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return &model.Response{
			Success: false,
			Error:   "query is required",
			Answer:  "Please provide a question about agricultural or meteorological data.",
			Data:    map[string]model.FormattedTable{},
		}
	}

	zap.L().Info("service: processing query", zap.String("query", query))

	analysis := s.analyzer.Analyze(query)
	zap.L().Info("service: query analyzed",
		zap.String("intent", analysis.Intent),
		zap.String("query_type", string(analysis.QueryType)),
		zap.Int("entities", len(analysis.Entities)),
	)

	spec := s.mapper.Map(analysis)

	key := cache.Key(strings.ToLower(query), analysis, spec)
	if cached, ok := s.cache.Get(ctx, key); ok {
		zap.L().Info("service: cache hit", zap.String("key", key))
		hit := *cached
		hit.Cached = true
		return &hit
	}

	results := s.engine.Execute(ctx, spec)
	resp = s.generator.Generate(query, analysis, spec, results)
	resp.Cached = false

	s.cache.Put(ctx, key, resp)
	return resp
}

// Datasets lists the registered dataset catalog.
func (s *Service) Datasets() []model.DatasetMetadata {
	return s.store.Registry().All()
}

// SearchDatasets finds catalog entries matching a term.
func (s *Service) SearchDatasets(term string) []model.DatasetMetadata {
	return s.store.Registry().Search(term)
}

// CacheLen reports the number of live cached responses.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// ClearCache drops all cached responses.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}

// Warmup preloads every registered dataset so first queries answer fast.
// Datasets load concurrently; the first load failure aborts the rest.
func (s *Service) Warmup(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, m := range s.store.Registry().All() {
		category, name := m.Category, m.Name
		g.Go(func() error {
			t, err := s.store.FetchTable(ctx, category, name)
			if err != nil {
				return eris.Wrapf(err, "service: warm %s.%s", category, name)
			}
			zap.L().Info("service: dataset warmed",
				zap.String("dataset", category+"."+name),
				zap.Int("rows", t.NumRows()),
			)
			return nil
		})
	}
	return g.Wait()
}

func errorResponse(query string, err error) *model.Response {
	return &model.Response{
		Success: false,
		Query:   query,
		Error:   eris.ToString(err, false),
		Answer: "I apologize, but I encountered an error while processing your query. " +
			"Please try rephrasing your question.",
		Data:      map[string]model.FormattedTable{},
		Citations: []model.Citation{},
	}
}
