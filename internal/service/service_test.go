package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samarth-project/samarth/internal/cache"
	"github.com/samarth-project/samarth/internal/datastore"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const productionCSV = `State Name,Crop,Crop_Year,Production_in_Tonnes
Punjab,Rice,2019,1200
Haryana,Rice,2019,800
Punjab,Wheat,2019,2000
`

// testService backs the registry's state_wise_production dataset with a
// small fixture file; the remaining registered datasets have no files and
// are skipped at load time.
func testService(t *testing.T) *Service {
	t.Helper()

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "sample_agriculture_crop_production.csv"),
		[]byte(productionCSV), 0o644))

	store := datastore.New(dataDir, filepath.Join(dataDir, "cache"), datastore.NewRegistry())
	c := cache.New(cache.NoopSnapshot{}, time.Hour, 100)
	return New(store, c)
}

func TestProcessQuery_EmptyQuery(t *testing.T) {
	svc := testService(t)

	resp := svc.ProcessQuery(context.Background(), "   ")

	assert.False(t, resp.Success)
	assert.Equal(t, "query is required", resp.Error)
	assert.Equal(t, "Please provide a question about agricultural or meteorological data.", resp.Answer)
}

func TestProcessQuery_ComparisonEndToEnd(t *testing.T) {
	svc := testService(t)

	resp := svc.ProcessQuery(context.Background(), "Compare rice production between Punjab and Haryana")

	require.True(t, resp.Success)
	assert.False(t, resp.Cached)
	assert.Contains(t, resp.Answer, "Punjab has higher production")
	assert.Contains(t, resp.Answer, "compared to Haryana")
	assert.NotEmpty(t, resp.Data)

	require.NotEmpty(t, resp.Citations)
	assert.Equal(t, "Ministry of Agriculture & Farmers Welfare", resp.Citations[0].SourceOrganization)
}

func TestProcessQuery_SecondCallServedFromCache(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	query := "Which state has the highest wheat production?"

	first := svc.ProcessQuery(ctx, query)
	require.True(t, first.Success)
	assert.False(t, first.Cached)

	second := svc.ProcessQuery(ctx, query)
	require.True(t, second.Success)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Answer, second.Answer)

	assert.Equal(t, 1, svc.CacheLen())
}

func TestProcessQuery_DistinctQueriesCachedSeparately(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	svc.ProcessQuery(ctx, "Compare rice production between Punjab and Haryana")
	svc.ProcessQuery(ctx, "Which state has the highest wheat production?")

	assert.Equal(t, 2, svc.CacheLen())
}

func TestClearCache(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	svc.ProcessQuery(ctx, "Compare rice production between Punjab and Haryana")
	require.Equal(t, 1, svc.CacheLen())

	svc.ClearCache(ctx)
	assert.Equal(t, 0, svc.CacheLen())
}

func TestProcessQuery_NoMatchingData(t *testing.T) {
	svc := testService(t)

	resp := svc.ProcessQuery(context.Background(), "Compare rice production between Punjab and Haryana in 1950")

	require.True(t, resp.Success)
	assert.Contains(t, resp.Answer, "couldn't find relevant data")
}

func TestDatasets(t *testing.T) {
	svc := testService(t)

	assert.Len(t, svc.Datasets(), 5)
	assert.Len(t, svc.SearchDatasets("rainfall"), 2)
	assert.Empty(t, svc.SearchDatasets("fisheries"))
}

func TestWarmup_MissingFilesAreSkipped(t *testing.T) {
	svc := testService(t)

	assert.NoError(t, svc.Warmup(context.Background()))
}
