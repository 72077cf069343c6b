package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func production(state string, year, value float64) Row {
	return Row{"state": state, "year": year, "production": value}
}

func TestWhere_FiltersRows(t *testing.T) {
	tbl := New("crops", "state", "year", "production")
	tbl.Rows = []Row{
		production("Punjab", 2019, 100),
		production("Kerala", 2019, 50),
		production("Punjab", 2020, 120),
	}

	out := tbl.Where(func(r Row) bool { return Text(r["state"]) == "Punjab" })

	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, tbl.Columns, out.Columns)
	assert.Equal(t, 3, tbl.NumRows())
}

func TestGroupBy_FirstEncounterOrder(t *testing.T) {
	tbl := New("crops", "state", "year", "production")
	tbl.Rows = []Row{
		production("Kerala", 2019, 50),
		production("Punjab", 2019, 100),
		production("Kerala", 2020, 70),
		production("Punjab", 2020, 120),
	}

	out := tbl.GroupBy([]string{"state"}, "production", Sum)

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, []string{"state", "production"}, out.Columns)
	assert.Equal(t, "Kerala", Text(out.Rows[0]["state"]))
	assert.Equal(t, 120.0, out.Rows[0]["production"])
	assert.Equal(t, "Punjab", Text(out.Rows[1]["state"]))
	assert.Equal(t, 220.0, out.Rows[1]["production"])
}

func TestGroupBy_NonNumericValueStillOpensGroup(t *testing.T) {
	tbl := New("crops", "state", "production")
	tbl.Rows = []Row{
		{"state": "Assam", "production": "n/a"},
	}

	out := tbl.GroupBy([]string{"state"}, "production", Sum)

	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, 0.0, out.Rows[0]["production"])
}

func TestGroupBy_MultipleKeys(t *testing.T) {
	tbl := New("crops", "state", "year", "production")
	tbl.Rows = []Row{
		production("Punjab", 2019, 100),
		production("Punjab", 2019, 30),
		production("Punjab", 2020, 120),
	}

	out := tbl.GroupBy([]string{"state", "year"}, "production", Sum)

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, 130.0, out.Rows[0]["production"])
	assert.Equal(t, 120.0, out.Rows[1]["production"])
}

func TestSortBy_NumericDescending(t *testing.T) {
	tbl := New("crops", "state", "production")
	tbl.Rows = []Row{
		{"state": "Kerala", "production": 50.0},
		{"state": "Punjab", "production": 120.0},
		{"state": "Assam", "production": 80.0},
	}

	tbl.SortBy("production", false)

	assert.Equal(t, "Punjab", Text(tbl.Rows[0]["state"]))
	assert.Equal(t, "Assam", Text(tbl.Rows[1]["state"]))
	assert.Equal(t, "Kerala", Text(tbl.Rows[2]["state"]))
}

func TestSortBy_NilCellsSortLast(t *testing.T) {
	tbl := New("crops", "state", "production")
	tbl.Rows = []Row{
		{"state": "Kerala", "production": nil},
		{"state": "Punjab", "production": 120.0},
	}

	tbl.SortBy("production", true)

	assert.Equal(t, "Punjab", Text(tbl.Rows[0]["state"]))
	assert.Nil(t, tbl.Rows[1]["production"])
}

func TestReduce_SumSkipsNonNumeric(t *testing.T) {
	tbl := New("crops", "production")
	tbl.Rows = []Row{
		{"production": 10.0},
		{"production": "bad"},
		{"production": 5.0},
	}

	assert.Equal(t, 15.0, tbl.Reduce("production", Sum))
}

func TestNumber_Conversions(t *testing.T) {
	v, ok := Number(4.5)
	assert.True(t, ok)
	assert.Equal(t, 4.5, v)

	v, ok = Number(7)
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = Number("4.5")
	assert.False(t, ok)

	_, ok = Number(nil)
	assert.False(t, ok)
}

func TestDistinctStrings_FirstEncounterOrder(t *testing.T) {
	tbl := New("crops", "state")
	tbl.Rows = []Row{
		{"state": "Punjab"},
		{"state": "Kerala"},
		{"state": "Punjab"},
		{"state": ""},
	}

	assert.Equal(t, []string{"Punjab", "Kerala"}, tbl.DistinctStrings("state"))
}

func TestNumericColumns_PreservesColumnOrder(t *testing.T) {
	tbl := New("crops", "state", "year", "production")
	tbl.Rows = []Row{
		{"state": "Punjab", "year": 2019.0, "production": 100.0},
	}

	assert.Equal(t, []string{"year", "production"}, tbl.NumericColumns())
}

func TestSummarize_Statistics(t *testing.T) {
	tbl := New("crops", "production")
	tbl.Rows = []Row{
		{"production": 2.0},
		{"production": 4.0},
		{"production": 6.0},
	}

	s := tbl.Summarize("production")

	assert.Equal(t, 4.0, s.Mean)
	assert.Equal(t, 4.0, s.Median)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)
	assert.InDelta(t, 2.0, s.Std, 0.001)
}

func TestMedian_EvenCount(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{1, 2, 4, 5}))
}

func TestStd_FewerThanTwoValues(t *testing.T) {
	assert.Equal(t, 0.0, Std(nil))
	assert.Equal(t, 0.0, Std([]float64{5}))
}

func TestYearSpan(t *testing.T) {
	tbl := New("crops", "year")
	tbl.Rows = []Row{
		{"year": 2018.0},
		{"year": 2016.0},
		{"year": 2020.0},
	}

	lo, hi, ok := tbl.YearSpan()
	require.True(t, ok)
	assert.Equal(t, 2016, lo)
	assert.Equal(t, 2020, hi)

	_, _, ok = New("empty", "year").YearSpan()
	assert.False(t, ok)
}

func TestOuterJoin_MatchedAndUnmatchedRows(t *testing.T) {
	left := New("production", "state", "year", "production")
	left.Rows = []Row{
		production("Punjab", 2019, 100),
		production("Kerala", 2019, 50),
	}

	right := New("rainfall", "state", "year", "rainfall")
	right.Rows = []Row{
		{"state": "Punjab", "year": 2019.0, "rainfall": 600.0},
		{"state": "Assam", "year": 2019.0, "rainfall": 2000.0},
	}

	out := OuterJoin(left, right, []string{"state", "year"})

	require.Equal(t, 3, out.NumRows())
	assert.Equal(t, []string{"state", "year", "production", "rainfall"}, out.Columns)

	assert.Equal(t, 600.0, out.Rows[0]["rainfall"])
	assert.Equal(t, 100.0, out.Rows[0]["production"])

	assert.Nil(t, out.Rows[1]["rainfall"])

	assert.Equal(t, "Assam", Text(out.Rows[2]["state"]))
	assert.Equal(t, 2000.0, out.Rows[2]["rainfall"])
	assert.Nil(t, out.Rows[2]["production"])
}

func TestOuterJoin_ClashingColumnsSuffixed(t *testing.T) {
	left := New("a", "state", "value")
	left.Rows = []Row{{"state": "Punjab", "value": 1.0}}

	right := New("b", "state", "value")
	right.Rows = []Row{{"state": "Punjab", "value": 2.0}}

	out := OuterJoin(left, right, []string{"state"})

	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, []string{"state", "value", "value_y"}, out.Columns)
	assert.Equal(t, 1.0, out.Rows[0]["value"])
	assert.Equal(t, 2.0, out.Rows[0]["value_y"])
}

func TestAppend_RegistersNewColumns(t *testing.T) {
	tbl := New("crops", "state")
	tbl.Append(Row{"state": "Punjab", "production": 100.0})

	assert.True(t, tbl.HasColumn("production"))
	assert.Equal(t, 1, tbl.NumRows())
}
