package nlp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samarth-project/samarth/internal/model"
)

// queryTypeRules is the ordered classification table. Categories are
// evaluated top-down and the first one with any matching pattern wins;
// no match means general_info.
var queryTypeRules = []struct {
	queryType model.QueryType
	patterns  []*regexp.Regexp
}{
	{model.QueryTypeComparison, compileAll(
		`compare.*between|compare.*and|difference between|versus|vs`,
		`higher.*than|lower.*than|more.*than|less.*than`,
		`which.*better|which.*worse|which.*higher|which.*lower`,
	)},
	{model.QueryTypeRanking, compileAll(
		`highest|lowest|maximum|minimum|top|bottom|best|worst`,
		`rank.*by|sort.*by|order.*by`,
		`which.*most|which.*least|leading|lagging`,
	)},
	{model.QueryTypeTrendAnalysis, compileAll(
		`trend|pattern|over.*years?|over.*time|across.*years?`,
		`increase|growth|decline|change`,
		`from.*to|between.*and.*year|during.*period`,
	)},
	{model.QueryTypeCorrelation, compileAll(
		`correlat|relationship|connect|link|impact.*on`,
		`affect|influence|depend|relate`,
		`due.*to|because.*of|result.*of`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func classifyQueryType(query string) model.QueryType {
	for _, rule := range queryTypeRules {
		for _, re := range rule.patterns {
			if re.MatchString(query) {
				return rule.queryType
			}
		}
	}
	return model.QueryTypeGeneralInfo
}

// timeRules resolves time-period phrases in fixed priority order; the first
// matching rule wins. "in YYYY" deliberately yields the integer form, same
// as "last N years": the mapper interprets any integer as a lookback window.
var timeRules = []struct {
	re    *regexp.Regexp
	apply func(m []string) *model.TimePeriod
}{
	{regexp.MustCompile(`last (\d+) years?`), yearsPeriod},
	{regexp.MustCompile(`past (\d+) years?`), yearsPeriod},
	{regexp.MustCompile(`(\d{4})-(\d{4})`), rangePeriod},
	{regexp.MustCompile(`from (\d{4}) to (\d{4})`), rangePeriod},
	{regexp.MustCompile(`between (\d{4}) and (\d{4})`), rangePeriod},
	{regexp.MustCompile(`in (\d{4})`), yearsPeriod},
	{regexp.MustCompile(`decade`), func([]string) *model.TimePeriod {
		return &model.TimePeriod{Years: 10}
	}},
}

func yearsPeriod(m []string) *model.TimePeriod {
	n, _ := strconv.Atoi(m[1])
	return &model.TimePeriod{Years: n}
}

func rangePeriod(m []string) *model.TimePeriod {
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return &model.TimePeriod{Start: start, End: end, IsRange: true}
}

// metricBuckets maps keyword sets to metrics, checked in order with
// substring semantics.
var metricBuckets = []struct {
	words  []string
	metric model.Metric
}{
	{[]string{"production", "produce", "output"}, model.MetricProduction},
	{[]string{"rainfall", "rain", "precipitation"}, model.MetricRainfall},
	{[]string{"yield", "productivity"}, model.MetricYield},
	{[]string{"area", "acreage"}, model.MetricArea},
}

// aggBuckets maps keyword sets to aggregation functions, checked in order.
var aggBuckets = []struct {
	words []string
	fn    model.AggFunc
}{
	{[]string{"average", "mean", "avg"}, model.AggMean},
	{[]string{"total", "sum"}, model.AggSum},
	{[]string{"maximum", "max", "highest"}, model.AggMax},
	{[]string{"minimum", "min", "lowest"}, model.AggMin},
}

func extractParameters(query string) model.Parameters {
	var params model.Parameters

	for _, rule := range timeRules {
		if m := rule.re.FindStringSubmatch(query); m != nil {
			params.TimePeriod = rule.apply(m)
			break
		}
	}

	for _, b := range metricBuckets {
		if containsAny(query, b.words) {
			params.Metric = b.metric
			break
		}
	}

	for _, b := range aggBuckets {
		if containsAny(query, b.words) {
			params.Aggregation = b.fn
			break
		}
	}

	return params
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
