// Package nlp turns free-text questions about agricultural and
// meteorological data into a structured QueryAnalysis using ordered
// pattern tables and gazetteer lookups. Classification is deterministic:
// rules are evaluated top-down and the first match wins.
package nlp

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/samarth-project/samarth/internal/model"
)

const baseConfidence = 0.5

// Analyzer extracts intent, entities, and parameters from query text.
type Analyzer struct {
	ner   Recognizer
	title cases.Caser
}

// NewAnalyzer creates an Analyzer. A nil Recognizer disables the optional
// named-entity pass.
func NewAnalyzer(ner Recognizer) *Analyzer {
	if ner == nil {
		ner = NoopRecognizer{}
	}
	return &Analyzer{
		ner:   ner,
		title: cases.Title(language.English),
	}
}

// Analyze produces the structured reading of a query. It never fails: a
// query matching nothing yields general_info with no entities and base
// confidence.
func (a *Analyzer) Analyze(text string) model.QueryAnalysis {
	lower := strings.ToLower(strings.TrimSpace(text))

	queryType := classifyQueryType(lower)
	entities := a.extractEntities(text, lower)
	params := extractParameters(lower)

	return model.QueryAnalysis{
		QueryType:  queryType,
		Entities:   entities,
		Intent:     buildIntent(queryType, entities, params),
		Confidence: scoreConfidence(queryType, entities, params),
		Parameters: params,
	}
}

func (a *Analyzer) extractEntities(original, lower string) []model.ExtractedEntity {
	var candidates []model.ExtractedEntity

	candidates = append(candidates, a.ner.Recognize(original)...)

	for _, entry := range stateEntries {
		for _, span := range entry.re.FindAllStringIndex(lower, -1) {
			candidates = append(candidates, model.ExtractedEntity{
				Type:       model.EntityState,
				Value:      a.title.String(entry.value),
				Confidence: 0.9,
				Start:      span[0],
				End:        span[1],
			})
		}
	}

	for _, entry := range cropEntries {
		for _, span := range entry.re.FindAllStringIndex(lower, -1) {
			candidates = append(candidates, model.ExtractedEntity{
				Type:       model.EntityCrop,
				Value:      a.title.String(entry.value),
				Confidence: 0.9,
				Start:      span[0],
				End:        span[1],
			})
		}
	}

	for _, span := range yearPattern.FindAllStringIndex(lower, -1) {
		candidates = append(candidates, model.ExtractedEntity{
			Type:       model.EntityYear,
			Value:      lower[span[0]:span[1]],
			Confidence: 0.95,
			Start:      span[0],
			End:        span[1],
		})
	}

	return resolveOverlaps(candidates)
}

// resolveOverlaps removes overlapping entity spans: candidates are scanned
// in start order and a newcomer displaces an accepted overlapping entity
// only when its confidence is strictly higher.
func resolveOverlaps(candidates []model.ExtractedEntity) []model.ExtractedEntity {
	if len(candidates) == 0 {
		return nil
	}

	sorted := append([]model.ExtractedEntity(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var accepted []model.ExtractedEntity
	for _, e := range sorted {
		overlap := false
		for i, existing := range accepted {
			if e.Overlaps(existing) {
				if e.Confidence > existing.Confidence {
					accepted = append(accepted[:i], accepted[i+1:]...)
					accepted = append(accepted, e)
				}
				overlap = true
				break
			}
		}
		if !overlap {
			accepted = append(accepted, e)
		}
	}
	return accepted
}

func buildIntent(queryType model.QueryType, entities []model.ExtractedEntity, params model.Parameters) string {
	byType := map[model.EntityType][]string{}
	for _, e := range entities {
		byType[e.Type] = append(byType[e.Type], e.Value)
	}
	metric := string(params.Metric)
	if metric == "" {
		metric = string(model.MetricProduction)
	}
	states := byType[model.EntityState]
	crops := byType[model.EntityCrop]

	switch queryType {
	case model.QueryTypeComparison:
		switch {
		case len(states) >= 2:
			return "Compare " + metric + " between " + strings.Join(states, " and ")
		case len(crops) > 0 && len(states) > 0:
			return "Compare " + crops[0] + " " + metric + " across states"
		default:
			return "Compare " + metric + " data"
		}
	case model.QueryTypeRanking:
		if len(crops) > 0 {
			return "Rank states by " + crops[0] + " " + metric
		}
		return "Rank by " + metric
	case model.QueryTypeTrendAnalysis:
		switch {
		case len(crops) > 0 && len(states) > 0:
			return "Analyze " + crops[0] + " " + metric + " trend in " + states[0]
		case len(crops) > 0:
			return "Analyze " + crops[0] + " " + metric + " trend"
		default:
			return "Analyze " + metric + " trend"
		}
	case model.QueryTypeCorrelation:
		return "Analyze correlation between agricultural and meteorological data"
	default:
		return "General agricultural or meteorological information query"
	}
}

func scoreConfidence(queryType model.QueryType, entities []model.ExtractedEntity, params model.Parameters) float64 {
	entityBoost := 0.1 * float64(len(entities))
	if entityBoost > 0.3 {
		entityBoost = 0.3
	}
	paramBoost := 0.05 * float64(params.Count())
	if paramBoost > 0.15 {
		paramBoost = 0.15
	}
	typeBoost := 0.0
	if queryType != model.QueryTypeGeneralInfo {
		typeBoost = 0.1
	}

	confidence := baseConfidence + entityBoost + paramBoost + typeBoost
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
