package core

import (
	"time"

	"github.com/iipmodel/readiness/schema"
)

// Aggregate scores a session: one row per catalog dimension in catalog order,
// the final score with its label, and the closed radar series.
func Aggregate(s *Session) schema.AssessmentResult {
	progress := s.Progress()
	dims := s.Catalog.DimensionIDs()
	overalls := make(map[string]float64, len(dims))
	weights := make(map[string]float64, len(dims))

	rows := make([]schema.DimensionResult, 0, len(dims))
	for i, d := range s.Catalog.Dimensions {
		overall := s.Responses.Overall(d.ID)
		weight := s.Weights.Get(d.ID)
		overalls[d.ID] = overall
		weights[d.ID] = weight

		rows = append(rows, schema.DimensionResult{
			ID:            d.ID,
			Name:          d.Name,
			Overall:       overall,
			Weight:        weight,
			DisplayValue:  DisplayValue(overall, weight),
			Answered:      progress.Dimensions[i].Answered,
			Total:         progress.Dimensions[i].Total,
			Subdimensions: aggregateSubdimensions(s, d),
		})
	}

	final := FinalScore(dims, overalls, weights)
	return schema.AssessmentResult{
		SessionID:   s.ID,
		Title:       s.Catalog.Title,
		GeneratedAt: time.Now().UTC(),
		Dimensions:  rows,
		FinalScore:  final,
		Label:       schema.GetReadinessLabel(final),
		Radar:       RadarSeriesOf(rows),
		Progress:    progress,
	}
}

// RadarSeriesOf builds the chart series from scored rows. The first category
// is repeated at the end so the polygon closes.
func RadarSeriesOf(rows []schema.DimensionResult) schema.RadarSeries {
	series := schema.RadarSeries{
		Categories: make([]string, 0, len(rows)+1),
		Values:     make([]float64, 0, len(rows)+1),
	}
	for _, r := range rows {
		series.Categories = append(series.Categories, r.Name)
		series.Values = append(series.Values, r.DisplayValue)
	}
	if len(rows) > 0 {
		series.Categories = append(series.Categories, series.Categories[0])
		series.Values = append(series.Values, series.Values[0])
	}
	return series
}

// aggregateSubdimensions lists every subdimension of d in catalog order.
// Mean is left at zero for subdimensions without answers.
func aggregateSubdimensions(s *Session, d schema.Dimension) []schema.SubdimensionResult {
	means := s.Responses.SubdimensionMeans(d.ID)
	out := make([]schema.SubdimensionResult, 0, len(d.Subdimensions))
	for _, sub := range d.Subdimensions {
		answered := 0
		for _, q := range sub.Questions {
			if _, ok := s.Responses.Answer(d.ID, sub.ID, q.ID); ok {
				answered++
			}
		}
		out = append(out, schema.SubdimensionResult{
			ID:       sub.ID,
			Name:     sub.Name,
			Mean:     means[sub.ID],
			Answered: answered,
			Total:    len(sub.Questions),
		})
	}
	return out
}
