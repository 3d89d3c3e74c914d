package core

import "github.com/iipmodel/readiness/schema"

// BuildBreakdown lists, for every catalog dimension, the answered questions as
// (short label, raw answer) pairs in catalog order along with the
// non-weighted subdimension means. Answered dimensions carry an interpretation
// of their overall.
func BuildBreakdown(s *Session) []schema.DimensionBreakdown {
	out := make([]schema.DimensionBreakdown, 0, len(s.Catalog.Dimensions))
	for _, d := range s.Catalog.Dimensions {
		out = append(out, breakdownOf(s, d))
	}
	return out
}

func breakdownOf(s *Session, d schema.Dimension) schema.DimensionBreakdown {
	b := schema.DimensionBreakdown{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Overall:       s.Responses.Overall(d.ID),
		Items:         []schema.BreakdownItem{},
		Subdimensions: aggregateSubdimensions(s, d),
	}
	for _, sub := range d.Subdimensions {
		for _, q := range sub.Questions {
			answer, ok := s.Responses.Answer(d.ID, sub.ID, q.ID)
			if !ok {
				continue
			}
			b.Items = append(b.Items, schema.BreakdownItem{
				QuestionID:     q.ID,
				SubdimensionID: sub.ID,
				Label:          q.Label(),
				Score:          answer,
				ScoreLabel:     schema.LikertLabel(answer),
			})
		}
	}
	if len(b.Items) > 0 {
		b.Interpretation = schema.GetInterpretation(b.Overall)
	}
	return b
}
