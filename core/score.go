package core

import (
	"math"

	"github.com/iipmodel/readiness/schema"
)

// DisplayValue transforms a dimension overall by its weight, asymmetrically
// around the neutral score:
//   - above neutral the weight amplifies, capped at schema.MaxScore
//   - below neutral the weight dampens, reaching 0 at weight 2
//   - exactly neutral stays neutral
//
// The weight is clamped to [0, 2] first.
func DisplayValue(overall, weight float64) float64 {
	w := ClampWeight(weight)
	switch {
	case overall > schema.NeutralScore:
		return math.Min(overall*w, schema.MaxScore)
	case overall < schema.NeutralScore:
		return overall * (1 - w/2)
	default:
		return schema.NeutralScore
	}
}

// FinalScore is the weighted mean of the display values of the given dimensions.
// Missing overalls count as neutral and missing weights as 1.0. When every weight
// is zero the score is 0. The result is not re-normalized to the 0-5 scale.
func FinalScore(dimensions []string, overalls, weights map[string]float64) float64 {
	var weighted, totalWeight float64
	for _, dim := range dimensions {
		overall, ok := overalls[dim]
		if !ok {
			overall = schema.NeutralScore
		}
		w, ok := weights[dim]
		if !ok {
			w = schema.DefaultWeight
		}
		w = ClampWeight(w)
		weighted += DisplayValue(overall, w) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}
