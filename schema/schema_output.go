package schema

// EnrichedDimensionResult adds presentation data to a DimensionResult.
type EnrichedDimensionResult struct {
	Step  int    `json:"step"`
	Label string `json:"label"`
	DimensionResult
}

// EnrichDimensions adds the questionnaire step and readiness label to each dimension.
func EnrichDimensions(dims []DimensionResult) []EnrichedDimensionResult {
	output := make([]EnrichedDimensionResult, len(dims))
	for i, d := range dims {
		output[i] = EnrichedDimensionResult{
			Step:            i + 1,
			Label:           GetReadinessLabel(d.DisplayValue),
			DimensionResult: d,
		}
	}
	return output
}
