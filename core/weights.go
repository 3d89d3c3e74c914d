package core

import (
	"fmt"
	"maps"
	"math"

	"github.com/iipmodel/readiness/schema"
)

// WeightMap holds the user-chosen importance of each dimension.
// Dimensions without an explicit weight count with schema.DefaultWeight.
type WeightMap struct {
	weights map[string]float64
}

// NewWeightMap returns a map where every dimension weighs 1.0.
func NewWeightMap() *WeightMap {
	return &WeightMap{weights: make(map[string]float64)}
}

// Get returns the weight of a dimension.
func (w *WeightMap) Get(dimension string) float64 {
	if v, ok := w.weights[dimension]; ok {
		return v
	}
	return schema.DefaultWeight
}

// Set stores a weight. Values outside [0, 2] and NaN are rejected.
func (w *WeightMap) Set(dimension string, weight float64) error {
	if math.IsNaN(weight) || weight < schema.MinWeight || weight > schema.MaxWeight {
		return fmt.Errorf("%w (got %v for %s)", ErrInvalidWeight, weight, dimension)
	}
	w.weights[dimension] = weight
	return nil
}

// All returns a copy of the explicitly set weights.
func (w *WeightMap) All() map[string]float64 {
	out := make(map[string]float64, len(w.weights))
	maps.Copy(out, w.weights)
	return out
}

// Clone returns an independent copy.
func (w *WeightMap) Clone() *WeightMap {
	return &WeightMap{weights: w.All()}
}

// Reset drops every explicit weight.
func (w *WeightMap) Reset() {
	w.weights = make(map[string]float64)
}

// ClampWeight limits a weight to [0, 2]. NaN is treated as the default weight.
func ClampWeight(weight float64) float64 {
	switch {
	case math.IsNaN(weight):
		return schema.DefaultWeight
	case weight < schema.MinWeight:
		return schema.MinWeight
	case weight > schema.MaxWeight:
		return schema.MaxWeight
	default:
		return weight
	}
}
