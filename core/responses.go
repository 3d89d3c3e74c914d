package core

import (
	"fmt"
	"sort"

	"github.com/iipmodel/readiness/schema"
)

// questionKey identifies an answer within a dimension.
type questionKey struct {
	subdimension string
	question     string
}

// dimensionRecord holds the answers of one dimension and its cached overall.
type dimensionRecord struct {
	answers map[questionKey]int
	overall float64
}

// ResponseStore keeps the answers of a single session.
// It is not safe for concurrent use.
type ResponseStore struct {
	dimensions map[string]*dimensionRecord
}

// NewResponseStore returns an empty store.
func NewResponseStore() *ResponseStore {
	return &ResponseStore{dimensions: make(map[string]*dimensionRecord)}
}

// RecordAnswer upserts an answer and recomputes the dimension's overall.
// Answers outside 1..5 are rejected and leave the store unchanged.
func (s *ResponseStore) RecordAnswer(dimension, subdimension, question string, answer int) error {
	if answer < schema.MinAnswer || answer > schema.MaxAnswer {
		return fmt.Errorf("%w (got %d)", ErrInvalidAnswer, answer)
	}
	rec, ok := s.dimensions[dimension]
	if !ok {
		rec = &dimensionRecord{
			answers: make(map[questionKey]int),
			overall: schema.NeutralScore,
		}
		s.dimensions[dimension] = rec
	}
	rec.answers[questionKey{subdimension: subdimension, question: question}] = answer
	s.RecomputeOverall(dimension)
	return nil
}

// RecomputeOverall sets the dimension's overall to the mean of its subdimension means.
// Subdimensions without answers do not count. A dimension without answers keeps
// its previous overall.
func (s *ResponseStore) RecomputeOverall(dimension string) {
	rec, ok := s.dimensions[dimension]
	if !ok {
		return
	}
	means := subdimensionMeans(rec)
	if len(means) == 0 {
		return
	}

	// Sum in key order so the float result does not depend on map iteration.
	subs := make([]string, 0, len(means))
	for sub := range means {
		subs = append(subs, sub)
	}
	sort.Strings(subs)

	total := 0.0
	for _, sub := range subs {
		total += means[sub]
	}
	rec.overall = total / float64(len(subs))
}

// Overall returns the cached overall of a dimension, or the neutral score
// for a dimension that has never been written.
func (s *ResponseStore) Overall(dimension string) float64 {
	if rec, ok := s.dimensions[dimension]; ok {
		return rec.overall
	}
	return schema.NeutralScore
}

// Overalls returns the cached overall of every written dimension.
func (s *ResponseStore) Overalls() map[string]float64 {
	out := make(map[string]float64, len(s.dimensions))
	for dim, rec := range s.dimensions {
		out[dim] = rec.overall
	}
	return out
}

// Answer returns the recorded answer of a question.
func (s *ResponseStore) Answer(dimension, subdimension, question string) (int, bool) {
	rec, ok := s.dimensions[dimension]
	if !ok {
		return 0, false
	}
	answer, ok := rec.answers[questionKey{subdimension: subdimension, question: question}]
	return answer, ok
}

// Answers returns the answers of a dimension sorted by subdimension and question.
func (s *ResponseStore) Answers(dimension string) []schema.SnapshotAnswer {
	rec, ok := s.dimensions[dimension]
	if !ok {
		return nil
	}
	out := make([]schema.SnapshotAnswer, 0, len(rec.answers))
	for k, v := range rec.answers {
		out = append(out, schema.SnapshotAnswer{
			DimensionID:    dimension,
			SubdimensionID: k.subdimension,
			QuestionID:     k.question,
			Answer:         v,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubdimensionID != out[j].SubdimensionID {
			return out[i].SubdimensionID < out[j].SubdimensionID
		}
		return out[i].QuestionID < out[j].QuestionID
	})
	return out
}

// AnsweredCount returns how many questions of a dimension have an answer.
func (s *ResponseStore) AnsweredCount(dimension string) int {
	if rec, ok := s.dimensions[dimension]; ok {
		return len(rec.answers)
	}
	return 0
}

// SubdimensionMeans returns the non-weighted mean of each answered subdimension.
func (s *ResponseStore) SubdimensionMeans(dimension string) map[string]float64 {
	rec, ok := s.dimensions[dimension]
	if !ok {
		return map[string]float64{}
	}
	return subdimensionMeans(rec)
}

// Dimensions returns the written dimensions in sorted order.
func (s *ResponseStore) Dimensions() []string {
	out := make([]string, 0, len(s.dimensions))
	for dim := range s.dimensions {
		out = append(out, dim)
	}
	sort.Strings(out)
	return out
}

// Reset discards every answer.
func (s *ResponseStore) Reset() {
	s.dimensions = make(map[string]*dimensionRecord)
}

func subdimensionMeans(rec *dimensionRecord) map[string]float64 {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for k, v := range rec.answers {
		sums[k.subdimension] += v
		counts[k.subdimension]++
	}
	means := make(map[string]float64, len(sums))
	for sub, sum := range sums {
		means[sub] = float64(sum) / float64(counts[sub])
	}
	return means
}
