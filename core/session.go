package core

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/iipmodel/readiness/schema"
)

// Session owns the answers and weights of one respondent.
// It is created at session start and discarded at session end; nothing global
// is shared between sessions. A Session is not safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Catalog   *schema.Catalog
	Responses *ResponseStore
	Weights   *WeightMap
}

// NewSession starts an empty session over the catalog.
func NewSession(catalog *schema.Catalog) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Catalog:   catalog,
		Responses: NewResponseStore(),
		Weights:   NewWeightMap(),
	}
}

// Answer records the answer of a catalog question.
func (s *Session) Answer(questionID string, answer int) error {
	ref, ok := s.Catalog.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if err := s.Responses.RecordAnswer(ref.DimensionID, ref.SubdimensionID, ref.QuestionID, answer); err != nil {
		return fmt.Errorf("question %s: %w", questionID, err)
	}
	s.touch()
	return nil
}

// AnswerOf returns the recorded answer of a catalog question.
func (s *Session) AnswerOf(questionID string) (int, bool) {
	ref, ok := s.Catalog.Question(questionID)
	if !ok {
		return 0, false
	}
	return s.Responses.Answer(ref.DimensionID, ref.SubdimensionID, ref.QuestionID)
}

// SetWeight sets the importance of a dimension given by ID or display name.
func (s *Session) SetWeight(dimension string, weight float64) error {
	dim, ok := s.Catalog.ResolveDimension(dimension)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}
	if err := s.Weights.Set(dim.ID, weight); err != nil {
		return err
	}
	s.touch()
	return nil
}

// Progress reports how many catalog questions have been answered.
func (s *Session) Progress() schema.Progress {
	p := schema.Progress{
		Steps:      len(s.Catalog.Dimensions),
		Dimensions: make([]schema.DimensionProgress, 0, len(s.Catalog.Dimensions)),
	}
	for i, d := range s.Catalog.Dimensions {
		answered := 0
		for _, sub := range d.Subdimensions {
			for _, q := range sub.Questions {
				if _, ok := s.Responses.Answer(d.ID, sub.ID, q.ID); ok {
					answered++
				}
			}
		}
		total := d.QuestionCount()
		p.Dimensions = append(p.Dimensions, schema.DimensionProgress{
			ID:       d.ID,
			Name:     d.Name,
			Step:     i + 1,
			Answered: answered,
			Total:    total,
		})
		p.Answered += answered
		p.Total += total
	}
	p.AllAnswered = p.Answered == p.Total
	return p
}

// Reset clears every answer and weight but keeps the session identity.
func (s *Session) Reset() {
	s.Responses.Reset()
	s.Weights.Reset()
	s.touch()
}

// Snapshot captures the raw answers and weights. Overalls are not included;
// they are recomputed on restore.
func (s *Session) Snapshot() schema.SessionSnapshot {
	snap := schema.SessionSnapshot{
		Version:   schema.SnapshotVersion,
		SessionID: s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Answers:   []schema.SnapshotAnswer{},
		Weights:   s.Weights.All(),
	}
	for _, dim := range s.Responses.Dimensions() {
		snap.Answers = append(snap.Answers, s.Responses.Answers(dim)...)
	}
	return snap
}

// RestoreSession rebuilds a session by replaying a snapshot through the
// response store. Answers to questions and weights of dimensions the catalog
// no longer has are skipped and their IDs returned.
func RestoreSession(catalog *schema.Catalog, snap schema.SessionSnapshot) (*Session, []string, error) {
	if snap.Version != schema.SnapshotVersion {
		return nil, nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	s := NewSession(catalog)
	if snap.SessionID != "" {
		s.ID = snap.SessionID
	}
	if !snap.CreatedAt.IsZero() {
		s.CreatedAt = snap.CreatedAt
	}

	var skipped []string
	for _, a := range snap.Answers {
		if _, ok := catalog.Question(a.QuestionID); !ok {
			skipped = append(skipped, a.QuestionID)
			continue
		}
		if err := s.Answer(a.QuestionID, a.Answer); err != nil {
			return nil, nil, fmt.Errorf("corrupt snapshot %s: %w", snap.SessionID, err)
		}
	}
	for _, dim := range slices.Sorted(maps.Keys(snap.Weights)) {
		w := snap.Weights[dim]
		if _, ok := catalog.Dimension(dim); !ok {
			skipped = append(skipped, dim)
			continue
		}
		if err := s.Weights.Set(dim, w); err != nil {
			return nil, nil, fmt.Errorf("corrupt snapshot %s: %w", snap.SessionID, err)
		}
	}

	s.UpdatedAt = snap.UpdatedAt
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}
	return s, skipped, nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
