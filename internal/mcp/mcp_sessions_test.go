package mcp

import (
	"bytes"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/iipmodel/readiness/core"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistryConcurrentAnswers(t *testing.T) {
	catalog, err := contract.LoadCatalog("")
	require.NoError(t, err)
	r := newSessionRegistry(catalog, nil, nil)

	s, err := r.create(map[string]float64{"Accessibility": 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1, r.count())

	questions := []string{"remote-access", "repeatability", "inclusivity", "global-participation"}
	var wg sync.WaitGroup
	for i := range 40 {
		wg.Go(func() {
			q := questions[i%len(questions)]
			assert.NoError(t, r.update(s.ID, func(s *core.Session) error {
				return s.Answer(q, 1+i%5)
			}))
		})
	}
	wg.Wait()

	require.NoError(t, r.read(s.ID, func(s *core.Session) error {
		assert.Equal(t, len(questions), s.Progress().Answered)
		assert.InDelta(t, 1.5, s.Weights.Get("accessibility"), 1e-9)
		return nil
	}))
}

func TestSessionRegistryErrors(t *testing.T) {
	catalog, err := contract.LoadCatalog("")
	require.NoError(t, err)
	r := newSessionRegistry(catalog, nil, nil)

	_, err = r.create(map[string]float64{"nope": 1})
	assert.ErrorIs(t, err, core.ErrUnknownDimension)
	assert.Zero(t, r.count())

	_, err = r.lookup("")
	assert.Error(t, err)
	_, err = r.lookup("missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.ErrorIs(t, r.end("missing"), core.ErrSessionNotFound)

	s, err := r.create(nil)
	require.NoError(t, err)
	failing := errors.New("boom")
	assert.ErrorIs(t, r.update(s.ID, func(*core.Session) error { return failing }), failing)
	require.NoError(t, r.end(s.ID))
	assert.Zero(t, r.count())
}

func TestSessionRegistryRollsBackFailedSave(t *testing.T) {
	catalog, err := contract.LoadCatalog("")
	require.NoError(t, err)

	store := new(iocache.MockSessionStore)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	r := newSessionRegistry(catalog, store, nil)

	s, err := r.create(nil)
	require.NoError(t, err)

	err = r.update(s.ID, func(s *core.Session) error {
		return s.Answer("remote-access", 1)
	})
	assert.ErrorContains(t, err, "disk full")

	require.NoError(t, r.read(s.ID, func(s *core.Session) error {
		_, answered := s.AnswerOf("remote-access")
		assert.False(t, answered, "the unsaved answer is dropped")
		assert.Zero(t, s.Progress().Answered)
		assert.Equal(t, 3.0, s.Responses.Overall("accessibility"))
		return nil
	}))

	// The next successful save does not carry the dropped answer.
	store.On("Set", s.ID, mock.MatchedBy(func(data []byte) bool {
		return bytes.Contains(data, []byte("repeatability")) && !bytes.Contains(data, []byte("remote-access"))
	}), mock.Anything, mock.Anything).Return(nil).Once()
	require.NoError(t, r.update(s.ID, func(s *core.Session) error {
		return s.Answer("repeatability", 4)
	}))
	store.AssertExpectations(t)
}

func TestSessionRegistryRollsBackFailedChange(t *testing.T) {
	catalog, err := contract.LoadCatalog("")
	require.NoError(t, err)
	r := newSessionRegistry(catalog, nil, nil)

	s, err := r.create(nil)
	require.NoError(t, err)
	require.NoError(t, r.update(s.ID, func(s *core.Session) error {
		return s.Answer("inclusivity", 2)
	}))

	failing := errors.New("second step failed")
	err = r.update(s.ID, func(s *core.Session) error {
		if err := s.Answer("repeatability", 5); err != nil {
			return err
		}
		return failing
	})
	assert.ErrorIs(t, err, failing)

	require.NoError(t, r.read(s.ID, func(s *core.Session) error {
		assert.Equal(t, 1, s.Progress().Answered)
		answer, ok := s.AnswerOf("inclusivity")
		assert.True(t, ok)
		assert.Equal(t, 2, answer)
		return nil
	}))
}

func TestSessionRegistryEndRejectsPendingWrites(t *testing.T) {
	catalog, err := contract.LoadCatalog("")
	require.NoError(t, err)

	store := new(iocache.MockSessionStore)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	store.On("Delete", mock.Anything).Return(nil).Once()
	r := newSessionRegistry(catalog, store, nil)

	s, err := r.create(nil)
	require.NoError(t, err)

	// A handler that looked the session up before it ended.
	entry, err := r.lookup(s.ID)
	require.NoError(t, err)
	require.NoError(t, r.end(s.ID))
	store.On("Get", s.ID).Return(nil, 0, int64(0), sql.ErrNoRows)

	err = r.apply(entry, func(s *core.Session) error {
		return s.Answer("remote-access", 5)
	})
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.ErrorIs(t, r.end(s.ID), core.ErrSessionNotFound, "ended sessions are gone from memory and store")

	store.AssertNumberOfCalls(t, "Set", 1)
	store.AssertExpectations(t)
}
