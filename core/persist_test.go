package core

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/iipmodel/readiness/internal/iocache"
	"github.com/iipmodel/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadSession(t *testing.T) {
	catalog := testCatalog(t)
	s := NewSession(catalog)
	require.NoError(t, s.Answer("immersion", 5))
	require.NoError(t, s.Answer("co-creation", 2))
	require.NoError(t, s.SetWeight("collaboration", 1.5))

	var stored []byte
	store := &iocache.MockSessionStore{}
	store.On("Set", s.ID, mock.Anything, schema.SnapshotVersion, s.UpdatedAt.Unix()).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]byte) }).
		Return(nil)

	require.NoError(t, SaveSession(store, s))
	require.NotEmpty(t, stored)

	var snap schema.SessionSnapshot
	require.NoError(t, json.Unmarshal(stored, &snap))
	assert.Equal(t, s.ID, snap.SessionID)
	assert.Len(t, snap.Answers, 2)

	store.On("Get", s.ID).Return(stored, schema.SnapshotVersion, s.UpdatedAt.Unix(), nil)
	loaded, skipped, err := LoadSession(store, catalog, s.ID)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, s.Responses.Overalls(), loaded.Responses.Overalls())
	assert.Equal(t, 1.5, loaded.Weights.Get("collaboration"))

	store.AssertExpectations(t)
}

func TestLoadSessionErrors(t *testing.T) {
	catalog := testCatalog(t)

	t.Run("disabled store", func(t *testing.T) {
		_, _, err := LoadSession(nil, catalog, "abc")
		assert.Error(t, err)
		assert.Error(t, SaveSession(nil, NewSession(catalog)))
	})

	t.Run("missing id", func(t *testing.T) {
		_, _, err := LoadSession(&iocache.MockSessionStore{}, catalog, "  ")
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		store.On("Get", "abc").Return(nil, 0, int64(0), sql.ErrNoRows)
		_, _, err := LoadSession(store, catalog, "abc")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("read failure", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		store.On("Get", "abc").Return(nil, 0, int64(0), errors.New("connection reset"))
		_, _, err := LoadSession(store, catalog, "abc")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("version mismatch", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		store.On("Get", "abc").Return([]byte("{}"), 42, int64(0), nil)
		_, _, err := LoadSession(store, catalog, "abc")
		assert.Error(t, err)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		store.On("Get", "abc").Return([]byte("not json"), schema.SnapshotVersion, int64(0), nil)
		_, _, err := LoadSession(store, catalog, "abc")
		assert.Error(t, err)
	})

	t.Run("store write failure", func(t *testing.T) {
		store := &iocache.MockSessionStore{}
		store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
		assert.Error(t, SaveSession(store, NewSession(catalog)))
	})
}
