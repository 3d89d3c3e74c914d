package mcp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/iipmodel/readiness/core"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
	"go.uber.org/zap"
)

// sessionEntry serializes the tool calls made against one session.
// An ended entry refuses further calls from handlers that still hold it.
type sessionEntry struct {
	mu      sync.Mutex
	session *core.Session
	ended   bool
}

// sessionRegistry keeps the sessions of the connected client in memory.
// When a session store is configured, every write is saved through it and
// unknown IDs are restored from it, so sessions survive a server restart.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	catalog  *schema.Catalog
	store    contract.SessionStore
	logger   *zap.Logger
}

func newSessionRegistry(catalog *schema.Catalog, store contract.SessionStore, logger *zap.Logger) *sessionRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionRegistry{
		sessions: make(map[string]*sessionEntry),
		catalog:  catalog,
		store:    store,
		logger:   logger,
	}
}

// create starts a session seeded with the given weights.
func (r *sessionRegistry) create(weights map[string]float64) (*core.Session, error) {
	s := core.NewSession(r.catalog)
	for dim, w := range weights {
		if err := s.SetWeight(dim, w); err != nil {
			return nil, err
		}
	}
	if err := r.save(s); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = &sessionEntry{session: s}
	r.mu.Unlock()

	r.logger.Info("session started", zap.String("session_id", s.ID))
	return s, nil
}

// lookup returns the entry of a session, restoring it from the store if needed.
func (r *sessionRegistry) lookup(id string) (*sessionEntry, error) {
	if id == "" {
		return nil, errors.New("session_id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		return e, nil
	}
	if r.store == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}

	s, skipped, err := core.LoadSession(r.store, r.catalog, id)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		r.logger.Warn("snapshot entries skipped", zap.String("session_id", id), zap.Strings("skipped", skipped))
	}
	e := &sessionEntry{session: s}
	r.sessions[id] = e
	r.logger.Debug("session restored", zap.String("session_id", id))
	return e, nil
}

// read runs fn while holding the session lock.
func (r *sessionRegistry) read(id string, fn func(*core.Session) error) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return fn(e.session)
}

// update runs fn while holding the session lock and saves the session when fn succeeds.
func (r *sessionRegistry) update(id string, fn func(*core.Session) error) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	return r.apply(e, fn)
}

// apply changes the session of an entry all or nothing: when fn or the save
// fails, the session goes back to its state before the call.
func (r *sessionRegistry) apply(e *sessionEntry, fn func(*core.Session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, e.session.ID)
	}

	before := e.session.Snapshot()
	err := fn(e.session)
	if err == nil {
		err = r.save(e.session)
	}
	if err != nil {
		r.rollback(e, before)
		return err
	}
	return nil
}

func (r *sessionRegistry) rollback(e *sessionEntry, before schema.SessionSnapshot) {
	s, _, err := core.RestoreSession(r.catalog, before)
	if err != nil {
		r.logger.Error("session rollback failed", zap.String("session_id", before.SessionID), zap.Error(err))
		return
	}
	e.session = s
	r.logger.Debug("session rolled back", zap.String("session_id", before.SessionID))
}

// end discards the session from memory and from the store. The entry lock is
// held throughout so that no pending update can save the session again.
func (r *sessionRegistry) end(id string) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	e.ended = true

	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.Delete(id); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", id, err)
		}
	}
	r.logger.Info("session ended", zap.String("session_id", id))
	return nil
}

func (r *sessionRegistry) save(s *core.Session) error {
	if r.store == nil {
		return nil
	}
	return core.SaveSession(r.store, s)
}

// count returns the number of sessions held in memory.
func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
