package core

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
)

// SaveSession stores the snapshot of a session under its ID.
func SaveSession(store contract.SessionStore, s *Session) error {
	if store == nil {
		return errors.New("session store is disabled (backend none)")
	}
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	if err := store.Set(s.ID, data, schema.SnapshotVersion, s.UpdatedAt.Unix()); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

// LoadSession restores a stored session. Answers and weights that the catalog
// no longer knows are dropped and reported.
func LoadSession(store contract.SessionStore, catalog *schema.Catalog, id string) (*Session, []string, error) {
	if store == nil {
		return nil, nil, errors.New("session store is disabled (backend none)")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil, errors.New("no session given: pass an answer sheet or --session")
	}
	data, version, _, err := store.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	if version != schema.SnapshotVersion {
		return nil, nil, fmt.Errorf("session %s was stored with unsupported version %d", id, version)
	}
	var snap schema.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return RestoreSession(catalog, snap)
}
