// Package iocache persists assessment sessions and run history.
package iocache

import (
	"sync"

	"github.com/iipmodel/readiness/internal/contract"
)

// StoreManagerImpl holds the session store and the run store.
// A disabled store is returned as a nil interface.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	sessions     contract.SessionStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetSessionStore returns the SessionStore, or nil when sessions are disabled.
func (mgr *StoreManagerImpl) GetSessionStore() contract.SessionStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.sessions
}

// GetRunStore returns the RunStore, or nil when run tracking is disabled.
func (mgr *StoreManagerImpl) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
