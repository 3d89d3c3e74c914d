package iocache

import (
	"time"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSessionStore implements the StoreManager interface.
func (m *MockStoreManager) GetSessionStore() contract.SessionStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SessionStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockSessionStore is a mock implementation of SessionStore for testing.
type MockSessionStore struct {
	mock.Mock
}

var _ contract.SessionStore = &MockSessionStore{} // Compile-time check

// Get implements the SessionStore interface.
func (m *MockSessionStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the SessionStore interface.
func (m *MockSessionStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Delete implements the SessionStore interface.
func (m *MockSessionStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Close implements the SessionStore interface.
func (m *MockSessionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the SessionStore interface.
func (m *MockSessionStore) GetStatus() (schema.SessionStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SessionStoreStatus), args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, sessionID string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, sessionID, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordDimensionScore implements the RunStore interface.
func (m *MockRunStore) RecordDimensionScore(runID int64, dim schema.DimensionResult) error {
	args := m.Called(runID, dim)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, finalScore float64, label string, totalDimensions int) error {
	args := m.Called(runID, endTime, finalScore, label, totalDimensions)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStoreStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.AssessmentRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AssessmentRunRecord)
	return runs, args.Error(1)
}

// GetAllDimensionScores implements the RunStore interface.
func (m *MockRunStore) GetAllDimensionScores() ([]schema.DimensionScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.DimensionScoreRecord)
	return scores, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
