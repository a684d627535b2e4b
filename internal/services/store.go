package services

import (
	"sync"

	"craneview/pkg/contracts/domain"
)

// DatasetStore holds the current dataset. Loads replace it wholesale;
// readers always see either the previous complete dataset or the new one,
// never a partial state.
type DatasetStore struct {
	mu sync.RWMutex
	ds *domain.Dataset
}

// NewDatasetStore creates an empty store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

// Set replaces the current dataset.
func (s *DatasetStore) Set(ds *domain.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
}

// Get returns the current dataset, nil when nothing was loaded yet.
func (s *DatasetStore) Get() *domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Loaded reports whether a dataset is present.
func (s *DatasetStore) Loaded() bool {
	return s.Get() != nil
}
