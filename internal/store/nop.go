package store

import "github.com/amishk599/jobwatch/internal/model"

// NopStore is used in dry-run mode. It never persists, so nothing a dry run
// sees is remembered. Load returns an empty set unless a seed store is given.
type NopStore struct {
	seed model.NotifiedStore
}

// NewNopStore returns a store that loads empty and discards saves.
func NewNopStore() *NopStore { return &NopStore{} }

// NewReadOnlyStore returns a store that loads from inner but discards saves.
func NewReadOnlyStore(inner model.NotifiedStore) *NopStore { return &NopStore{seed: inner} }

func (s *NopStore) Load() *model.NotifiedSet {
	if s.seed == nil {
		return model.NewNotifiedSet()
	}
	return s.seed.Load()
}

func (s *NopStore) Save(*model.NotifiedSet) error { return nil }
