// Package favorites persists the user's starred asset ids through an
// injected key-value capability. The dashboard never talks to a process-wide
// store directly; it receives a Service wired over a Store.
package favorites

import (
	"encoding/json"
	"fmt"
	"sort"
)

// StoreKey is the single fixed key the favorites set lives under.
const StoreKey = "favorites"

// Store is the external key-value capability. Get reports ok=false for a
// missing key; both calls may fail on the underlying medium.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Service keeps the in-memory favorites set in sync with a Store. The value
// on disk is a JSON-encoded array of asset identifiers.
type Service struct {
	store Store
	ids   map[string]bool
}

// NewService loads the persisted set from the store.
func NewService(store Store) (*Service, error) {
	s := &Service{
		store: store,
		ids:   make(map[string]bool),
	}

	raw, ok, err := store.Get(StoreKey)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if !ok || raw == "" {
		return s, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s, nil
}

// Has reports whether the asset is starred.
func (s *Service) Has(assetID string) bool {
	return s.ids[assetID]
}

// IDs returns the starred ids in sorted order.
func (s *Service) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Toggle flips membership for the asset and persists the new set. Toggling
// the same id twice restores the original contents.
func (s *Service) Toggle(assetID string) error {
	if s.ids[assetID] {
		delete(s.ids, assetID)
	} else {
		s.ids[assetID] = true
	}
	return s.save()
}

func (s *Service) save() error {
	data, err := json.Marshal(s.IDs())
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.store.Set(StoreKey, string(data)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}
