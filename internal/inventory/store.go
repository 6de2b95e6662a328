// internal/inventory/store.go
package inventory

import (
	"fmt"
	"sync"

	"stocksync/internal/logger"
)

// Store owns the one live snapshot. It is written only by the sync loop
// (wholesale Replace on every successful poll) and by the dispatcher
// (point mutation after a confirmed update); everything else reads through
// Snapshot().
type Store struct {
	mu         sync.RWMutex
	order      []string
	items      map[string]Item
	privileged bool
	stale      bool
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]Item),
	}
}

// Replace atomically swaps the entire snapshot. A malformed payload (empty
// name or unit, negative quantity) fails the whole replace and the
// previous snapshot is retained unchanged.
func (s *Store) Replace(items []Item, privileged bool) error {
	order := make([]string, 0, len(items))
	byName := make(map[string]Item, len(items))
	for _, item := range items {
		if item.Name == "" || item.Unit == "" {
			return fmt.Errorf("malformed inventory payload: item with missing fields")
		}
		if item.Quantity < 0 {
			return fmt.Errorf("malformed inventory payload: negative quantity for %q", item.Name)
		}
		if _, dup := byName[item.Name]; dup {
			return fmt.Errorf("malformed inventory payload: duplicate item %q", item.Name)
		}
		order = append(order, item.Name)
		byName[item.Name] = item
	}

	s.mu.Lock()
	s.order = order
	s.items = byName
	s.privileged = privileged
	s.stale = false
	s.mu.Unlock()
	return nil
}

// ApplyConfirmedQuantity sets the quantity of an existing item. If the
// name is unknown the local snapshot is stale relative to the server; the
// call is a logged no-op and the store is marked for a corrective resync.
func (s *Store) ApplyConfirmedQuantity(name string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[name]
	if !ok {
		logger.LogWarn("Confirmed quantity for unknown item %q dropped; snapshot is stale", name)
		s.stale = true
		return false
	}
	item.Quantity = quantity
	s.items[name] = item
	return true
}

// Snapshot returns a copy of the current state in server order.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.order))
	for _, name := range s.order {
		items = append(items, s.items[name])
	}
	return Snapshot{Items: items, Privileged: s.privileged}
}

// Item looks up a single item by name.
func (s *Store) Item(name string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[name]
	return item, ok
}

// LowStockNames is a pure read over the current snapshot.
func (s *Store) LowStockNames() []string {
	return s.Snapshot().LowStockNames()
}

// IsPrivileged reports the privilege flag of the current snapshot.
func (s *Store) IsPrivileged() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.privileged
}

// ConsumeStale reports and clears the stale marker set by a missed
// confirmed update. The sync loop uses it to schedule a corrective poll
// ahead of the regular tick.
func (s *Store) ConsumeStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stale := s.stale
	s.stale = false
	return stale
}
