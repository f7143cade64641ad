package market

import (
	"slices"
	"sync"
	"time"

	"github.com/rickgao/coinwatch/internal/model"
)

// registryState holds the thread-safe asset cache.
type registryState struct {
	mu sync.RWMutex

	// Current snapshot in provider order.
	assets []model.Asset

	// Position of each asset in assets, by ID.
	index map[string]int

	// Fetch time of the current snapshot.
	fetchedAt time.Time

	// Output channel for subscribers.
	changes chan Change
}

func newState() *registryState {
	return &registryState{
		index:   make(map[string]int),
		changes: make(chan Change, ChangeBufferSize),
	}
}

// getAsset returns an asset by ID (read-locked).
func (s *registryState) getAsset(id string) (model.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Asset{}, false
	}
	return cloneAsset(s.assets[i]), true
}

// getAssets returns a copy of the snapshot (read-locked).
func (s *registryState) getAssets() []model.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Asset, len(s.assets))
	for i, a := range s.assets {
		result[i] = cloneAsset(a)
	}
	return result
}

func (s *registryState) lastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

func (s *registryState) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

// replace installs snap unless it predates the current snapshot
// (write-locked). Assets repeating an earlier ID are skipped.
func (s *registryState) replace(snap model.Snapshot) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.FetchedAt.Before(s.fetchedAt) {
		return Change{}, false
	}

	assets := make([]model.Asset, 0, len(snap.Assets))
	index := make(map[string]int, len(snap.Assets))
	change := Change{FetchedAt: snap.FetchedAt}

	for _, a := range snap.Assets {
		if _, dup := index[a.ID]; dup || a.ID == "" {
			continue
		}
		index[a.ID] = len(assets)
		assets = append(assets, cloneAsset(a))

		if _, ok := s.index[a.ID]; !ok {
			change.Added = append(change.Added, a.ID)
		}
	}
	for _, old := range s.assets {
		if _, ok := index[old.ID]; !ok {
			change.Removed = append(change.Removed, old.ID)
		}
	}

	s.assets = assets
	s.index = index
	s.fetchedAt = snap.FetchedAt
	change.Total = len(assets)
	return change, true
}

// notifyChange sends a change to the changes channel (non-blocking).
func (s *registryState) notifyChange(change Change) {
	select {
	case s.changes <- change:
	default:
		// Channel full, drop oldest by consuming one and retrying.
		select {
		case <-s.changes:
			s.changes <- change
		default:
		}
	}
}

func cloneAsset(a model.Asset) model.Asset {
	a.Sparkline7d = slices.Clone(a.Sparkline7d)
	return a
}
