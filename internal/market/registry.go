package market

import (
	"log/slog"
	"time"

	"github.com/rickgao/coinwatch/internal/model"
)

// ChangeBufferSize is the capacity of the Change channel.
const ChangeBufferSize = 64

// Change describes a snapshot replacement.
type Change struct {
	FetchedAt time.Time
	Total     int      // Assets in the new snapshot
	Added     []string // IDs not present in the previous snapshot
	Removed   []string // IDs no longer present
}

// Registry caches the latest market snapshot.
type Registry struct {
	state  *registryState
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		state:  newState(),
		logger: logger,
	}
}

// Replace swaps in a new snapshot. A snapshot older than the current one is
// ignored and reported as not applied.
func (r *Registry) Replace(snap model.Snapshot) (Change, bool) {
	change, ok := r.state.replace(snap)
	if !ok {
		r.logger.Debug("ignoring stale snapshot",
			"fetched_at", snap.FetchedAt,
			"current", r.state.lastUpdated(),
		)
		return Change{}, false
	}

	r.state.notifyChange(change)

	if len(change.Added) > 0 || len(change.Removed) > 0 {
		r.logger.Info("asset set changed",
			"total", change.Total,
			"added", len(change.Added),
			"removed", len(change.Removed),
		)
	} else {
		r.logger.Debug("snapshot replaced", "total", change.Total)
	}
	return change, true
}

// HandleSnapshot lets the registry serve directly as a poller handler.
func (r *Registry) HandleSnapshot(snap model.Snapshot) error {
	r.Replace(snap)
	return nil
}

// Assets returns a copy of the current snapshot in provider order.
func (r *Registry) Assets() []model.Asset {
	return r.state.getAssets()
}

// Get returns a specific asset by ID.
func (r *Registry) Get(id string) (model.Asset, bool) {
	return r.state.getAsset(id)
}

// LastUpdated returns when the current snapshot was fetched, or the zero
// time before the first refresh.
func (r *Registry) LastUpdated() time.Time {
	return r.state.lastUpdated()
}

// Len returns the number of assets in the current snapshot.
func (r *Registry) Len() int {
	return r.state.len()
}

// SubscribeChanges returns the channel of snapshot replacements. When the
// consumer falls behind, the oldest pending change is dropped.
func (r *Registry) SubscribeChanges() <-chan Change {
	return r.state.changes
}
