package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rickgao/coinwatch/internal/model"
	"github.com/rickgao/coinwatch/internal/storage"
)

// DefaultKey is the storage slot holding the serialized collection.
const DefaultKey = "watchlists"

// Store owns the watchlist collection and keeps its storage slot in sync.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	key    string
	logger *slog.Logger
	newID  func() string

	lists []model.Watchlist

	// dirty is set when the last write-through failed, so the slot lags
	// the in-memory collection.
	dirty bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new watchlist IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Open hydrates a Store from its slot in kv.
//
// An absent or unparseable slot yields an empty store. A failed read is
// returned as an error, since writing through over an unread slot would
// destroy its contents.
func Open(ctx context.Context, kv storage.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: slog.Default(),
		newID:  uuid.NewString,
		lists:  []model.Watchlist{},
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Info("no persisted watchlists, starting empty", "key", s.key)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlists: %w", err)
	}

	lists, dropped, err := decode(data)
	if err != nil {
		s.logger.Warn("persisted watchlists are malformed, starting empty",
			"key", s.key,
			"err", err,
		)
		return s, nil
	}
	if dropped > 0 {
		s.logger.Warn("skipped invalid persisted watchlists", "key", s.key, "dropped", dropped)
	}
	s.lists = lists

	s.logger.Info("watchlists loaded", "key", s.key, "count", len(lists))
	return s, nil
}

// Create appends a new, empty watchlist and returns its ID. A name that is
// blank after trimming is ignored and yields "". An empty icon becomes
// model.DefaultIcon.
func (s *Store) Create(ctx context.Context, name, icon string) (string, error) {
	name = strings.TrimSpace(validText(name))

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return "", s.retryLocked(ctx, "create")
	}
	icon = strings.TrimSpace(validText(icon))
	if icon == "" {
		icon = model.DefaultIcon
	}

	id := s.freshIDLocked()
	s.lists = append(s.lists, model.Watchlist{
		ID:      id,
		Name:    name,
		Icon:    icon,
		Members: []string{},
	})
	return id, s.persistLocked(ctx, "create")
}

// Delete removes the watchlist with the given ID, if any.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return s.retryLocked(ctx, "delete")
	}
	s.lists = slices.Delete(s.lists, i, i+1)
	return s.persistLocked(ctx, "delete")
}

// AddMember appends assetID to the watchlist unless it is already a member.
func (s *Store) AddMember(ctx context.Context, id, assetID string) error {
	assetID = validText(assetID)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || assetID == "" || s.lists[i].Has(assetID) {
		return s.retryLocked(ctx, "add member")
	}
	s.lists[i].Members = append(s.lists[i].Members, assetID)
	return s.persistLocked(ctx, "add member")
}

// RemoveMember removes assetID from the watchlist if it is a member.
func (s *Store) RemoveMember(ctx context.Context, id, assetID string) error {
	assetID = validText(assetID)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || !s.lists[i].Has(assetID) {
		return s.retryLocked(ctx, "remove member")
	}
	s.lists[i].Members = slices.DeleteFunc(s.lists[i].Members, func(m string) bool {
		return m == assetID
	})
	return s.persistLocked(ctx, "remove member")
}

// ToggleMember adds assetID when absent and removes it when present. It
// reports whether assetID is a member afterwards; an unknown watchlist
// reports false.
func (s *Store) ToggleMember(ctx context.Context, id, assetID string) (bool, error) {
	assetID = validText(assetID)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || assetID == "" {
		return false, s.retryLocked(ctx, "toggle member")
	}
	if s.lists[i].Has(assetID) {
		s.lists[i].Members = slices.DeleteFunc(s.lists[i].Members, func(m string) bool {
			return m == assetID
		})
		return false, s.persistLocked(ctx, "toggle member")
	}
	s.lists[i].Members = append(s.lists[i].Members, assetID)
	return true, s.persistLocked(ctx, "toggle member")
}

// List returns copies of all watchlists in creation order.
func (s *Store) List() []model.Watchlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Watchlist, len(s.lists))
	for i, w := range s.lists {
		out[i] = w.Clone()
	}
	return out
}

// Get returns a copy of the watchlist with the given ID.
func (s *Store) Get(id string) (model.Watchlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Watchlist{}, false
	}
	return s.lists[i].Clone(), true
}

// Containing returns the IDs of the watchlists that hold assetID.
func (s *Store) Containing(assetID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, w := range s.lists {
		if w.Has(assetID) {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

// Len returns the number of watchlists.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists)
}

// Dirty reports whether the slot lags the in-memory collection after a
// failed write.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.lists, func(w model.Watchlist) bool {
		return w.ID == id
	})
}

func (s *Store) freshIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
}

// retryLocked is the write step of an operation that changed nothing: the
// slot is only touched when an earlier write is still outstanding.
func (s *Store) retryLocked(ctx context.Context, op string) error {
	if !s.dirty {
		return nil
	}
	return s.persistLocked(ctx, op)
}

// persistLocked writes the whole collection to the slot.
func (s *Store) persistLocked(ctx context.Context, op string) error {
	data, err := encode(s.lists)
	if err == nil {
		err = s.kv.Put(ctx, s.key, data)
	}
	if err != nil {
		s.dirty = true
		s.logger.Warn("watchlist write-through failed",
			"op", op,
			"key", s.key,
			"err", err,
		)
		return &PersistError{Op: op, Err: err}
	}
	if s.dirty {
		s.logger.Info("watchlist write-through recovered", "op", op, "key", s.key)
	}
	s.dirty = false
	return nil
}
