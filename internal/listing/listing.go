// Package listing derives display rows from the current asset snapshot and
// the watchlist collection.
//
// Rows are computed fresh on every call from the authoritative sources;
// nothing here caches a filtered view between calls.
package listing

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/rickgao/coinwatch/internal/model"
)

// ErrUnknownWatchlist is returned when a query names a watchlist that does
// not exist.
var ErrUnknownWatchlist = errors.New("unknown watchlist")

// AssetSource provides the current market snapshot.
type AssetSource interface {
	Assets() []model.Asset
	Get(id string) (model.Asset, bool)
}

// WatchlistSource provides the watchlist collection.
type WatchlistSource interface {
	List() []model.Watchlist
	Get(id string) (model.Watchlist, bool)
}

// Query selects and filters rows.
type Query struct {
	Search      string // Case-insensitive substring of name or symbol
	WatchlistID string // Restrict to members of this watchlist, in member order
}

// Row is one asset as displayed.
type Row struct {
	Asset model.Asset

	// Missing marks a watchlist member absent from the current snapshot;
	// only Asset.ID is set.
	Missing bool

	// Watchlists holds the IDs of the watchlists containing the asset.
	Watchlists []string
}

// Result is a derived listing.
type Result struct {
	Rows      []Row
	Watchlist *model.Watchlist // Set when the query selected a watchlist
}

// Build derives the rows selected by q.
func Build(assets AssetSource, lists WatchlistSource, q Query) (Result, error) {
	all := lists.List()
	holders := make(map[string][]string)
	for _, w := range all {
		for _, id := range w.Members {
			holders[id] = append(holders[id], w.ID)
		}
	}

	m := newMatcher(q.Search)
	var res Result

	if q.WatchlistID == "" {
		for _, a := range assets.Assets() {
			if !m.match(a) {
				continue
			}
			res.Rows = append(res.Rows, Row{Asset: a, Watchlists: holders[a.ID]})
		}
		return res, nil
	}

	w, ok := lists.Get(q.WatchlistID)
	if !ok {
		return Result{}, ErrUnknownWatchlist
	}
	res.Watchlist = &w

	for _, id := range w.Members {
		row := Row{Watchlists: holders[id]}
		if a, ok := assets.Get(id); ok {
			row.Asset = a
		} else {
			row.Asset = model.Asset{ID: id}
			row.Missing = true
		}
		if !m.match(row.Asset) {
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// matcher tests assets against a folded search term. A Caser is stateful,
// so each Build gets its own.
type matcher struct {
	fold cases.Caser
	term string
}

func newMatcher(search string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.term = m.fold.String(strings.TrimSpace(search))
	return m
}

func (m *matcher) match(a model.Asset) bool {
	if m.term == "" {
		return true
	}
	name := a.Name
	if name == "" {
		name = a.ID
	}
	return strings.Contains(m.fold.String(name), m.term) ||
		strings.Contains(m.fold.String(a.Symbol), m.term)
}
