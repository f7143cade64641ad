package listing

import (
	"errors"
	"slices"
	"testing"

	"github.com/rickgao/coinwatch/internal/model"
)

// fakeAssets is an in-order asset snapshot.
type fakeAssets []model.Asset

func (f fakeAssets) Assets() []model.Asset { return slices.Clone(f) }

func (f fakeAssets) Get(id string) (model.Asset, bool) {
	for _, a := range f {
		if a.ID == id {
			return a, true
		}
	}
	return model.Asset{}, false
}

// fakeLists is a fixed watchlist collection.
type fakeLists []model.Watchlist

func (f fakeLists) List() []model.Watchlist { return slices.Clone(f) }

func (f fakeLists) Get(id string) (model.Watchlist, bool) {
	for _, w := range f {
		if w.ID == id {
			return w.Clone(), true
		}
	}
	return model.Watchlist{}, false
}

var (
	snapshot = fakeAssets{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "tether", Symbol: "usdt", Name: "Tether"},
		{ID: "bitcoin-cash", Symbol: "bch", Name: "Bitcoin Cash"},
	}
	collection = fakeLists{
		{ID: "w1", Name: "Majors", Icon: "★", Members: []string{"ethereum", "delisted-coin", "bitcoin"}},
		{ID: "w2", Name: "Stables", Icon: "💵", Members: []string{"tether", "bitcoin"}},
	}
)

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Asset.ID
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all in provider order", Query{}, []string{"bitcoin", "ethereum", "tether", "bitcoin-cash"}},
		{"search by name", Query{Search: "bitcoin"}, []string{"bitcoin", "bitcoin-cash"}},
		{"search ignores case", Query{Search: "  ETHER "}, []string{"ethereum", "tether"}},
		{"search by symbol", Query{Search: "usdt"}, []string{"tether"}},
		{"no match", Query{Search: "doge"}, nil},
		{"watchlist in member order", Query{WatchlistID: "w1"}, []string{"ethereum", "delisted-coin", "bitcoin"}},
		{"watchlist with search", Query{WatchlistID: "w2", Search: "BTC"}, []string{"bitcoin"}},
		{"missing member matched by id", Query{WatchlistID: "w1", Search: "delisted"}, []string{"delisted-coin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(snapshot, collection, tt.query)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got := rowIDs(res.Rows); !slices.Equal(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild_Memberships(t *testing.T) {
	res, err := Build(snapshot, collection, Query{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := map[string][]string{
		"bitcoin":      {"w1", "w2"},
		"ethereum":     {"w1"},
		"tether":       {"w2"},
		"bitcoin-cash": nil,
	}
	for _, r := range res.Rows {
		if !slices.Equal(r.Watchlists, want[r.Asset.ID]) {
			t.Errorf("%s watchlists = %v, want %v", r.Asset.ID, r.Watchlists, want[r.Asset.ID])
		}
		if r.Missing {
			t.Errorf("%s marked missing", r.Asset.ID)
		}
	}
	if res.Watchlist != nil {
		t.Errorf("Watchlist = %+v, want nil", res.Watchlist)
	}
}

func TestBuild_WatchlistMissingMember(t *testing.T) {
	res, err := Build(snapshot, collection, Query{WatchlistID: "w1"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Watchlist == nil || res.Watchlist.Name != "Majors" {
		t.Fatalf("Watchlist = %+v, want Majors", res.Watchlist)
	}

	missing := res.Rows[1]
	if !missing.Missing || missing.Asset.ID != "delisted-coin" {
		t.Errorf("row 1 = %+v, want missing delisted-coin", missing)
	}
	if res.Rows[0].Asset.Name != "Ethereum" {
		t.Errorf("row 0 name = %q, want Ethereum", res.Rows[0].Asset.Name)
	}
}

func TestBuild_UnknownWatchlist(t *testing.T) {
	_, err := Build(snapshot, collection, Query{WatchlistID: "nope"})
	if !errors.Is(err, ErrUnknownWatchlist) {
		t.Errorf("err = %v, want ErrUnknownWatchlist", err)
	}
}

func TestBuild_EmptySnapshot(t *testing.T) {
	res, err := Build(fakeAssets{}, collection, Query{WatchlistID: "w2"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, r := range res.Rows {
		if !r.Missing {
			t.Errorf("%s not marked missing before first refresh", r.Asset.ID)
		}
	}
}
