package watchlist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rickgao/coinwatch/internal/model"
)

// validText replaces invalid UTF-8 with U+FFFD, as encoding/json would on
// write, so what the store holds is exactly what a reload returns.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// storedWatchlist is the on-slot shape accepted when hydrating.
//
// Two older shapes exist: the main view wrote "cryptoIds" and no icon, the
// sidebar wrote "cryptos". Both are read as members; only "members" is
// ever written back.
type storedWatchlist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Icon      string   `json:"icon"`
	Members   []string `json:"members"`
	CryptoIDs []string `json:"cryptoIds"`
	Cryptos   []string `json:"cryptos"`
}

func (r *storedWatchlist) members() []string {
	switch {
	case r.Members != nil:
		return r.Members
	case r.CryptoIDs != nil:
		return r.CryptoIDs
	default:
		return r.Cryptos
	}
}

// encode serializes the collection in the current slot layout.
func encode(lists []model.Watchlist) ([]byte, error) {
	out := make([]model.Watchlist, len(lists))
	for i, w := range lists {
		out[i] = w.Clone()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode watchlists: %w", err)
	}
	return data, nil
}

// decode parses a slot value. It returns an error only when the value is not
// a JSON array of objects; individual entries that break an invariant are
// repaired or skipped and counted in dropped.
func decode(data []byte) (lists []model.Watchlist, dropped int, err error) {
	var stored []storedWatchlist
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, 0, fmt.Errorf("decode watchlists: %w", err)
	}

	lists = make([]model.Watchlist, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i := range stored {
		r := &stored[i]
		name := strings.TrimSpace(r.Name)
		if r.ID == "" || name == "" {
			dropped++
			continue
		}
		if _, dup := seen[r.ID]; dup {
			dropped++
			continue
		}
		seen[r.ID] = struct{}{}

		icon := r.Icon
		if strings.TrimSpace(icon) == "" {
			icon = model.DefaultIcon
		}
		lists = append(lists, model.Watchlist{
			ID:      r.ID,
			Name:    name,
			Icon:    icon,
			Members: uniqueMembers(r.members()),
		})
	}
	return lists, dropped, nil
}

// uniqueMembers drops empty and repeated IDs, keeping first occurrences.
func uniqueMembers(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
