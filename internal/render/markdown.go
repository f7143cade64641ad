package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickgao/coinwatch/internal/listing"
	"github.com/rickgao/coinwatch/internal/model"
)

// SparklineWidth is the number of glyphs in a table sparkline.
const SparklineWidth = 24

// Options tweak table rendering.
type Options struct {
	// Names maps watchlist IDs to display labels for the "Lists" column.
	Names map[string]string

	// UpdatedAt is shown under the table when non-zero.
	UpdatedAt time.Time
}

// WatchlistNames builds Options.Names from a collection.
func WatchlistNames(lists []model.Watchlist) map[string]string {
	names := make(map[string]string, len(lists))
	for _, w := range lists {
		names[w.ID] = w.Icon + " " + w.Name
	}
	return names
}

// Markets renders rows as a markdown table.
func Markets(rows []listing.Row, opts Options) string {
	var b strings.Builder

	if len(rows) == 0 {
		b.WriteString("_No assets match._\n")
		writeUpdated(&b, opts.UpdatedAt)
		return b.String()
	}

	b.WriteString("| # | Name | Symbol | Price | 24h | 7d | Market Cap | Trend | Lists |\n")
	b.WriteString("|---:|---|---|---:|---:|---:|---:|---|---|\n")
	for _, r := range rows {
		a := r.Asset
		if r.Missing {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				Placeholder, cell(a.ID), Placeholder, "_not listed_",
				Placeholder, Placeholder, Placeholder, "", lists(r.Watchlists, opts.Names))
			continue
		}
		rank := Placeholder
		if a.MarketCapRank > 0 {
			rank = fmt.Sprint(a.MarketCapRank)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			rank,
			cell(a.Name),
			cell(strings.ToUpper(a.Symbol)),
			USD(a.CurrentPrice),
			Percent(a.PriceChangePct24h),
			Percent(a.PriceChangePct7d),
			CompactUSD(a.MarketCap),
			Sparkline(a.Sparkline7d, SparklineWidth),
			lists(r.Watchlists, opts.Names),
		)
	}
	writeUpdated(&b, opts.UpdatedAt)
	return b.String()
}

// Watchlist renders a watchlist heading followed by its rows.
func Watchlist(res listing.Result, opts Options) string {
	var b strings.Builder
	if res.Watchlist != nil {
		w := res.Watchlist
		fmt.Fprintf(&b, "## %s %s\n\n", w.Icon, w.Name)
		fmt.Fprintf(&b, "`%s` · %d assets\n\n", w.ID, len(w.Members))
		if len(w.Members) == 0 {
			b.WriteString("_This watchlist is empty._\n")
			return b.String()
		}
	}
	b.WriteString(Markets(res.Rows, opts))
	return b.String()
}

// Watchlists renders the collection as a markdown table.
func Watchlists(lists []model.Watchlist) string {
	if len(lists) == 0 {
		return "_No watchlists yet._\n"
	}

	var b strings.Builder
	b.WriteString("| Icon | Name | ID | Assets |\n")
	b.WriteString("|---|---|---|---:|\n")
	for _, w := range lists {
		fmt.Fprintf(&b, "| %s | %s | `%s` | %d |\n", cell(w.Icon), cell(w.Name), w.ID, len(w.Members))
	}
	return b.String()
}

// AssetDetail renders a single asset.
func AssetDetail(d *model.AssetDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", d.Name, strings.ToUpper(d.Symbol))

	b.WriteString("| | |\n|---|---:|\n")
	if d.MarketCapRank > 0 {
		fmt.Fprintf(&b, "| Rank | #%d |\n", d.MarketCapRank)
	}
	fmt.Fprintf(&b, "| Price | %s |\n", USD(d.CurrentPrice))
	fmt.Fprintf(&b, "| 24h | %s |\n", Percent(d.PriceChangePct24h))
	fmt.Fprintf(&b, "| 7d | %s |\n", Percent(d.PriceChangePct7d))
	fmt.Fprintf(&b, "| Market Cap | %s |\n", CompactUSD(d.MarketCap))
	fmt.Fprintf(&b, "| All-Time High | %s |\n", USD(d.ATH))
	fmt.Fprintf(&b, "| All-Time Low | %s |\n", USD(d.ATL))
	if d.GenesisDate != "" {
		fmt.Fprintf(&b, "| Genesis | %s |\n", cell(d.GenesisDate))
	}

	if d.Homepage != "" {
		fmt.Fprintf(&b, "\n<%s>\n", d.Homepage)
	}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", desc)
	}
	return b.String()
}

func lists(ids []string, names map[string]string) string {
	if len(ids) == 0 {
		return ""
	}
	labels := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := names[id]; ok {
			labels[i] = name
		} else {
			labels[i] = id
		}
	}
	return cell(strings.Join(labels, ", "))
}

func writeUpdated(b *strings.Builder, at time.Time) {
	if at.IsZero() {
		return
	}
	fmt.Fprintf(b, "\n_Updated %s_\n", at.UTC().Format(time.RFC1123))
}
