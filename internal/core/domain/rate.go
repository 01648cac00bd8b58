package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSourceName identifies where a rate entry came from.
type RateSourceName string

const (
	SourceExchangeRateAPI RateSourceName = "exchangerate-api"
	SourceCoinGecko       RateSourceName = "coingecko"
	// SourceBase marks the pinned base-currency entry, which is never fetched.
	SourceBase RateSourceName = "base"
)

// RateEntry is one quoted price: how many units of the base currency one
// unit of Currency is worth.
type RateEntry struct {
	Currency    string          `json:"currency"`
	PriceInBase decimal.Decimal `json:"priceInBase"`
	FetchedAt   time.Time       `json:"fetchedAt"`
	Source      RateSourceName  `json:"source"`
}

// RateTable is an immutable snapshot of currency prices quoted in Base.
// Tables are never mutated in place; Merge produces the successor version.
// AsOf is the minimum FetchedAt across fetched entries, so a table is only
// as fresh as its stalest quote.
type RateTable struct {
	Base    string               `json:"base"`
	Entries map[string]RateEntry `json:"entries"`
	AsOf    time.Time            `json:"asOf"`
}

// NewBaseRateTable returns the minimal valid table: the base currency
// priced at exactly 1. Current() is served from such a table until the
// first refresh succeeds.
func NewBaseRateTable(base string, now time.Time) *RateTable {
	return &RateTable{
		Base: base,
		Entries: map[string]RateEntry{
			base: {Currency: base, PriceInBase: decimal.NewFromInt(1), FetchedAt: now, Source: SourceBase},
		},
		AsOf: now,
	}
}

// Rate returns the entry for code, if the table has one.
func (t *RateTable) Rate(code string) (RateEntry, bool) {
	e, ok := t.Entries[code]
	return e, ok
}

// Merge returns a new table with entries overlaid on t. Entries for
// currencies not in the overlay are carried over untouched, which is how
// a refresh with a failed source keeps serving the failed source's last
// known rates. Entries with a non-positive price are discarded.
func (t *RateTable) Merge(entries []RateEntry) *RateTable {
	next := &RateTable{
		Base:    t.Base,
		Entries: make(map[string]RateEntry, len(t.Entries)+len(entries)),
	}
	for code, e := range t.Entries {
		next.Entries[code] = e
	}
	for _, e := range entries {
		if e.Currency == t.Base || !e.PriceInBase.IsPositive() {
			continue
		}
		next.Entries[e.Currency] = e
	}
	next.AsOf = next.minFetchedAt()
	return next
}

// minFetchedAt computes the conservative staleness marker: the oldest
// FetchedAt among fetched entries. The pinned base entry is excluded,
// otherwise every table would be forever as old as process start.
func (t *RateTable) minFetchedAt() time.Time {
	var min time.Time
	for _, e := range t.Entries {
		if e.Source == SourceBase {
			continue
		}
		if min.IsZero() || e.FetchedAt.Before(min) {
			min = e.FetchedAt
		}
	}
	if min.IsZero() {
		min = t.Entries[t.Base].FetchedAt
	}
	return min
}
