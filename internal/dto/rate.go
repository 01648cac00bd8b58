package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// RateEntryResponse is one quoted price in the base currency.
type RateEntryResponse struct {
	Currency    string          `json:"currency"`
	PriceInBase decimal.Decimal `json:"priceInBase"`
	FetchedAt   time.Time       `json:"fetchedAt"`
	Source      string          `json:"source"`
}

// RateTableResponse is the full current rate table.
type RateTableResponse struct {
	Base    string              `json:"base"`
	AsOf    time.Time           `json:"asOf"`
	Stale   bool                `json:"stale"`
	Entries []RateEntryResponse `json:"entries"`
}

// RatesSummary describes the current table: when it was last refreshed
// and how many entries each source contributed.
type RatesSummary struct {
	Base          string         `json:"base"`
	AsOf          time.Time      `json:"asOf"`
	EntryCount    int            `json:"entryCount"`
	CountBySource map[string]int `json:"countBySource"`
}

// RefreshResponse reports the outcome of a manual refresh.
type RefreshResponse struct {
	AsOf       time.Time `json:"asOf"`
	EntryCount int       `json:"entryCount"`
}

func ToRateEntryResponse(e domain.RateEntry) RateEntryResponse {
	return RateEntryResponse{
		Currency:    e.Currency,
		PriceInBase: e.PriceInBase,
		FetchedAt:   e.FetchedAt,
		Source:      string(e.Source),
	}
}

func ToRateEntryResponses(entries []domain.RateEntry) []RateEntryResponse {
	out := make([]RateEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToRateEntryResponse(e))
	}
	return out
}

// ToRateTableResponse flattens a table into a response with entries
// sorted by currency code for a stable wire order.
func ToRateTableResponse(t *domain.RateTable, stale bool) RateTableResponse {
	entries := make([]RateEntryResponse, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, ToRateEntryResponse(e))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Currency < entries[j].Currency })
	return RateTableResponse{
		Base:    t.Base,
		AsOf:    t.AsOf,
		Stale:   stale,
		Entries: entries,
	}
}
