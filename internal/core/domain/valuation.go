package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one wallet's contribution to a portfolio valuation.
type Position struct {
	Currency    string          `json:"currency"`
	Kind        CurrencyKind    `json:"kind"`
	Balance     decimal.Decimal `json:"balance"`
	RateToBase  decimal.Decimal `json:"rateToBase"`
	ValueInBase decimal.Decimal `json:"valueInBase"`
}

// PortfolioValuation is a point-in-time view of a portfolio priced in the
// base currency. It is computed from a single rate table snapshot; AsOf is
// that table's staleness marker.
type PortfolioValuation struct {
	UserID       string          `json:"userID"`
	BaseCurrency string          `json:"baseCurrency"`
	Positions    []Position      `json:"positions"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	AsOf         time.Time       `json:"asOf"`
}
