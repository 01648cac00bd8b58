package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

func init() {
	// go-money ships the ISO fiat set; the crypto currencies need registering.
	money.AddCurrency("BTC", "₿", "$1", ".", ",", 8)
	money.AddCurrency("ETH", "Ξ", "$1", ".", ",", 8)
	money.AddCurrency("SOL", "SOL ", "$1", ".", ",", 4)
}

// FormatWithCurrencyPrecision formats an amount with the correct precision
// for a given currency.
// Example: amount 12.3456 with USD (precision 2) returns "12.35"
// Example: amount 12.3456 with JPY (precision 0) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.Round(int32(currency.Precision)).String()
}

// DisplayAmount renders an amount with its currency symbol for UI output,
// e.g. "$945" or "₿0.5". Unknown codes fall back to "amount CODE".
func DisplayAmount(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.String() + " " + code
	}
	display := amount.String()
	if dc, ok := domain.LookupCurrency(code); ok {
		display = FormatWithCurrencyPrecision(amount, dc)
	}
	return cur.Grapheme + display
}
