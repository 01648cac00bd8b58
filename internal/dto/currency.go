package dto

import "github.com/valutatrade/valutatrade_hub/internal/core/domain"

// CurrencyResponse describes one supported currency.
type CurrencyResponse struct {
	CurrencyCode   string  `json:"currencyCode"`
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	Precision      int     `json:"precision"`
	IssuingCountry string  `json:"issuingCountry,omitempty"`
	Algorithm      string  `json:"algorithm,omitempty"`
	MarketCap      float64 `json:"marketCap,omitempty"`
}

func ToCurrencyResponse(c domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:   c.Code,
		Name:           c.Name,
		Kind:           string(c.Kind),
		Precision:      c.Precision,
		IssuingCountry: c.IssuingCountry,
		Algorithm:      c.Algorithm,
		MarketCap:      c.MarketCap,
	}
}

func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	out := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, ToCurrencyResponse(c))
	}
	return out
}
