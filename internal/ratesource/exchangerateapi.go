package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// ExchangeRateAPIClient fetches fiat rates from ExchangeRate-API
// (https://www.exchangerate-api.com). The provider quotes how many units
// of each currency one unit of the base buys, so the price in base is the
// reciprocal of the quoted rate.
type ExchangeRateAPIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewExchangeRateAPIClient creates a client with an explicit request timeout.
func NewExchangeRateAPIClient(baseURL, apiKey string, timeout time.Duration) *ExchangeRateAPIClient {
	return &ExchangeRateAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  newHTTPClient(timeout),
	}
}

// Name identifies the provider.
func (c *ExchangeRateAPIClient) Name() string { return string(domain.SourceExchangeRateAPI) }

// Kind is the currency partition this source quotes.
func (c *ExchangeRateAPIClient) Kind() domain.CurrencyKind { return domain.Fiat }

type exchangeRateAPIResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Fetch retrieves the latest quotes against the base currency and returns
// entries for the requested currencies. Currencies missing from the
// response are skipped; the merge keeps their previous entries.
func (c *ExchangeRateAPIClient) Fetch(ctx context.Context, currencies []domain.Currency) ([]domain.RateEntry, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, domain.BaseCurrencyCode)

	var payload exchangeRateAPIResponse
	if err := getJSON(ctx, c.client, c.Name(), url, &payload); err != nil {
		return nil, err
	}

	if payload.Result != "success" {
		reason := payload.ErrorType
		if reason == "" {
			reason = "unknown error"
		}
		return nil, apperrors.NewFetchError(c.Name(), apperrors.FetchBadResponse, fmt.Errorf("provider reported %q", reason))
	}
	if len(payload.ConversionRates) == 0 {
		return nil, apperrors.NewFetchError(c.Name(), apperrors.FetchBadResponse, fmt.Errorf("missing 'conversion_rates' field"))
	}

	now := time.Now().UTC()
	one := decimal.NewFromInt(1)
	entries := make([]domain.RateEntry, 0, len(currencies))
	for _, cur := range currencies {
		quoted, ok := payload.ConversionRates[cur.Code]
		if !ok || quoted <= 0 {
			continue
		}
		entries = append(entries, domain.RateEntry{
			Currency:    cur.Code,
			PriceInBase: one.Div(decimal.NewFromFloat(quoted)),
			FetchedAt:   now,
			Source:      domain.SourceExchangeRateAPI,
		})
	}
	if len(entries) == 0 {
		return nil, apperrors.NewFetchError(c.Name(), apperrors.FetchBadResponse, fmt.Errorf("no usable quotes in response"))
	}
	return entries, nil
}
