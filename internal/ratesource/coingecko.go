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

// CoinGeckoClient fetches crypto prices from the CoinGecko simple-price
// endpoint, which quotes directly in the base currency. No API key needed.
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a client with an explicit request timeout.
func NewCoinGeckoClient(baseURL string, timeout time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// Name identifies the provider.
func (c *CoinGeckoClient) Name() string { return string(domain.SourceCoinGecko) }

// Kind is the currency partition this source quotes.
func (c *CoinGeckoClient) Kind() domain.CurrencyKind { return domain.Crypto }

// Fetch retrieves simple prices for the requested currencies. Currencies
// missing from the response are skipped; the merge keeps their previous
// entries.
func (c *CoinGeckoClient) Fetch(ctx context.Context, currencies []domain.Currency) ([]domain.RateEntry, error) {
	ids := make([]string, 0, len(currencies))
	for _, cur := range currencies {
		if cur.CoinGeckoID != "" {
			ids = append(ids, cur.CoinGeckoID)
		}
	}
	if len(ids) == 0 {
		return nil, apperrors.NewFetchError(c.Name(), apperrors.FetchBadResponse, fmt.Errorf("no provider IDs for requested currencies"))
	}

	vs := strings.ToLower(domain.BaseCurrencyCode)
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", c.baseURL, strings.Join(ids, ","), vs)

	// Response shape: {"bitcoin": {"usd": 50000.0}, ...}
	var payload map[string]map[string]float64
	if err := getJSON(ctx, c.client, c.Name(), url, &payload); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entries := make([]domain.RateEntry, 0, len(currencies))
	for _, cur := range currencies {
		quote, ok := payload[cur.CoinGeckoID]
		if !ok {
			continue
		}
		price, ok := quote[vs]
		if !ok || price <= 0 {
			continue
		}
		entries = append(entries, domain.RateEntry{
			Currency:    cur.Code,
			PriceInBase: decimal.NewFromFloat(price),
			FetchedAt:   now,
			Source:      domain.SourceCoinGecko,
		})
	}
	if len(entries) == 0 {
		return nil, apperrors.NewFetchError(c.Name(), apperrors.FetchBadResponse, fmt.Errorf("no usable quotes in response"))
	}
	return entries, nil
}
