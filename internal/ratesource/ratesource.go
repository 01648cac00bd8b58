// Package ratesource contains the external rate provider clients. Each
// client covers one partition of the supported currency set (fiat or
// crypto) and normalizes provider responses into rate entries quoted in
// the base currency. All failures are classified as apperrors.FetchError
// so the rate cache can isolate them per source.
package ratesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET and decodes the JSON body into out, converting
// transport and status failures into classified fetch errors.
func getJSON(ctx context.Context, client *http.Client, source, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.NewFetchError(source, apperrors.FetchBadResponse, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(source, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewFetchError(source, apperrors.FetchRateLimited, fmt.Errorf("status %s", resp.Status))
	case resp.StatusCode >= 400:
		return apperrors.NewFetchError(source, apperrors.FetchBadResponse, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewFetchError(source, apperrors.FetchBadResponse, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func classifyTransportError(source string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.NewFetchError(source, apperrors.FetchTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewFetchError(source, apperrors.FetchTimeout, err)
	}
	return apperrors.NewFetchError(source, apperrors.FetchBadResponse, err)
}
