package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnknownCurrency indicates a currency code outside the supported set,
// or a conversion against a rate table that has no entry for the code.
var ErrUnknownCurrency = errors.New("unknown currency")

// ErrInvalidAmount indicates a trade or deposit amount that is not strictly positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInsufficientFunds indicates a wallet balance too small to cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrStaleRates indicates the cached rate table is older than the
// configured maximum age and stale-trade rejection is enabled.
var ErrStaleRates = errors.New("exchange rates are stale")

// ErrAllSourcesFailed indicates a rate refresh in which no source
// returned a single usable quote; the previous table is retained.
var ErrAllSourcesFailed = errors.New("all rate sources failed")

// FetchErrorKind classifies a single rate source failure.
type FetchErrorKind string

const (
	FetchTimeout     FetchErrorKind = "timeout"
	FetchBadResponse FetchErrorKind = "bad_response"
	FetchRateLimited FetchErrorKind = "rate_limited"
)

// FetchError is the failure of one external rate source. It never
// propagates past the rate cache's refresh: the cache logs it and merges
// whatever the remaining sources returned.
type FetchError struct {
	Source string
	Kind   FetchErrorKind
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch from %s failed (%s): %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch from %s failed (%s)", e.Source, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError builds a FetchError wrapping err.
func NewFetchError(source string, kind FetchErrorKind, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}
