package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// TradeSvcFacade executes buy and sell orders against a user's wallet.
// Both operations validate the amount and currency, price the trade from a
// single rate table snapshot taken at call start, mutate the two affected
// balances atomically, and append an immutable receipt. Trades for the
// same user are serialized; trades for different users run concurrently.
type TradeSvcFacade interface {
	// Buy debits the base currency by amount * rate and credits the traded currency.
	Buy(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error)

	// Sell debits the traded currency and credits the base currency with the proceeds.
	Sell(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeReceipt, error)

	// ListTrades retrieves the user's receipt history, newest first.
	ListTrades(ctx context.Context, userID string, limit int) ([]domain.TradeReceipt, error)
}
