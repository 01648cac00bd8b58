package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeDirection is the side of a trade from the user's point of view.
type TradeDirection string

const (
	Buy  TradeDirection = "BUY"
	Sell TradeDirection = "SELL"
)

// TradeReceipt is the immutable audit record of one completed trade.
// Receipts are appended to a user's history and never updated or deleted.
// ReceiptID is a ULID, so history sorts lexicographically by execution time.
type TradeReceipt struct {
	ReceiptID    string          `json:"receiptID"`
	UserID       string          `json:"userID"`
	Currency     string          `json:"currency"`
	Direction    TradeDirection  `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	RateUsed     decimal.Decimal `json:"rateUsed"`
	BaseCurrency string          `json:"baseCurrency"`
	// BaseDelta is the signed change to the base-currency balance:
	// negative for a buy (cost), positive for a sell (proceeds).
	BaseDelta  decimal.Decimal `json:"baseDelta"`
	ExecutedAt time.Time       `json:"executedAt"`
}
