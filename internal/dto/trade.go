package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// TradeRequest is the payload for a buy or sell order.
type TradeRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,currency"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// TradeReceiptResponse is the record of one completed trade.
type TradeReceiptResponse struct {
	ReceiptID    string          `json:"receiptID"`
	Currency     string          `json:"currency"`
	Direction    string          `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	RateUsed     decimal.Decimal `json:"rateUsed"`
	BaseCurrency string          `json:"baseCurrency"`
	BaseDelta    decimal.Decimal `json:"baseDelta"`
	ExecutedAt   time.Time       `json:"executedAt"`
}

func ToTradeReceiptResponse(r *domain.TradeReceipt) TradeReceiptResponse {
	return TradeReceiptResponse{
		ReceiptID:    r.ReceiptID,
		Currency:     r.Currency,
		Direction:    string(r.Direction),
		Amount:       r.Amount,
		RateUsed:     r.RateUsed,
		BaseCurrency: r.BaseCurrency,
		BaseDelta:    r.BaseDelta,
		ExecutedAt:   r.ExecutedAt,
	}
}

func ToTradeReceiptResponses(receipts []domain.TradeReceipt) []TradeReceiptResponse {
	out := make([]TradeReceiptResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, ToTradeReceiptResponse(&receipts[i]))
	}
	return out
}
