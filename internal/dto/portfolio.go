package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	"github.com/valutatrade/valutatrade_hub/internal/utils"
)

// DepositRequest is the payload for topping up one wallet.
type DepositRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,currency"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// WalletResponse is one wallet balance.
type WalletResponse struct {
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// PortfolioResponse is a user's raw wallet balances.
type PortfolioResponse struct {
	UserID       string           `json:"userID"`
	BaseCurrency string           `json:"baseCurrency"`
	Wallets      []WalletResponse `json:"wallets"`
}

// PositionResponse is one wallet priced in the base currency.
type PositionResponse struct {
	Currency     string          `json:"currency"`
	Kind         string          `json:"kind"`
	Balance      decimal.Decimal `json:"balance"`
	RateToBase   decimal.Decimal `json:"rateToBase"`
	ValueInBase  decimal.Decimal `json:"valueInBase"`
	ValueDisplay string          `json:"valueDisplay"`
}

// ValuationResponse is the full portfolio valuation.
type ValuationResponse struct {
	UserID       string             `json:"userID"`
	BaseCurrency string             `json:"baseCurrency"`
	Positions    []PositionResponse `json:"positions"`
	TotalValue   decimal.Decimal    `json:"totalValue"`
	TotalDisplay string             `json:"totalDisplay"`
	AsOf         time.Time          `json:"asOf"`
}

// ValueResponse is the single-number portfolio value.
type ValueResponse struct {
	BaseCurrency string          `json:"baseCurrency"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	TotalDisplay string          `json:"totalDisplay"`
	AsOf         time.Time       `json:"asOf"`
}

// ToPortfolioResponse flattens a portfolio's wallets sorted by currency code.
func ToPortfolioResponse(p *domain.Portfolio) PortfolioResponse {
	wallets := make([]WalletResponse, 0, len(p.Wallet))
	for code, balance := range p.Wallet {
		wallets = append(wallets, WalletResponse{Currency: code, Balance: balance})
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].Currency < wallets[j].Currency })
	return PortfolioResponse{
		UserID:       p.UserID,
		BaseCurrency: p.BaseCurrency,
		Wallets:      wallets,
	}
}

func ToValuationResponse(v *domain.PortfolioValuation) ValuationResponse {
	positions := make([]PositionResponse, 0, len(v.Positions))
	for _, pos := range v.Positions {
		positions = append(positions, PositionResponse{
			Currency:     pos.Currency,
			Kind:         string(pos.Kind),
			Balance:      pos.Balance,
			RateToBase:   pos.RateToBase,
			ValueInBase:  pos.ValueInBase,
			ValueDisplay: utils.DisplayAmount(pos.ValueInBase, v.BaseCurrency),
		})
	}
	return ValuationResponse{
		UserID:       v.UserID,
		BaseCurrency: v.BaseCurrency,
		Positions:    positions,
		TotalValue:   v.TotalValue,
		TotalDisplay: utils.DisplayAmount(v.TotalValue, v.BaseCurrency),
		AsOf:         v.AsOf,
	}
}

func ToValueResponse(v *domain.PortfolioValuation) ValueResponse {
	return ValueResponse{
		BaseCurrency: v.BaseCurrency,
		TotalValue:   v.TotalValue,
		TotalDisplay: utils.DisplayAmount(v.TotalValue, v.BaseCurrency),
		AsOf:         v.AsOf,
	}
}
