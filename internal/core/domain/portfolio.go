package domain

import "github.com/shopspring/decimal"

// Wallet maps currency code to balance. A currency absent from the map is
// a balance of zero. Balances never go negative: Debit refuses rather
// than overdraw.
type Wallet map[string]decimal.Decimal

// Balance returns the balance for code, zero when the wallet has no entry.
func (w Wallet) Balance(code string) decimal.Decimal {
	return w[code]
}

// Credit adds amount to the balance for code.
func (w Wallet) Credit(code string, amount decimal.Decimal) {
	w[code] = w[code].Add(amount)
}

// Debit subtracts amount from the balance for code. It returns false and
// leaves the wallet untouched when the balance does not cover amount.
func (w Wallet) Debit(code string, amount decimal.Decimal) bool {
	if w[code].LessThan(amount) {
		return false
	}
	w[code] = w[code].Sub(amount)
	return true
}

// Clone returns an independent copy of the wallet.
func (w Wallet) Clone() Wallet {
	out := make(Wallet, len(w))
	for code, bal := range w {
		out[code] = bal
	}
	return out
}

// Portfolio is one user's set of wallet balances. It is only ever mutated
// through the trade and portfolio services, which serialize access per user.
type Portfolio struct {
	UserID       string `json:"userID"`
	BaseCurrency string `json:"baseCurrency"`
	Wallet       Wallet `json:"wallet"`
	AuditFields
}
