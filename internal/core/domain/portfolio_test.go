package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

func TestWalletCreditAndBalance(t *testing.T) {
	w := domain.Wallet{}

	assert.True(t, w.Balance("USD").IsZero())

	w.Credit("USD", decimal.NewFromInt(100))
	w.Credit("USD", decimal.RequireFromString("0.5"))
	assert.True(t, w.Balance("USD").Equal(decimal.RequireFromString("100.5")))
}

func TestWalletDebit(t *testing.T) {
	w := domain.Wallet{"USD": decimal.NewFromInt(100)}

	ok := w.Debit("USD", decimal.NewFromInt(40))
	assert.True(t, ok)
	assert.True(t, w.Balance("USD").Equal(decimal.NewFromInt(60)))

	// Exact balance is allowed.
	ok = w.Debit("USD", decimal.NewFromInt(60))
	assert.True(t, ok)
	assert.True(t, w.Balance("USD").IsZero())
}

func TestWalletDebit_InsufficientLeavesWalletUntouched(t *testing.T) {
	w := domain.Wallet{"USD": decimal.NewFromInt(50)}

	ok := w.Debit("USD", decimal.NewFromInt(51))
	assert.False(t, ok)
	assert.True(t, w.Balance("USD").Equal(decimal.NewFromInt(50)))

	ok = w.Debit("EUR", decimal.NewFromInt(1))
	assert.False(t, ok)
	assert.True(t, w.Balance("EUR").IsZero())
}

func TestWalletClone(t *testing.T) {
	w := domain.Wallet{"USD": decimal.NewFromInt(10)}
	c := w.Clone()

	c.Credit("USD", decimal.NewFromInt(5))
	assert.True(t, w.Balance("USD").Equal(decimal.NewFromInt(10)))
	assert.True(t, c.Balance("USD").Equal(decimal.NewFromInt(15)))
}
