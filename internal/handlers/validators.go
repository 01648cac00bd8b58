package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// registerCurrencyValidation teaches the binding layer the "currency" tag:
// the field must be a code from the supported currency set. Requests with
// unknown codes are rejected at bind time, before any service runs.
func registerCurrencyValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			_, known := domain.LookupCurrency(fl.Field().String())
			return known
		})
	}
}
