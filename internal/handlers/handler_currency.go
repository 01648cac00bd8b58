package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
)

func registerCurrencyRoutes(rg *gin.RouterGroup) {
	rg.GET("/currencies", listCurrencies())
}

// listCurrencies returns the closed set of supported currencies with their
// metadata. The set is compiled in, so there is nothing that can fail here.
func listCurrencies() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"base":       domain.BaseCurrencyCode,
			"currencies": dto.ToListCurrencyResponse(domain.Currencies()),
		})
	}
}
