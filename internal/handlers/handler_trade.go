package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/middleware"
)

const defaultTradeListLimit = 50

func registerTradeRoutes(rg *gin.RouterGroup, tradeSvc portssvc.TradeSvcFacade) {
	rg.POST("/trades/buy", executeTrade(tradeSvc, domain.Buy))
	rg.POST("/trades/sell", executeTrade(tradeSvc, domain.Sell))
	rg.GET("/trades", listTrades(tradeSvc))
}

// executeTrade handles both directions; the two endpoints differ only in
// which service method runs.
func executeTrade(tradeSvc portssvc.TradeSvcFacade, direction domain.TradeDirection) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		var req dto.TradeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var (
			receipt *domain.TradeReceipt
			err     error
		)
		switch direction {
		case domain.Buy:
			receipt, err = tradeSvc.Buy(c.Request.Context(), userID, req.CurrencyCode, req.Amount)
		case domain.Sell:
			receipt, err = tradeSvc.Sell(c.Request.Context(), userID, req.CurrencyCode, req.Amount)
		}
		if err != nil {
			writeTradeError(c, logger.Error, req.CurrencyCode, req.Amount, err)
			return
		}

		c.JSON(http.StatusCreated, dto.ToTradeReceiptResponse(receipt))
	}
}

func writeTradeError(c *gin.Context, logError func(string, ...any), code string, amount decimal.Decimal, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
	case errors.Is(err, apperrors.ErrUnknownCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency: " + code})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStaleRates):
		c.JSON(http.StatusConflict, gin.H{"error": "rates are stale, refresh before trading"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
	default:
		logError("failed to execute trade", "currency", code, "amount", amount, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute trade"})
	}
}

func listTrades(tradeSvc portssvc.TradeSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		limit := defaultTradeListLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}

		receipts, err := tradeSvc.ListTrades(c.Request.Context(), userID, limit)
		if err != nil {
			logger.Error("failed to list trades", "userID", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list trades"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"trades": dto.ToTradeReceiptResponses(receipts)})
	}
}
