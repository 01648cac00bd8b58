package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/middleware"
)

func registerPortfolioRoutes(rg *gin.RouterGroup, portfolioSvc portssvc.PortfolioSvcFacade) {
	rg.GET("/portfolio", getPortfolio(portfolioSvc))
	rg.GET("/portfolio/value", getPortfolioValue(portfolioSvc))
	rg.POST("/portfolio/deposit", depositToPortfolio(portfolioSvc))
}

func getPortfolio(portfolioSvc portssvc.PortfolioReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		valuation, err := portfolioSvc.Valuate(c.Request.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
			case errors.Is(err, apperrors.ErrUnknownCurrency):
				logger.Error("portfolio valuation failed", "userID", userID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				logger.Error("failed to get portfolio", "userID", userID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get portfolio"})
			}
			return
		}

		c.JSON(http.StatusOK, dto.ToValuationResponse(valuation))
	}
}

func getPortfolioValue(portfolioSvc portssvc.PortfolioReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		valuation, err := portfolioSvc.Valuate(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
				return
			}
			logger.Error("failed to value portfolio", "userID", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to value portfolio"})
			return
		}

		c.JSON(http.StatusOK, dto.ToValueResponse(valuation))
	}
}

func depositToPortfolio(portfolioSvc portssvc.PortfolioWriterSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		var req dto.DepositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		portfolio, err := portfolioSvc.Deposit(c.Request.Context(), userID, req.CurrencyCode, req.Amount)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidAmount):
				c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
			case errors.Is(err, apperrors.ErrUnknownCurrency):
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency: " + req.CurrencyCode})
			case errors.Is(err, apperrors.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
			default:
				logger.Error("failed to deposit", "userID", userID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deposit"})
			}
			return
		}

		c.JSON(http.StatusOK, dto.ToPortfolioResponse(portfolio))
	}
}
