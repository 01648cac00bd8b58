package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/middleware"
	"github.com/valutatrade/valutatrade_hub/pkg/config"
)

func registerRateRoutes(rg *gin.RouterGroup, rateCache portssvc.RateCacheSvcFacade, cfg *config.Config, refreshLimiter *limiter.Limiter) {
	rg.GET("/rates", getRates(rateCache, cfg))
	rg.GET("/rates/summary", getRatesSummary(rateCache))
	rg.GET("/rates/history", getRateHistory(rateCache, cfg))
	rg.POST("/rates/refresh", middleware.RateLimit(refreshLimiter), refreshRates(rateCache))
}

func getRates(rateCache portssvc.RateCacheReaderSvc, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := rateCache.Current()
		stale := rateCache.IsStale(cfg.RatesMaxAge)
		c.JSON(http.StatusOK, dto.ToRateTableResponse(table, stale))
	}
}

func getRatesSummary(rateCache portssvc.RateCacheReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, rateCache.Summary())
	}
}

func getRateHistory(rateCache portssvc.RateCacheReaderSvc, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())

		code := c.Query("currency")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "currency query parameter is required"})
			return
		}

		limit := cfg.RatesHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			if parsed < limit {
				limit = parsed
			}
		}

		entries, err := rateCache.ListRateHistory(c.Request.Context(), code, limit)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnknownCurrency) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency: " + code})
				return
			}
			logger.Error("failed to list rate history", "currency", code, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rate history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"currency": code,
			"points":   dto.ToRateEntryResponses(entries),
		})
	}
}

func refreshRates(rateCache portssvc.RateCacheSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())

		table, err := rateCache.Refresh(c.Request.Context())
		if err != nil {
			if errors.Is(err, apperrors.ErrAllSourcesFailed) {
				// The previous table stays in place; tell the client the
				// refresh changed nothing.
				c.JSON(http.StatusBadGateway, gin.H{"error": "all rate sources failed, previous rates retained"})
				return
			}
			logger.Error("failed to refresh rates", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh rates"})
			return
		}

		c.JSON(http.StatusOK, dto.RefreshResponse{AsOf: table.AsOf, EntryCount: len(table.Entries)})
	}
}
