package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/middleware"
	"github.com/valutatrade/valutatrade_hub/pkg/config"
)

// Services bundles the service facades the HTTP surface depends on.
type Services struct {
	User      portssvc.UserSvcFacade
	RateCache portssvc.RateCacheSvcFacade
	Portfolio portssvc.PortfolioSvcFacade
	Trade     portssvc.TradeSvcFacade
}

// RegisterHandlers wires every route group onto the engine. Auth routes
// are public; everything under /api/v1 requires a valid JWT. The manual
// rate refresh endpoint carries its own tighter rate limit so a client
// cannot hammer the external providers.
func RegisterHandlers(r *gin.Engine, cfg *config.Config, svcs Services, refreshLimiter *limiter.Limiter) {
	registerCurrencyValidation()

	registerAuthRoutes(r.Group("/auth"), svcs.User)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerCurrencyRoutes(v1)
	registerRateRoutes(v1, svcs.RateCache, cfg, refreshLimiter)
	registerPortfolioRoutes(v1, svcs.Portfolio)
	registerTradeRoutes(v1, svcs.Trade)
}
