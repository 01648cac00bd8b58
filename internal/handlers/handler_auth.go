package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/middleware"
)

func registerAuthRoutes(rg *gin.RouterGroup, userSvc portssvc.UserSvcFacade) {
	// Credential endpoints get their own tight per-IP limit.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	rg.POST("/register", middleware.RateLimit(ipLimiter), registerUser(userSvc))
	rg.POST("/login", middleware.RateLimit(ipLimiter), loginUser(userSvc))
}

func registerUser(userSvc portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())

		var req dto.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := userSvc.Register(c.Request.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrDuplicate):
				c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			case errors.Is(err, apperrors.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logger.Error("failed to register user", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
			}
			return
		}

		c.JSON(http.StatusCreated, dto.ToUserResponse(user))
	}
}

func loginUser(userSvc portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())

		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, user, err := userSvc.Login(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
				return
			}
			logger.Error("failed to log in user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
			return
		}

		c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
	}
}
