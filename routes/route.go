package route

import (
	"StockDash/config/environment"
	"StockDash/controllers"
	"StockDash/handlers"
	"StockDash/middleware"
	"StockDash/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes builds the service graph and mounts everything under /api.
func RegisterRoutes(router *gin.Engine, cfg *environment.Config, db *gorm.DB) {
	cache := services.NewCacheService()
	userService := services.NewUserService(db, services.BcryptHasher{Cost: cfg.BcryptCost})
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)
	stockService := services.NewStockService(cfg.MLServiceURL, cache, cfg.UpstreamTimeout, cfg.CacheTTLHistory, cfg.CacheTTLPrediction)

	authController := controllers.NewAuthController(userService, tokenService)
	stockController := controllers.NewStockController(stockService)

	requireAuth := middleware.AuthMiddleware(tokenService, userService)
	optionalAuth := middleware.OptionalAuthMiddleware(tokenService, userService)

	authLimiter := middleware.NewRateLimiter(cfg.RateAuthWindow, cfg.RateAuthMax)
	stockLimiter := middleware.NewRateLimiter(cfg.RateStockWindow, cfg.RateStockMax)
	generalLimiter := middleware.NewRateLimiter(cfg.RateGeneralWindow, cfg.RateGeneralMax)

	api := router.Group("/api")
	{
		handlers.RegisterAuthRoutes(api, authController, requireAuth, authLimiter, generalLimiter)
		handlers.RegisterStockRoutes(api, stockController, requireAuth, optionalAuth, stockLimiter, generalLimiter)
	}
}
