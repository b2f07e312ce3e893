package handlers

import (
	"StockDash/controllers"
	"StockDash/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterStockRoutes wires the /stocks routes. Data routes require
// auth and sit in the stock-data rate class; health is open and only
// generally limited.
func RegisterStockRoutes(router *gin.RouterGroup, stockController *controllers.StockController, requireAuth, optionalAuth gin.HandlerFunc, stockLimiter, generalLimiter *middleware.RateLimiter) {

	stockGroup := router.Group("/stocks")
	{
		stockGroup.GET("/history", stockLimiter.Handler(), requireAuth, stockController.GetHistory)
		stockGroup.GET("/predict", stockLimiter.Handler(), requireAuth, stockController.GetPrediction)
		stockGroup.POST("/batch-history", stockLimiter.Handler(), requireAuth, stockController.BatchHistory)

		stockGroup.GET("/health", generalLimiter.Handler(), optionalAuth, stockController.Health)
	}
}
