package handlers

import (
	"StockDash/controllers"
	"StockDash/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes wires the /auth routes. Register and login sit in
// the strict auth rate class; the identity-bound routes share the
// general class.
func RegisterAuthRoutes(router *gin.RouterGroup, authController *controllers.AuthController, requireAuth gin.HandlerFunc, authLimiter, generalLimiter *middleware.RateLimiter) {

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authLimiter.Handler(), authController.RegisterUser)
		authGroup.POST("/login", authLimiter.Handler(), authController.LoginUser)

		authGroup.GET("/profile", generalLimiter.Handler(), requireAuth, authController.GetProfile)
		authGroup.PUT("/profile", generalLimiter.Handler(), requireAuth, authController.UpdateProfile)
		authGroup.POST("/favorites", generalLimiter.Handler(), requireAuth, authController.AddFavorite)
		authGroup.DELETE("/favorites/:ticker", generalLimiter.Handler(), requireAuth, authController.RemoveFavorite)
	}
}
