package middleware

import (
	"StockDash/services"
	"StockDash/utils"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware rejects requests without a valid token belonging to an
// active user. On success it attaches userId and email to the context.
func AuthMiddleware(tokenService *services.TokenService, userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "access token required")
			c.Abort()
			return
		}

		userID, err := tokenService.Verify(token)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, services.ErrTokenExpired) {
				message = "token expired"
			}
			utils.ErrorResponse(c, http.StatusUnauthorized, message)
			c.Abort()
			return
		}

		user, err := userService.FindByID(c.Request.Context(), userID)
		if err != nil || user == nil || !user.IsActive {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token or user not found")
			c.Abort()
			return
		}

		c.Set("userId", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches identity when a valid token for an
// active user is present, and proceeds anonymously otherwise. Used by
// routes that personalize but do not require login.
func OptionalAuthMiddleware(tokenService *services.TokenService, userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		userID, err := tokenService.Verify(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := userService.FindByID(c.Request.Context(), userID)
		if err == nil && user != nil && user.IsActive {
			c.Set("userId", user.ID)
			c.Set("email", user.Email)
		}
		c.Next()
	}
}
