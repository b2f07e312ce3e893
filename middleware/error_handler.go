package middleware

import (
	"StockDash/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware renders any error pushed onto the context into
// the standard envelope. Unknown error types become a plain 500 so no
// internal detail leaks.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if customErr, ok := err.(*utils.CustomError); ok {
			utils.ErrorResponse(c, customErr.StatusCode, customErr.Message)
			return
		}

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
