package utils

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the standard error envelope.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

// ValidationErrorResponse writes a 400 envelope carrying per-field errors.
func ValidationErrorResponse(c *gin.Context, fields map[string]string) {
	c.JSON(400, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  fields,
	})
}
