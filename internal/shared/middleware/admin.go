package middleware

import (
	"github.com/gin-gonic/gin"

	"freewriter/internal/shared/response"
)

// StaffMiddleware only lets staff accounts through. Must run after AuthMiddleware.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextKeyIsStaff) {
			response.Forbidden(c, "Access denied: staff account required")
			c.Abort()
			return
		}

		c.Next()
	}
}
