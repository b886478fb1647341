package middleware

import (
	"github.com/gin-gonic/gin"

	"freewriter/internal/shared/utils"
)

const ContextKeyClientIP = "client_ip"

// ClientIPMiddleware resolves the caller's IP once per request; the access log reads it back.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}
