package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORS adds permissive cross-origin headers. Preflight requests continue down the
// chain so route handlers decide their own OPTIONS response.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		c.Next()
	}
}
