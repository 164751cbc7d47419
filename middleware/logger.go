package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one line per request with status, latency and client IP
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		icon := "➡️"
		switch {
		case status >= 500:
			icon = "❌"
		case status >= 400:
			icon = "⚠️"
		}
		log.Printf("%s %s %s %d %s ip=%s", icon, c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Microsecond), GetIPFromContext(c))
	}
}
