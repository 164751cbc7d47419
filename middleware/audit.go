package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// proxy headers checked in order before falling back to RemoteAddr
var ipHeaders = []string{"X-Real-Ip", "CF-Connecting-IP", "X-Forwarded"}

// ClientIP resolves the caller's address once per request so services can record it in the audit trail
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, resolveClientIP(c))
		c.Next()
	}
}

func resolveClientIP(c *gin.Context) string {
	// X-Forwarded-For may hold a chain; the first hop is the client
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	for _, h := range ipHeaders {
		if v := strings.TrimSpace(c.GetHeader(h)); v != "" && net.ParseIP(v) != nil {
			return v
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

// GetIPFromContext returns the address stored by ClientIP, resolving it directly when the middleware did not run
func GetIPFromContext(c *gin.Context) string {
	if ip, ok := c.Get(clientIPKey); ok {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return resolveClientIP(c)
}
