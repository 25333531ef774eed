package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// ClientIP resolves the caller address once per request and caches it under
// "client_ip" so the rate limiter and access log agree. Forwarded values that
// do not parse as an IP are skipped.
func ClientIP(c *gin.Context) string {
	if v, ok := c.Get(clientIPKey); ok {
		if ip, ok := v.(string); ok {
			return ip
		}
	}
	ip := resolveClientIP(c)
	c.Set(clientIPKey, ip)
	return ip
}

func resolveClientIP(c *gin.Context) string {
	for _, candidate := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(candidate)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("X-Real-IP"))); ip != nil {
		return ip.String()
	}

	addr := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
