package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yourusername/elevate-api/internal/service"
)

// ContextClientMeta - ключ контекста Gin с метаданными клиента
const ContextClientMeta = "clientMeta"

// ClientMeta захватывает IP, user agent и путь запроса для аудиторского следа.
// IP берётся у Gin (X-Forwarded-For с учётом trusted proxies, иначе
// RemoteAddr); если определить не удалось - константный fallback "0.0.0.0".
func ClientMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "0.0.0.0"
		}
		c.Set(ContextClientMeta, service.ClientMeta{
			IP:          ip,
			UserAgent:   c.Request.UserAgent(),
			RequestPath: c.Request.URL.Path,
		})
		c.Next()
	}
}

// GetClientMeta достаёт метаданные клиента из контекста Gin
func GetClientMeta(c *gin.Context) service.ClientMeta {
	if v, ok := c.Get(ContextClientMeta); ok {
		if meta, ok := v.(service.ClientMeta); ok {
			return meta
		}
	}
	return service.ClientMeta{IP: "0.0.0.0", RequestPath: c.Request.URL.Path}
}
