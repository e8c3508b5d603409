package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HTTPSEnforcer redirects plain HTTP to HTTPS. Enabled through settings in
// production deployments; proxies are honored via X-Forwarded-Proto.
func HTTPSEnforcer() gin.HandlerFunc {
	return func(c *gin.Context) {
		forwarded := c.GetHeader("X-Forwarded-Proto")

		if c.Request.TLS != nil || strings.EqualFold(forwarded, "https") {
			c.Next()
			return
		}

		target := "https://" + c.Request.Host + c.Request.URL.RequestURI()
		c.Redirect(http.StatusMovedPermanently, target)
		c.Abort()
	}
}
