package middleware

import (
	"backoffice/internal/obs"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency labelled by route template, so
// ids in paths do not explode label cardinality.
func Metrics(m *obs.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.RequestStarted()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		done(c.Request.Method, path, c.Writer.Status())
	}
}
