package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// Recovery logs panics and answers with a 500 envelope.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", recovered,
			"stack", string(debug.Stack()))

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			response.Error(http.StatusInternalServerError, "Internal server error occurred"))
	})
}
