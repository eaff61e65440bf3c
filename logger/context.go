package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextKey is the gin context key under which the request-scoped
// logger is stored by the request ID middleware.
const ContextKey = "logger"

// FromContext returns the request-scoped logger stored in the gin
// context, falling back to the global logger when none is set.
func FromContext(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(ContextKey); exists {
		if log, ok := l.(*zap.Logger); ok {
			return log
		}
	}
	return GetLogger()
}
