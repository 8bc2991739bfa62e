package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/service"
)

// CacheInvalidate drops cached responses matching the patterns once a
// mutation succeeds, so cached lists never serve decided or deleted rows
// for a full TTL. Failed mutations leave the cache untouched.
func CacheInvalidate(cacheSvc *service.CacheService, patterns ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if cacheSvc == nil || !cacheSvc.Enabled() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusBadRequest {
			return
		}
		for _, pattern := range patterns {
			_ = cacheSvc.Invalidate(c.Request.Context(), pattern)
		}
	}
}
