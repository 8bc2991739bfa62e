package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/service"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// ResponseCache caches successful GET responses keyed by path and query.
// Anything other than a 200 GET passes straight through.
func ResponseCache(cacheSvc *service.CacheService, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheSvc == nil || !cacheSvc.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "resp:" + c.Request.URL.RequestURI()
		var cached cachedResponse
		hit, _ := cacheSvc.Get(c.Request.Context(), key, &cached)
		if hit {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.buf.Len() > 0 {
			_ = cacheSvc.Set(c.Request.Context(), key, cachedResponse{
				Status:      http.StatusOK,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.buf.Bytes(),
			}, ttl)
		}
	}
}
