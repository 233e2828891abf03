package middleware

import (
	"compress/gzip"
	"strings"

	"github.com/gin-gonic/gin"
)

// compressionThreshold is the smallest body, in bytes, worth gzipping.
const compressionThreshold = 1024

var uncompressibleTypes = []string{
	"image/",
	"video/",
	"audio/",
	"application/zip",
	"application/gzip",
	"application/x-gzip",
}

// Compression gzips response bodies for clients that accept it. Bodies
// below the threshold and already-compressed media pass through
// untouched. The gzip stream is only opened on the first write large
// enough to compress, so a plain small body never gains trailing gzip
// framing.
func Compression() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}
		if isUncompressible(c.GetHeader("Content-Type")) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		gw := &gzipResponseWriter{ResponseWriter: c.Writer}
		c.Writer = gw

		c.Next()

		gw.close()
	}
}

func isUncompressible(contentType string) bool {
	for _, t := range uncompressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// gzipResponseWriter picks plain or gzip output on the first write and
// sticks with it for the rest of the response.
type gzipResponseWriter struct {
	gin.ResponseWriter
	gz      *gzip.Writer
	decided bool
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.decided {
		w.decided = true
		if len(data) >= compressionThreshold {
			w.Header().Set("Content-Encoding", "gzip")
			w.gz = gzip.NewWriter(w.ResponseWriter)
		}
	}
	if w.gz != nil {
		return w.gz.Write(data)
	}
	return w.ResponseWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipResponseWriter) close() {
	if w.gz != nil {
		w.gz.Close()
	}
}
