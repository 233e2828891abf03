package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Compression())
	router.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	largeBody := strings.Repeat("trail ", 300)
	router.GET("/large", func(c *gin.Context) {
		c.String(http.StatusOK, largeBody)
	})

	t.Run("small body passes through byte-exact", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/small", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("large body is gzipped", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

		gz, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		decoded, err := io.ReadAll(gz)
		require.NoError(t, err)
		assert.Equal(t, largeBody, string(decoded))
	})

	t.Run("client without gzip support gets plain body", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/large", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, largeBody, w.Body.String())
	})
}
