package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/services"
)

// Auth accepts either a JWT or a raw API key in the Authorization
// header. API keys carry no dots, which tells them apart from the
// three-segment JWT format. On success user_id, user_tier and api_key
// are stored on the request context.
func Auth(authService *services.AuthService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "MISSING_AUTHORIZATION", "Authorization header is required")
			return
		}

		credential, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || credential == "" {
			abortUnauthorized(c, "INVALID_AUTHORIZATION_FORMAT",
				"Authorization header must be in format 'Bearer <token>'")
			return
		}

		if !strings.Contains(credential, ".") {
			authenticateAPIKey(c, authService, logger, credential)
			return
		}

		claims, err := authService.ValidateToken(credential)
		if err != nil {
			logger.WithError(err).Warn("Rejected JWT token")
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_tier", claims.UserTier)
		c.Set("api_key", claims.APIKey)
		c.Next()
	}
}

func authenticateAPIKey(c *gin.Context, authService *services.AuthService, logger *logrus.Logger, key string) {
	tier, err := authService.ValidateAPIKey(key)
	if err != nil {
		logger.WithError(err).Warn("Rejected API key")
		abortUnauthorized(c, "INVALID_API_KEY", "Invalid API key")
		return
	}

	// API-key callers may pin their identity with X-User-ID; otherwise
	// each request gets a throwaway one.
	userID := uuid.New()
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		userID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "INVALID_USER_ID",
					"message": "Invalid user ID format",
				},
			})
			c.Abort()
			return
		}
	}

	c.Set("user_id", userID)
	c.Set("user_tier", tier)
	c.Set("api_key", key)
	c.Next()
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}
