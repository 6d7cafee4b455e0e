package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/pkg/util"
)

// AuthRequired validates the bearer token issued by the auth provider.
// An empty secret disables the check for local development.
func AuthRequired(secret string, logger *zap.Logger) gin.HandlerFunc {
	if secret == "" {
		logger.Warn("JWT secret not configured, API authentication is disabled")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		userID, err := util.ParseJWT(strings.TrimPrefix(auth, "Bearer "), secret)
		if err != nil {
			logger.Warn("Rejected request with invalid token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
