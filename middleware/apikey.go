package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aditwicaksono/warung-pos-api/config"
)

// APIKeyHeader is the header the bot gateway authenticates with
const APIKeyHeader = "X-API-KEY"

// RequireBotAPIKey guards the bot command endpoint. The bot gateway is
// a machine client and authenticates with a shared API key instead of
// a user token.
func RequireBotAPIKey(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" || cfg.BotAPIKey == "" ||
			subtle.ConstantTimeCompare([]byte(key), []byte(cfg.BotAPIKey)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_API_KEY",
					"message": "Could not validate credentials or invalid API key",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
