package middlewares

import (
	"github.com/bims-project/bims-backend/utils"
	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware authenticates a websocket upgrade request.
// Browsers cannot set an Authorization header on a ws dial, so the
// token travels as a query parameter instead.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
