package middlewares

import (
	"fmt"
	"net/http"

	"github.com/bims-project/bims-backend/utils"
	"github.com/gin-gonic/gin"
)

// RequireRoles rejects the request with 403 unless the authenticated
// role is one of the allowed roles. Runs after AuthMiddleware, so the
// role check always precedes any body validation in the handler.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := roleInterface.(string)
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("access denied: %s only", roleLabel(allowed)))
		c.Abort()
	}
}

func roleLabel(roles []string) string {
	if len(roles) == 1 {
		return roles[0] + "s"
	}
	label := ""
	for i, r := range roles {
		if i > 0 {
			label += " or "
		}
		label += r + "s"
	}
	return label
}
