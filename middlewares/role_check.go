package middlewares

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/controllers"
	"github.com/bookahead/backend/utils"
)

// RequireRole lets the request through only for the given roles. It must
// run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(controllers.ContextRole)
		if role == "" {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if !slices.Contains(roles, role) {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", roles[0]))
			c.Abort()
			return
		}

		c.Next()
	}
}
