package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/controllers"
	"github.com/bookahead/backend/utils"
)

// AuditLogger records destructive requests and their outcome. param names
// the route parameter identifying the deleted entity; when empty the
// caller itself is the target.
func AuditLogger(entity, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetString(controllers.ContextName)
		target := caller
		if param != "" {
			target = c.Param(param)
		}
		utils.InfoLogger.Printf("Deleting %s %q requested by %q", entity, target, caller)

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			utils.InfoLogger.Printf("Deleted %s %q", entity, target)
		} else {
			utils.ErrorLogger.Printf("Failed to delete %s %q: status %d", entity, target, c.Writer.Status())
		}
	}
}
