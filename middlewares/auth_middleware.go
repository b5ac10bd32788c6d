package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/controllers"
	"github.com/bookahead/backend/utils"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}
		if claims.AccountID == 0 || claims.Role == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid account in token"))
			c.Abort()
			return
		}

		c.Set(controllers.ContextAccountID, claims.AccountID)
		c.Set(controllers.ContextName, claims.Name)
		c.Set(controllers.ContextRole, claims.Role)
		c.Set(controllers.ContextToken, tokenString)
		if claims.ExpiresAt != nil {
			c.Set(controllers.ContextTokenExpiry, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}
