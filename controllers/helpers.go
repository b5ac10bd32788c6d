package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

// Context keys written by the auth middleware.
const (
	ContextAccountID   = "account_id"
	ContextName        = "name"
	ContextRole        = "role"
	ContextToken       = "token"
	ContextTokenExpiry = "token_expiry"
)

var errUnauthenticated = errors.New("Authentication required")

// CurrentIdentity returns the caller set by the auth middleware.
func CurrentIdentity(c *gin.Context) (services.Identity, bool) {
	role := c.GetString(ContextRole)
	if role == "" {
		return services.Identity{}, false
	}
	return services.Identity{
		AccountID: c.GetUint(ContextAccountID),
		Name:      c.GetString(ContextName),
		Role:      role,
	}, true
}

// requireIdentity writes a 401 when the request carries no identity.
func requireIdentity(c *gin.Context) (services.Identity, bool) {
	id, ok := CurrentIdentity(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errUnauthenticated)
		return services.Identity{}, false
	}
	return id, true
}

// revokeCurrentToken blacklists the request's bearer token until it
// expires. It reports false when the request carries no token.
func revokeCurrentToken(c *gin.Context) bool {
	token := c.GetString(ContextToken)
	if token == "" {
		return false
	}
	value, _ := c.Get(ContextTokenExpiry)
	exp, ok := value.(time.Time)
	if !ok {
		exp = time.Now().Add(24 * time.Hour)
	}
	utils.BlacklistToken(token, exp)
	return true
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindMissingParameter, services.KindInvalidInput,
		services.KindInvalidDate, services.KindInvalidTime, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError translates a service failure into the response envelope.
// Internal errors are logged and never leak their cause.
func respondServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondMessage(c, http.StatusInternalServerError, services.MsgInternal)
		return
	}
	utils.RespondError(c, statusFor(kind), err)
}

func parseTableNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("tableNumber"))
	if err != nil || n <= 0 {
		utils.RespondMessage(c, http.StatusBadRequest, "Invalid table number")
		return 0, false
	}
	return n, true
}

// userNameParam resolves the userName query parameter, defaulting to the
// caller's own name. Diners may only look up themselves.
func userNameParam(c *gin.Context, id services.Identity) (string, bool) {
	name := c.Query("userName")
	if name == "" {
		name = id.Name
	}
	if id.IsUser() && name != id.Name {
		utils.RespondMessage(c, http.StatusForbidden, services.MsgForbidden)
		return "", false
	}
	return name, true
}
