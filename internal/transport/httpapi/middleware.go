package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	usersports "github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
	apierrors "github.com/itay19101973/E-commerce-system/internal/shared/errors"
)

const callerIDKey = "caller_id"

// RequireAuth verifies the bearer access token and injects the caller's
// user id into the request context.
func RequireAuth(users usersports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		callerID, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("invalid or expired token"))
			c.Abort()
			return
		}
		c.Set(callerIDKey, callerID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

// callerID reads the authenticated user id set by RequireAuth.
func callerID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(callerIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}
