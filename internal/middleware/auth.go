package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskflow-api/internal/constants"
	apierrors "github.com/yukikurage/taskflow-api/internal/errors"
	"github.com/yukikurage/taskflow-api/internal/logger"
	"github.com/yukikurage/taskflow-api/internal/services"
)

// RequireAuth verifies the bearer token and stores the caller in the context.
//
// With reverify unset the token claims are trusted until the token expires,
// so a demoted admin keeps admin rights for the rest of the token lifetime.
// With reverify set the user is loaded on every request: deleted users are
// rejected and the admin flag comes from the store.
func RequireAuth(tokens *services.TokenService, auth *services.AuthService, reverify bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			apierrors.Unauthorized(c, "No token")
			return
		}

		caller, err := tokens.Parse(token)
		if err != nil {
			apierrors.Unauthorized(c, "Token invalid")
			return
		}

		if reverify {
			user, err := auth.GetUser(c.Request.Context(), caller.ID)
			if err != nil {
				if errors.Is(err, services.ErrUserNotFound) {
					apierrors.Unauthorized(c, "Token invalid")
					return
				}
				logger.Error("failed to reverify token user", "user_id", caller.ID, "error", err)
				apierrors.InternalError(c, "")
				return
			}
			caller.Email = user.Email
			caller.IsAdmin = user.IsAdmin
		}

		c.Set(constants.ContextKeyCaller, caller)
		c.Next()
	}
}

// GetCaller retrieves the authenticated caller from context
func GetCaller(c *gin.Context) (services.Caller, bool) {
	value, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return services.Caller{}, false
	}
	caller, ok := value.(services.Caller)
	return caller, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len(constants.BearerPrefix) ||
		!strings.EqualFold(header[:len(constants.BearerPrefix)], constants.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(constants.BearerPrefix):])
}
