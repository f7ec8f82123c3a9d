package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sacc5i/sacc5i-api/internal/service"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
	"github.com/sacc5i/sacc5i-api/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved principal.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token. The token carries
// only the user id; role and region are resolved from storage on every
// request so revocations and role changes apply immediately.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "encabezado de autorización inválido"))
			c.Abort()
			return
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		principal, err := authService.ResolvePrincipal(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, principal)
		c.Next()
	}
}
