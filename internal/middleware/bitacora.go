package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sacc5i/sacc5i-api/internal/models"
	"github.com/sacc5i/sacc5i-api/internal/repository"
)

// Bitacora records an access-log entry after successful mutating requests.
func Bitacora(repo *repository.UsuarioRepository, accion, recurso string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		var usuarioID *string
		if value, ok := c.Get(ContextUserKey); ok {
			principal := value.(*models.Principal)
			usuarioID = &principal.UserID
		}

		detalle, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		_ = repo.CrearBitacora(c.Request.Context(), &models.Bitacora{
			UsuarioID: usuarioID,
			Accion:    accion,
			Recurso:   recurso,
			Detalle:   detalle,
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
	}
}
