package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sacc5i/sacc5i-api/internal/middleware"
	"github.com/sacc5i/sacc5i-api/internal/models"
	"github.com/sacc5i/sacc5i-api/internal/repository"
	"github.com/sacc5i/sacc5i-api/internal/service"
)

// Handlers groups every HTTP handler wired by the router.
type Handlers struct {
	Auth      *AuthHandler
	Tramites  *TramiteHandler
	Catalogos *CatalogoHandler
	Usuarios  *UsuarioHandler
	Metrics   *MetricsHandler
}

// RegisterRoutes mounts the API surface under the given prefix. The bitacora
// repository records access-log entries for mutating solicitud operations.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService, bitacoraRepo *repository.UsuarioRepository, exportsEnabled bool) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.GET("/profile", middleware.JWT(authService), h.Auth.Profile)
	auth.PUT("/profile", middleware.JWT(authService), h.Auth.UpdateProfile)
	auth.POST("/change-password", middleware.JWT(authService), h.Auth.ChangePassword)

	tramites := api.Group("/tramites", middleware.JWT(authService))
	tramites.POST("/alta/nueva-solicitud",
		middleware.RequireRoles(models.RoleAnalista),
		middleware.Bitacora(bitacoraRepo, "crear", "solicitud"),
		h.Tramites.Crear)
	tramites.POST("/:id/personas",
		middleware.RequireRoles(models.RoleAnalista),
		middleware.Bitacora(bitacoraRepo, "registrar_personas", "solicitud"),
		h.Tramites.RegistrarPersonas)
	tramites.POST("/:id/validar-personal",
		middleware.RequireRoles(models.RoleAnalista, models.RoleAdmin, models.RoleSuperAdmin),
		middleware.Bitacora(bitacoraRepo, "dictamen_persona", "persona"),
		h.Tramites.ValidarPersonal)
	tramites.POST("/:id/enviar-a-c3",
		middleware.RequireRoles(models.RoleAnalista, models.RoleAdmin, models.RoleSuperAdmin),
		middleware.Bitacora(bitacoraRepo, "enviar_c3", "solicitud"),
		h.Tramites.EnviarAC3)
	tramites.POST("/:id/dictamen-c3",
		middleware.RequireRoles(models.RoleValidadorC3),
		middleware.Bitacora(bitacoraRepo, "dictamen_c3", "solicitud"),
		h.Tramites.DictamenC3)
	tramites.GET("/mis-solicitudes", h.Tramites.MisSolicitudes)
	if exportsEnabled {
		tramites.GET("/mis-solicitudes/export", h.Tramites.ExportarCSV)
	}
	tramites.GET("/pendientes-c3",
		middleware.RequireRoles(models.RoleValidadorC3, models.RoleAdmin, models.RoleSuperAdmin),
		h.Tramites.PendientesC3)
	tramites.GET("/validados-c3",
		middleware.RequireRoles(models.RoleValidadorC3, models.RoleAdmin, models.RoleSuperAdmin),
		h.Tramites.ValidadosC3)
	tramites.GET("/:id", h.Tramites.Detalle)
	if exportsEnabled {
		tramites.GET("/:id/constancia", h.Tramites.Constancia)
	}

	catalogos := api.Group("/catalogos", middleware.JWT(authService))
	catalogos.GET("/regiones", h.Catalogos.Regiones)
	catalogos.GET("/municipios", h.Catalogos.Municipios)
	catalogos.GET("/tipos-oficio", h.Catalogos.TiposOficio)
	catalogos.GET("/motivos-rechazo", h.Catalogos.MotivosRechazo)
	catalogos.GET("/estatus", h.Catalogos.Estatus)
	catalogos.GET("/puestos-propuestos", h.Catalogos.PuestosPropuestos)

	usuarios := api.Group("/usuarios", middleware.JWT(authService),
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	usuarios.GET("", h.Usuarios.Listar)
	usuarios.POST("", h.Usuarios.Crear)
	usuarios.GET("/:id", h.Usuarios.Obtener)
	usuarios.PUT("/:id", h.Usuarios.Actualizar)
	usuarios.DELETE("/:id", h.Usuarios.Desactivar)
}
