package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sacc5i/sacc5i-api/internal/dto"
	"github.com/sacc5i/sacc5i-api/internal/models"
	"github.com/sacc5i/sacc5i-api/internal/service"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
	"github.com/sacc5i/sacc5i-api/pkg/response"
)

// UsuarioHandler exposes account administration endpoints.
type UsuarioHandler struct {
	service *service.UsuarioService
}

// NewUsuarioHandler creates a new handler.
func NewUsuarioHandler(svc *service.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{service: svc}
}

// Listar godoc
// @Summary Listar cuentas de usuario
// @Tags Usuarios
// @Produce json
// @Param rol query string false "Filtrar por rol"
// @Param activo query bool false "Filtrar por estado"
// @Param q query string false "Búsqueda por nombre o usuario"
// @Success 200 {object} response.Envelope
// @Router /usuarios [get]
func (h *UsuarioHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.UsuarioFilter{
		RegionID:  c.Query("region_id"),
		Search:    c.Query("q"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if rol := c.Query("rol"); rol != "" {
		value := models.UserRole(rol)
		filter.Rol = &value
	}
	if activo := c.Query("activo"); activo != "" {
		value := activo == "true"
		filter.Activo = &value
	}

	usuarios, pagination, err := h.service.Listar(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.UsuarioItem, 0, len(usuarios))
	for i := range usuarios {
		items = append(items, dto.NewUsuarioItem(&usuarios[i]))
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Obtener godoc
// @Summary Consultar una cuenta
// @Tags Usuarios
// @Produce json
// @Param id path string true "ID de usuario"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /usuarios/{id} [get]
func (h *UsuarioHandler) Obtener(c *gin.Context) {
	usuario, err := h.service.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewUsuarioItem(usuario), nil)
}

// Crear godoc
// @Summary Crear una cuenta
// @Tags Usuarios
// @Accept json
// @Produce json
// @Param payload body dto.CrearUsuarioRequest true "Cuenta"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /usuarios [post]
func (h *UsuarioHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "datos de usuario inválidos"))
		return
	}

	usuario, err := h.service.Crear(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewUsuarioItem(usuario))
}

// Actualizar godoc
// @Summary Actualizar una cuenta
// @Tags Usuarios
// @Accept json
// @Produce json
// @Param id path string true "ID de usuario"
// @Param payload body dto.ActualizarUsuarioRequest true "Cuenta"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /usuarios/{id} [put]
func (h *UsuarioHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "datos de usuario inválidos"))
		return
	}

	usuario, err := h.service.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewUsuarioItem(usuario), nil)
}

// Desactivar godoc
// @Summary Desactivar una cuenta
// @Tags Usuarios
// @Produce json
// @Param id path string true "ID de usuario"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /usuarios/{id} [delete]
func (h *UsuarioHandler) Desactivar(c *gin.Context) {
	if err := h.service.Desactivar(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
