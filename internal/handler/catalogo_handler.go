package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sacc5i/sacc5i-api/internal/service"
	"github.com/sacc5i/sacc5i-api/pkg/response"
)

// CatalogoHandler serves the read-only reference catalogs.
type CatalogoHandler struct {
	service *service.CatalogoService
}

// NewCatalogoHandler creates a new handler.
func NewCatalogoHandler(svc *service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{service: svc}
}

// Regiones godoc
// @Summary Catálogo de regiones
// @Tags Catálogos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogos/regiones [get]
func (h *CatalogoHandler) Regiones(c *gin.Context) {
	items, err := h.service.Regiones(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Municipios godoc
// @Summary Catálogo de municipios
// @Tags Catálogos
// @Produce json
// @Param region_id query string false "Filtrar por región"
// @Success 200 {object} response.Envelope
// @Router /catalogos/municipios [get]
func (h *CatalogoHandler) Municipios(c *gin.Context) {
	items, err := h.service.Municipios(c.Request.Context(), c.Query("region_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// TiposOficio godoc
// @Summary Catálogo de tipos de oficio
// @Tags Catálogos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogos/tipos-oficio [get]
func (h *CatalogoHandler) TiposOficio(c *gin.Context) {
	items, err := h.service.TiposOficio(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// MotivosRechazo godoc
// @Summary Catálogo de motivos de rechazo
// @Tags Catálogos
// @Produce json
// @Param categoria query string false "Filtrar por categoría"
// @Success 200 {object} response.Envelope
// @Router /catalogos/motivos-rechazo [get]
func (h *CatalogoHandler) MotivosRechazo(c *gin.Context) {
	items, err := h.service.MotivosRechazo(c.Request.Context(), c.Query("categoria"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Estatus godoc
// @Summary Catálogo de estatus
// @Tags Catálogos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogos/estatus [get]
func (h *CatalogoHandler) Estatus(c *gin.Context) {
	items, err := h.service.Estatus(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// PuestosPropuestos godoc
// @Summary Catálogo de puestos propuestos
// @Tags Catálogos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogos/puestos-propuestos [get]
func (h *CatalogoHandler) PuestosPropuestos(c *gin.Context) {
	items, err := h.service.PuestosPropuestos(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
