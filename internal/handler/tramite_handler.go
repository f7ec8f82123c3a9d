package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sacc5i/sacc5i-api/internal/dto"
	"github.com/sacc5i/sacc5i-api/internal/service"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
	"github.com/sacc5i/sacc5i-api/pkg/response"
)

// TramiteHandler exposes the solicitud lifecycle over HTTP.
type TramiteHandler struct {
	service *service.TramiteService
}

// NewTramiteHandler creates a new handler.
func NewTramiteHandler(svc *service.TramiteService) *TramiteHandler {
	return &TramiteHandler{service: svc}
}

func tramiteFilterFromQuery(c *gin.Context) dto.TramiteFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return dto.TramiteFilter{
		Fase:      c.Query("fase"),
		EstatusID: c.Query("estatus_id"),
		Search:    c.Query("q"),
		Page:      page,
		PageSize:  size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
}

// Crear godoc
// @Summary Registrar nueva solicitud
// @Tags Trámites
// @Accept json
// @Produce json
// @Param payload body dto.CrearSolicitudRequest true "Solicitud"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tramites/alta/nueva-solicitud [post]
func (h *TramiteHandler) Crear(c *gin.Context) {
	var req dto.CrearSolicitudRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "solicitud inválida"))
		return
	}

	solicitud, err := h.service.Crear(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, solicitud)
}

// RegistrarPersonas godoc
// @Summary Registrar el personal de una solicitud
// @Tags Trámites
// @Accept json
// @Produce json
// @Param id path string true "ID de solicitud"
// @Param payload body dto.RegistrarPersonasRequest true "Lote de personas"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tramites/{id}/personas [post]
func (h *TramiteHandler) RegistrarPersonas(c *gin.Context) {
	var req dto.RegistrarPersonasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "lote de personas inválido"))
		return
	}

	if err := h.service.RegistrarPersonas(c.Request.Context(), principalFromContext(c), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Mensaje(c, http.StatusOK, "personal registrado", nil)
}

// ValidarPersonal godoc
// @Summary Dictaminar una persona (validación C5)
// @Tags Trámites
// @Accept json
// @Produce json
// @Param id path string true "ID de solicitud"
// @Param payload body dto.DictamenPersonaRequest true "Dictamen"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tramites/{id}/validar-personal [post]
func (h *TramiteHandler) ValidarPersonal(c *gin.Context) {
	var req dto.DictamenPersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "dictamen inválido"))
		return
	}

	if err := h.service.DictaminarPersona(c.Request.Context(), principalFromContext(c), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Mensaje(c, http.StatusOK, "dictamen registrado", nil)
}

// EnviarAC3 godoc
// @Summary Enviar la solicitud a C3
// @Tags Trámites
// @Produce json
// @Param id path string true "ID de solicitud"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tramites/{id}/enviar-a-c3 [post]
func (h *TramiteHandler) EnviarAC3(c *gin.Context) {
	conteo, err := h.service.EnviarAC3(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Mensaje(c, http.StatusOK, "solicitud enviada a C3", conteo)
}

// DictamenC3 godoc
// @Summary Registrar el dictamen de C3
// @Tags Trámites
// @Accept json
// @Produce json
// @Param id path string true "ID de solicitud"
// @Param payload body dto.DictamenC3Request true "Dictamen C3"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tramites/{id}/dictamen-c3 [post]
func (h *TramiteHandler) DictamenC3(c *gin.Context) {
	var req dto.DictamenC3Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "dictamen inválido"))
		return
	}

	if err := h.service.DictaminarC3(c.Request.Context(), principalFromContext(c), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Mensaje(c, http.StatusOK, "dictamen de C3 registrado", nil)
}

// MisSolicitudes godoc
// @Summary Listar solicitudes visibles para el usuario
// @Tags Trámites
// @Produce json
// @Param fase query string false "Filtrar por fase"
// @Param estatus_id query string false "Filtrar por estatus"
// @Param q query string false "Búsqueda por folio u oficio"
// @Param page query int false "Página"
// @Param page_size query int false "Tamaño de página"
// @Success 200 {object} response.Envelope
// @Router /tramites/mis-solicitudes [get]
func (h *TramiteHandler) MisSolicitudes(c *gin.Context) {
	items, pagination, err := h.service.Listar(c.Request.Context(), principalFromContext(c), tramiteFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, pagination)
}

// PendientesC3 godoc
// @Summary Bandeja de C3 (solicitudes en enviado_c3)
// @Tags Trámites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tramites/pendientes-c3 [get]
func (h *TramiteHandler) PendientesC3(c *gin.Context) {
	items, pagination, err := h.service.PendientesC3(c.Request.Context(), principalFromContext(c), tramiteFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, pagination)
}

// ValidadosC3 godoc
// @Summary Solicitudes ya dictaminadas por C3
// @Tags Trámites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tramites/validados-c3 [get]
func (h *TramiteHandler) ValidadosC3(c *gin.Context) {
	items, pagination, err := h.service.ValidadosC3(c.Request.Context(), principalFromContext(c), tramiteFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, pagination)
}

// Detalle godoc
// @Summary Detalle de una solicitud con su personal y rechazos
// @Tags Trámites
// @Produce json
// @Param id path string true "ID de solicitud"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tramites/{id} [get]
func (h *TramiteHandler) Detalle(c *gin.Context) {
	detalle, err := h.service.Detalle(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detalle, nil)
}

// ExportarCSV godoc
// @Summary Exportar el listado visible como CSV
// @Tags Trámites
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /tramites/mis-solicitudes/export [get]
func (h *TramiteHandler) ExportarCSV(c *gin.Context) {
	payload, err := h.service.ExportarCSV(c.Request.Context(), principalFromContext(c), tramiteFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="solicitudes.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// Constancia godoc
// @Summary Constancia PDF de una solicitud
// @Tags Trámites
// @Produce application/pdf
// @Param id path string true "ID de solicitud"
// @Success 200 {string} string "PDF"
// @Failure 404 {object} response.Envelope
// @Router /tramites/{id}/constancia [get]
func (h *TramiteHandler) Constancia(c *gin.Context) {
	payload, err := h.service.Constancia(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="constancia-%s.pdf"`, c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", payload)
}
