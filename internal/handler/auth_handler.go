package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sacc5i/sacc5i-api/internal/models"
	"github.com/sacc5i/sacc5i-api/internal/service"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
	"github.com/sacc5i/sacc5i-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Iniciar sesión
// @Description Autentica por usuario y contraseña y devuelve un token de acceso
// @Tags Autenticación
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credenciales"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "credenciales inválidas"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Profile godoc
// @Summary Perfil del usuario autenticado
// @Tags Autenticación
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info, err := h.service.Profile(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, info, nil)
}

// UpdateProfile godoc
// @Summary Actualizar perfil
// @Tags Autenticación
// @Accept json
// @Produce json
// @Param payload body models.UpdateProfileRequest true "Datos de perfil"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "datos de perfil inválidos"))
		return
	}

	info, err := h.service.UpdateProfile(c.Request.Context(), principal.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, info, nil)
}

// ChangePassword godoc
// @Summary Cambiar contraseña
// @Tags Autenticación
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "Contraseñas"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "datos de contraseña inválidos"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), principal.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Mensaje(c, http.StatusOK, "contraseña actualizada", nil)
}
