package dto

import "github.com/sacc5i/sacc5i-api/internal/models"

// CrearUsuarioRequest is the admin payload to register a user account. When
// Password is empty the account is created with the configured default
// password and must change it on first login.
type CrearUsuarioRequest struct {
	Nombre   string  `json:"nombre" validate:"required"`
	Usuario  string  `json:"usuario" validate:"required,min=4"`
	Password string  `json:"password" validate:"omitempty,min=8"`
	Rol      string  `json:"rol" validate:"required,oneof=super_admin admin analista validador_c3"`
	RegionID *string `json:"region_id"`
}

// ActualizarUsuarioRequest is the admin payload to modify an account.
type ActualizarUsuarioRequest struct {
	Nombre   string  `json:"nombre" validate:"required"`
	Rol      string  `json:"rol" validate:"required,oneof=super_admin admin analista validador_c3"`
	RegionID *string `json:"region_id"`
	Activo   *bool   `json:"activo"`
}

// UsuarioItem is the serialised account shape returned by admin endpoints.
type UsuarioItem struct {
	ID               string          `json:"id"`
	Nombre           string          `json:"nombre"`
	Usuario          string          `json:"usuario"`
	Rol              models.UserRole `json:"rol"`
	RegionID         *string         `json:"region_id,omitempty"`
	Activo           bool            `json:"activo"`
	PasswordCambiado bool            `json:"password_cambiado"`
}

// NewUsuarioItem maps a stored account into its API shape.
func NewUsuarioItem(u *models.Usuario) UsuarioItem {
	return UsuarioItem{
		ID:               u.ID,
		Nombre:           u.Nombre,
		Usuario:          u.Usuario,
		Rol:              u.Rol,
		RegionID:         u.RegionID,
		Activo:           u.Activo,
		PasswordCambiado: u.PasswordCambiado,
	}
}
