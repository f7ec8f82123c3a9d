package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Usuario  string `json:"usuario" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Usuario     UsuarioInfo `json:"usuario"`
}

// ChangePasswordRequest payload for updating the caller's password.
type ChangePasswordRequest struct {
	PasswordActual string `json:"password_actual" validate:"required"`
	PasswordNuevo  string `json:"password_nuevo" validate:"required,min=8"`
}

// UpdateProfileRequest payload for updating the caller's own profile.
type UpdateProfileRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

// UsuarioInfo describes the authenticated user in responses.
type UsuarioInfo struct {
	ID       string   `json:"id"`
	Nombre   string   `json:"nombre"`
	Usuario  string   `json:"usuario"`
	Rol      UserRole `json:"rol"`
	RegionID *string  `json:"region_id,omitempty"`
}

// JWTClaims is the access token payload. It carries only the user id; role
// and region are resolved from storage on every request.
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Principal is the caller identity resolved by the auth middleware for the
// current request.
type Principal struct {
	UserID   string
	Nombre   string
	Usuario  string
	Rol      UserRole
	RegionID *string
}
