package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleAdmin       UserRole = "admin"
	RoleAnalista    UserRole = "analista"
	RoleValidadorC3 UserRole = "validador_c3"
)

// Usuario represents an application user stored in the usuarios table.
type Usuario struct {
	ID               string     `db:"id" json:"id"`
	Nombre           string     `db:"nombre" json:"nombre"`
	Usuario          string     `db:"usuario" json:"usuario"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Rol              UserRole   `db:"rol" json:"rol"`
	RegionID         *string    `db:"region_id" json:"region_id,omitempty"`
	Activo           bool       `db:"activo" json:"activo"`
	PasswordCambiado bool       `db:"password_cambiado" json:"password_cambiado"`
	UltimoAcceso     *time.Time `db:"ultimo_acceso" json:"ultimo_acceso,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// UsuarioFilter captures filtering criteria for listing users.
type UsuarioFilter struct {
	Rol       *UserRole
	Activo    *bool
	RegionID  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
