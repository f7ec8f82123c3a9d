package models

import "time"

// Bitacora is an access-log entry recorded after successful mutating
// requests. Append-only, like the rechazo trail.
type Bitacora struct {
	ID        string    `db:"id" json:"id"`
	UsuarioID *string   `db:"usuario_id" json:"usuario_id,omitempty"`
	Accion    string    `db:"accion" json:"accion"`
	Recurso   string    `db:"recurso" json:"recurso"`
	Detalle   []byte    `db:"detalle" json:"detalle,omitempty"`
	IP        string    `db:"ip" json:"ip"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
