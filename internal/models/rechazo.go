package models

import "time"

// Rechazo is an immutable audit entry created whenever a solicitud or persona
// is rejected. Rows are append-only and never updated; they outlive the
// in-place mutation of their subjects.
type Rechazo struct {
	ID              string    `db:"id" json:"id"`
	SolicitudID     *string   `db:"solicitud_id" json:"solicitud_id,omitempty"`
	PersonaID       *string   `db:"persona_id" json:"persona_id,omitempty"`
	MotivoRechazoID string    `db:"motivo_rechazo_id" json:"motivo_rechazo_id"`
	FaseRechazo     string    `db:"fase_rechazo" json:"fase_rechazo"`
	Observaciones   string    `db:"observaciones" json:"observaciones"`
	UsuarioID       string    `db:"usuario_id" json:"usuario_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
