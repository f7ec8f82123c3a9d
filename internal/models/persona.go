package models

import "time"

// FasePersona enumerates the per-person lifecycle phases. A persona may never
// be ahead of its owning solicitud in the canonical ordering, and rechazado
// is absorbing.
type FasePersona string

const (
	FasePersonaCapturado  FasePersona = "capturado"
	FasePersonaValidadoC5 FasePersona = "validado_c5"
	FasePersonaEnviadoC3  FasePersona = "enviado_c3"
	FasePersonaValidadoC3 FasePersona = "validado_c3"
	FasePersonaEnProceso  FasePersona = "en_proceso"
	FasePersonaFinalizado FasePersona = "finalizado"
	FasePersonaRechazado  FasePersona = "rechazado"
)

// Terminal reports whether the persona phase admits no further transition.
func (f FasePersona) Terminal() bool {
	return f == FasePersonaFinalizado || f == FasePersonaRechazado
}

// Persona is one individual bundled inside a solicitud. Personas are owned by
// their solicitud and cascade-deleted with it.
type Persona struct {
	ID                string      `db:"id" json:"id"`
	SolicitudID       string      `db:"solicitud_id" json:"solicitud_id"`
	Nombre            string      `db:"nombre" json:"nombre"`
	ApellidoPaterno   string      `db:"apellido_paterno" json:"apellido_paterno"`
	ApellidoMaterno   string      `db:"apellido_materno" json:"apellido_materno"`
	CURP              string      `db:"curp" json:"curp"`
	RFC               string      `db:"rfc" json:"rfc"`
	Telefono          string      `db:"telefono" json:"telefono"`
	PuestoPropuestoID *string     `db:"puesto_propuesto_id" json:"puesto_propuesto_id,omitempty"`
	FaseActual        FasePersona `db:"fase_actual" json:"fase_actual"`
	ValidadoC5        bool        `db:"validado_c5" json:"validado_c5"`
	ValidadoC3        bool        `db:"validado_c3" json:"validado_c3"`
	Rechazado         bool        `db:"rechazado" json:"rechazado"`
	MotivoRechazoID   *string     `db:"motivo_rechazo_id" json:"motivo_rechazo_id,omitempty"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}
