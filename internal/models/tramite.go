package models

import "time"

// Fase enumerates the lifecycle phases of a solicitud. The ordering is
// monotonic: a solicitud only moves forward through Orden, except for the
// absorbing rejection phases, reachable from any non-terminal phase.
type Fase string

const (
	FaseCreacion            Fase = "creacion"
	FaseValidacionPreviaC5  Fase = "validacion_previa_c5"
	FaseEnviadoC3           Fase = "enviado_c3"
	FaseValidadoC3          Fase = "validado_c3"
	FaseRevisionPropuestaC3 Fase = "revision_propuesta_c3"
	FaseEnProceso           Fase = "en_proceso"
	FaseFinalizado          Fase = "finalizado"
	FaseRechazado           Fase = "rechazado"
	FaseRechazadoNoProcede  Fase = "rechazado_no_procede"
)

var faseOrden = map[Fase]int{
	FaseCreacion:            0,
	FaseValidacionPreviaC5:  1,
	FaseEnviadoC3:           2,
	FaseValidadoC3:          3,
	FaseRevisionPropuestaC3: 4,
	FaseEnProceso:           5,
	FaseFinalizado:          6,
}

// Terminal reports whether the phase is absorbing: no further transition is
// allowed out of it.
func (f Fase) Terminal() bool {
	return f == FaseFinalizado || f == FaseRechazado || f == FaseRechazadoNoProcede
}

// Rechazada reports whether the phase is one of the rejection phases.
func (f Fase) Rechazada() bool {
	return f == FaseRechazado || f == FaseRechazadoNoProcede
}

// PuedeAvanzarA reports whether a transition from f to destino is legal:
// strictly forward in the canonical order, or into a rejection phase from any
// non-terminal phase.
func (f Fase) PuedeAvanzarA(destino Fase) bool {
	if f.Terminal() {
		return false
	}
	if destino.Rechazada() {
		return true
	}
	from, ok := faseOrden[f]
	if !ok {
		return false
	}
	to, ok := faseOrden[destino]
	if !ok {
		return false
	}
	return to > from
}

// Solicitud represents one institutional case ("tramite").
type Solicitud struct {
	ID               string     `db:"id" json:"id"`
	Folio            string     `db:"folio" json:"folio"`
	TipoOficioID     string     `db:"tipo_oficio_id" json:"tipo_oficio_id"`
	MunicipioID      string     `db:"municipio_id" json:"municipio_id"`
	UsuarioID        string     `db:"usuario_id" json:"usuario_id"`
	NumeroOficio     string     `db:"numero_oficio" json:"numero_oficio"`
	Asunto           string     `db:"asunto" json:"asunto"`
	FaseActual       Fase       `db:"fase_actual" json:"fase_actual"`
	EstatusID        *string    `db:"estatus_id" json:"estatus_id,omitempty"`
	CantidadPersonal int        `db:"cantidad_personal" json:"cantidad_personal"`
	FechaSello       *time.Time `db:"fecha_sello" json:"fecha_sello,omitempty"`
	FechaRecepcion   *time.Time `db:"fecha_recepcion" json:"fecha_recepcion,omitempty"`
	FechaSolicitud   time.Time  `db:"fecha_solicitud" json:"fecha_solicitud"`
	Observaciones    string     `db:"observaciones" json:"observaciones"`
	ValidadoC3       bool       `db:"validado_c3" json:"validado_c3"`
	FechaDictamenC3  *time.Time `db:"fecha_dictamen_c3" json:"fecha_dictamen_c3,omitempty"`
	ObservacionesC3  string     `db:"observaciones_c3" json:"observaciones_c3"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// ConteoPersonal aggregates the C5 disposition of every persona owned by a
// solicitud. It backs the enviar-a-c3 gate.
type ConteoPersonal struct {
	Total      int `db:"total" json:"total"`
	Validadas  int `db:"validadas" json:"validadas"`
	Rechazadas int `db:"rechazadas" json:"rechazadas"`
}

// GateSatisfecho is the submit-to-C3 precondition: every persona must hold a
// terminal C5 disposition and at least one must have survived validation.
func (c ConteoPersonal) GateSatisfecho() bool {
	return c.Validadas+c.Rechazadas == c.Total && c.Validadas > 0
}
