package dto

import (
	"time"

	"github.com/sacc5i/sacc5i-api/internal/models"
)

// CrearSolicitudRequest is the payload for registering a new solicitud.
type CrearSolicitudRequest struct {
	TipoOficioID     string     `json:"tipo_oficio_id" validate:"required"`
	MunicipioID      string     `json:"municipio_id" validate:"required"`
	NumeroOficio     string     `json:"numero_oficio"`
	Asunto           string     `json:"asunto"`
	CantidadPersonal int        `json:"cantidad_personal" validate:"gte=0"`
	FechaSello       *time.Time `json:"fecha_sello"`
	FechaRecepcion   *time.Time `json:"fecha_recepcion"`
	FechaSolicitud   *time.Time `json:"fecha_solicitud" validate:"required"`
	Observaciones    string     `json:"observaciones"`
}

// PersonaInput is one persona inside a batch registration.
type PersonaInput struct {
	Nombre            string  `json:"nombre" validate:"required"`
	ApellidoPaterno   string  `json:"apellido_paterno" validate:"required"`
	ApellidoMaterno   string  `json:"apellido_materno"`
	CURP              string  `json:"curp" validate:"required,len=18"`
	RFC               string  `json:"rfc"`
	Telefono          string  `json:"telefono"`
	PuestoPropuestoID *string `json:"puesto_propuesto_id"`
}

// RegistrarPersonasRequest carries the ordered persona batch for a solicitud.
type RegistrarPersonasRequest struct {
	Personas []PersonaInput `json:"personas" validate:"required,min=1,dive"`
}

// DictamenPersonaRequest is the per-persona C5 disposition payload.
type DictamenPersonaRequest struct {
	PersonaID       string `json:"persona_id" validate:"required"`
	Aprobada        bool   `json:"aprobada"`
	MotivoRechazoID string `json:"motivo_rechazo_id"`
	Observaciones   string `json:"observaciones"`
}

// DictamenC3Request is the request-level bulk disposition issued by C3.
type DictamenC3Request struct {
	Aprobada        bool   `json:"aprobada"`
	MotivoRechazoID string `json:"motivo_rechazo_id"`
	Observaciones   string `json:"observaciones"`
}

// TramiteFilter captures the listing criteria. RegionID is set by the service
// when the caller is region-scoped, never from client input.
type TramiteFilter struct {
	Fase      string
	EstatusID string
	UsuarioID string
	RegionID  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SolicitudItem is one row of a solicitud listing, joined with catalog names.
type SolicitudItem struct {
	models.Solicitud
	MunicipioNombre   string  `db:"municipio_nombre" json:"municipio_nombre"`
	RegionID          string  `db:"region_id" json:"region_id"`
	RegionNombre      string  `db:"region_nombre" json:"region_nombre"`
	TipoOficioNombre  string  `db:"tipo_oficio_nombre" json:"tipo_oficio_nombre"`
	EstatusNombre     *string `db:"estatus_nombre" json:"estatus_nombre,omitempty"`
	SolicitanteNombre string  `db:"solicitante_nombre" json:"solicitante_nombre"`
}

// SolicitudDetalle bundles a solicitud with its personas and rejection trail.
type SolicitudDetalle struct {
	Solicitud SolicitudItem         `json:"solicitud"`
	Personas  []models.Persona      `json:"personas"`
	Rechazos  []RechazoDetalle      `json:"rechazos"`
	Conteo    models.ConteoPersonal `json:"conteo_personal"`
}

// RechazoDetalle is a rejection audit row joined with its catalog reason.
type RechazoDetalle struct {
	models.Rechazo
	MotivoNombre  string `db:"motivo_nombre" json:"motivo_nombre"`
	UsuarioNombre string `db:"usuario_nombre" json:"usuario_nombre"`
}
