package models

// Region is a catalog entry grouping municipios for role scoping.
type Region struct {
	ID     string `db:"id" json:"id"`
	Nombre string `db:"nombre" json:"nombre"`
}

// Municipio belongs to exactly one region.
type Municipio struct {
	ID       string `db:"id" json:"id"`
	Nombre   string `db:"nombre" json:"nombre"`
	RegionID string `db:"region_id" json:"region_id"`
}

// TipoOficio classifies the institutional office type of a solicitud.
type TipoOficio struct {
	ID     string `db:"id" json:"id"`
	Nombre string `db:"nombre" json:"nombre"`
}

// MotivoCategoria groups rejection reasons by stage of the workflow.
type MotivoCategoria string

const (
	MotivoPreValidacion    MotivoCategoria = "pre_validacion"
	MotivoValidacionC3     MotivoCategoria = "validacion_c3"
	MotivoAntecedentes     MotivoCategoria = "antecedentes"
	MotivoRequisitos       MotivoCategoria = "requisitos"
	MotivoCredencial       MotivoCategoria = "credencial"
	MotivoCitaVestimenta   MotivoCategoria = "cita_vestimenta"
	MotivoCitaInasistencia MotivoCategoria = "cita_inasistencia"
	MotivoOtro             MotivoCategoria = "otro"
)

// MotivoRechazo is a static rejection reason. Read-only at runtime.
type MotivoRechazo struct {
	ID        string          `db:"id" json:"id"`
	Nombre    string          `db:"nombre" json:"nombre"`
	Categoria MotivoCategoria `db:"categoria" json:"categoria"`
}

// Estatus is the coarse-grained status used for filtering and coloring,
// separate from the lifecycle phase.
type Estatus struct {
	ID      string `db:"id" json:"id"`
	Clave   string `db:"clave" json:"clave"`
	Nombre  string `db:"nombre" json:"nombre"`
	Default bool   `db:"es_default" json:"es_default"`
}

// PuestoPropuesto is the proposed-alternate-role catalog referenced by
// personas.
type PuestoPropuesto struct {
	ID     string `db:"id" json:"id"`
	Nombre string `db:"nombre" json:"nombre"`
}
