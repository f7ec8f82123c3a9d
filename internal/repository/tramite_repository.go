package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sacc5i/sacc5i-api/internal/dto"
	"github.com/sacc5i/sacc5i-api/internal/models"
)

// ErrTransicionInvalida is returned when a lifecycle operation is attempted
// from a phase that does not admit it. The check runs inside the same
// transaction as the mutation, so a concurrent caller cannot slip past it.
var ErrTransicionInvalida = errors.New("transición de fase no permitida")

// TramiteRepository owns persistence for solicitudes, personas and rechazos,
// including the transactional lifecycle operations.
type TramiteRepository struct {
	db          *sqlx.DB
	folioPrefix string
}

// NewTramiteRepository constructs a TramiteRepository.
func NewTramiteRepository(db *sqlx.DB, folioPrefix string) *TramiteRepository {
	if folioPrefix == "" {
		folioPrefix = "SACC"
	}
	return &TramiteRepository{db: db, folioPrefix: folioPrefix}
}

// CrearSolicitud inserts a new solicitud in phase creacion, generating the
// per-year consecutive folio inside the same transaction.
func (r *TramiteRepository) CrearSolicitud(ctx context.Context, s *models.Solicitud) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin crear solicitud: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	anio := s.FechaSolicitud.Year()

	// The upsert on the counter row serializes concurrent folio generation
	// for the same year.
	var consecutivo int
	const folioQuery = `INSERT INTO folios (anio, consecutivo) VALUES ($1, 1)
ON CONFLICT (anio) DO UPDATE SET consecutivo = folios.consecutivo + 1
RETURNING consecutivo`
	if err = tx.GetContext(ctx, &consecutivo, folioQuery, anio); err != nil {
		return fmt.Errorf("generate folio: %w", err)
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Folio = fmt.Sprintf("%s-%d-%06d", r.folioPrefix, anio, consecutivo)
	s.FaseActual = models.FaseCreacion
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	const insertQuery = `INSERT INTO solicitudes
(id, folio, tipo_oficio_id, municipio_id, usuario_id, numero_oficio, asunto, fase_actual,
 estatus_id, cantidad_personal, fecha_sello, fecha_recepcion, fecha_solicitud, observaciones, created_at, updated_at)
VALUES (:id, :folio, :tipo_oficio_id, :municipio_id, :usuario_id, :numero_oficio, :asunto, :fase_actual,
 (SELECT id FROM estatus WHERE es_default LIMIT 1), :cantidad_personal, :fecha_sello, :fecha_recepcion,
 :fecha_solicitud, :observaciones, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, s); err != nil {
		return fmt.Errorf("insert solicitud: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit crear solicitud: %w", err)
	}
	return nil
}

// FindSolicitudByID fetches a solicitud by identifier.
func (r *TramiteRepository) FindSolicitudByID(ctx context.Context, id string) (*models.Solicitud, error) {
	const query = `SELECT id, folio, tipo_oficio_id, municipio_id, usuario_id, numero_oficio, asunto, fase_actual,
estatus_id, cantidad_personal, fecha_sello, fecha_recepcion, fecha_solicitud, observaciones,
validado_c3, fecha_dictamen_c3, observaciones_c3, created_at, updated_at
FROM solicitudes WHERE id = $1 LIMIT 1`
	var s models.Solicitud
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find solicitud: %w", err)
	}
	return &s, nil
}

// RegistrarPersonas inserts the batch in phase capturado and advances the
// solicitud to validacion_previa_c5, all inside one transaction. Either the
// whole batch lands or none of it does.
func (r *TramiteRepository) RegistrarPersonas(ctx context.Context, solicitudID string, personas []models.Persona) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registrar personas: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var fase models.Fase
	const lockQuery = `SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &fase, lockQuery, solicitudID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock solicitud: %w", err)
	}

	if !fase.PuedeAvanzarA(models.FaseValidacionPreviaC5) && fase != models.FaseValidacionPreviaC5 {
		return ErrTransicionInvalida
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO personas
(id, solicitud_id, nombre, apellido_paterno, apellido_materno, curp, rfc, telefono, puesto_propuesto_id,
 fase_actual, validado_c5, validado_c3, rechazado, created_at, updated_at)
VALUES (:id, :solicitud_id, :nombre, :apellido_paterno, :apellido_materno, :curp, :rfc, :telefono,
 :puesto_propuesto_id, :fase_actual, false, false, false, :created_at, :updated_at)`
	for i := range personas {
		p := &personas[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.SolicitudID = solicitudID
		p.FaseActual = models.FasePersonaCapturado
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, insertQuery, p); err != nil {
			return fmt.Errorf("insert persona: %w", err)
		}
	}

	const updateQuery = `UPDATE solicitudes SET fase_actual = $2, updated_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, solicitudID, models.FaseValidacionPreviaC5, now); err != nil {
		return fmt.Errorf("advance solicitud: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit registrar personas: %w", err)
	}
	return nil
}

// FindPersonaByID fetches a persona by identifier.
func (r *TramiteRepository) FindPersonaByID(ctx context.Context, id string) (*models.Persona, error) {
	const query = `SELECT id, solicitud_id, nombre, apellido_paterno, apellido_materno, curp, rfc, telefono,
puesto_propuesto_id, fase_actual, validado_c5, validado_c3, rechazado, motivo_rechazo_id, created_at, updated_at
FROM personas WHERE id = $1 LIMIT 1`
	var p models.Persona
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find persona: %w", err)
	}
	return &p, nil
}

// DictamenPersonaParams holds the values for a per-persona C5 disposition.
type DictamenPersonaParams struct {
	PersonaID       string
	Aprobada        bool
	MotivoRechazoID string
	Observaciones   string
	UsuarioID       string
}

// DictaminarPersona applies the C5 disposition to one persona. On rejection,
// the flag update and the audit insert share a transaction: both land or
// neither does. A persona already in phase rechazado stays there, but every
// rejection call appends a fresh audit row.
func (r *TramiteRepository) DictaminarPersona(ctx context.Context, params DictamenPersonaParams) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dictamen persona: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		SolicitudID string             `db:"solicitud_id"`
		Fase        models.FasePersona `db:"fase_actual"`
	}
	const lockQuery = `SELECT solicitud_id, fase_actual FROM personas WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, params.PersonaID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock persona: %w", err)
	}

	now := time.Now().UTC()

	if params.Aprobada {
		if current.Fase.Terminal() {
			return ErrTransicionInvalida
		}
		const approveQuery = `UPDATE personas SET validado_c5 = true, fase_actual = $2, updated_at = $3 WHERE id = $1`
		if _, err = tx.ExecContext(ctx, approveQuery, params.PersonaID, models.FasePersonaValidadoC5, now); err != nil {
			return fmt.Errorf("approve persona: %w", err)
		}
	} else {
		// Rejecting an already-rejected persona does not move the phase but
		// still records a new audit row.
		const rejectQuery = `UPDATE personas SET rechazado = true, validado_c5 = false, fase_actual = $2,
motivo_rechazo_id = $3, updated_at = $4 WHERE id = $1`
		if _, err = tx.ExecContext(ctx, rejectQuery, params.PersonaID, models.FasePersonaRechazado, params.MotivoRechazoID, now); err != nil {
			return fmt.Errorf("reject persona: %w", err)
		}

		const auditQuery = `INSERT INTO rechazos (id, solicitud_id, persona_id, motivo_rechazo_id, fase_rechazo, observaciones, usuario_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err = tx.ExecContext(ctx, auditQuery, uuid.NewString(), current.SolicitudID, params.PersonaID,
			params.MotivoRechazoID, string(current.Fase), params.Observaciones, params.UsuarioID, now); err != nil {
			return fmt.Errorf("insert rechazo: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit dictamen persona: %w", err)
	}
	return nil
}

// ConteoPersonal aggregates the C5 disposition counters for a solicitud.
func (r *TramiteRepository) ConteoPersonal(ctx context.Context, solicitudID string) (models.ConteoPersonal, error) {
	const query = `SELECT COUNT(*) AS total,
COUNT(*) FILTER (WHERE validado_c5) AS validadas,
COUNT(*) FILTER (WHERE rechazado) AS rechazadas
FROM personas WHERE solicitud_id = $1`
	var conteo models.ConteoPersonal
	if err := r.db.GetContext(ctx, &conteo, query, solicitudID); err != nil {
		return models.ConteoPersonal{}, fmt.Errorf("conteo personal: %w", err)
	}
	return conteo, nil
}

// EnviarAC3 runs the submit gate as one read-check-write transaction. The
// solicitud row and its personas are locked before the counters are computed,
// so two concurrent submits of the same solicitud cannot both pass the check.
// When the gate is not satisfied nothing is mutated and avanzado is false.
func (r *TramiteRepository) EnviarAC3(ctx context.Context, solicitudID string) (conteo models.ConteoPersonal, avanzado bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.ConteoPersonal{}, false, fmt.Errorf("begin enviar a c3: %w", err)
	}
	defer func() {
		if err != nil || !avanzado {
			_ = tx.Rollback()
		}
	}()

	var fase models.Fase
	const lockQuery = `SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &fase, lockQuery, solicitudID); err != nil {
		if err == sql.ErrNoRows {
			return models.ConteoPersonal{}, false, err
		}
		return models.ConteoPersonal{}, false, fmt.Errorf("lock solicitud: %w", err)
	}

	if !fase.PuedeAvanzarA(models.FaseEnviadoC3) {
		err = ErrTransicionInvalida
		return models.ConteoPersonal{}, false, err
	}

	const conteoQuery = `SELECT COUNT(*) AS total,
COUNT(*) FILTER (WHERE validado_c5) AS validadas,
COUNT(*) FILTER (WHERE rechazado) AS rechazadas
FROM (SELECT validado_c5, rechazado FROM personas WHERE solicitud_id = $1 FOR UPDATE) p`
	if err = tx.GetContext(ctx, &conteo, conteoQuery, solicitudID); err != nil {
		return models.ConteoPersonal{}, false, fmt.Errorf("conteo personal: %w", err)
	}

	if !conteo.GateSatisfecho() {
		return conteo, false, nil
	}

	now := time.Now().UTC()
	const advanceQuery = `UPDATE solicitudes SET fase_actual = $2, updated_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, advanceQuery, solicitudID, models.FaseEnviadoC3, now); err != nil {
		return conteo, false, fmt.Errorf("advance solicitud: %w", err)
	}

	// Rejected personas stay where they are; only C5 survivors move.
	const advancePersonasQuery = `UPDATE personas SET fase_actual = $2, updated_at = $3
WHERE solicitud_id = $1 AND validado_c5 = true AND rechazado = false`
	if _, err = tx.ExecContext(ctx, advancePersonasQuery, solicitudID, models.FasePersonaEnviadoC3, now); err != nil {
		return conteo, false, fmt.Errorf("advance personas: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return conteo, false, fmt.Errorf("commit enviar a c3: %w", err)
	}
	return conteo, true, nil
}

// DictamenC3Params holds the values for the request-level C3 disposition.
type DictamenC3Params struct {
	SolicitudID     string
	Aprobada        bool
	MotivoRechazoID string
	Observaciones   string
	UsuarioID       string
}

// DictaminarC3 applies the bulk C3 disposition over the surviving cohort in
// one transaction. The rejection branch records a single request-level audit
// row rather than one per persona.
func (r *TramiteRepository) DictaminarC3(ctx context.Context, params DictamenC3Params) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dictamen c3: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var fase models.Fase
	const lockQuery = `SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &fase, lockQuery, params.SolicitudID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock solicitud: %w", err)
	}

	if fase != models.FaseEnviadoC3 {
		return ErrTransicionInvalida
	}

	now := time.Now().UTC()

	if params.Aprobada {
		const approveQuery = `UPDATE solicitudes SET fase_actual = $2, validado_c3 = true,
fecha_dictamen_c3 = $3, observaciones_c3 = $4, updated_at = $3 WHERE id = $1`
		if _, err = tx.ExecContext(ctx, approveQuery, params.SolicitudID, models.FaseValidadoC3, now, params.Observaciones); err != nil {
			return fmt.Errorf("approve solicitud: %w", err)
		}

		const approvePersonasQuery = `UPDATE personas SET validado_c3 = true, fase_actual = $2, updated_at = $3
WHERE solicitud_id = $1 AND fase_actual = $4`
		if _, err = tx.ExecContext(ctx, approvePersonasQuery, params.SolicitudID, models.FasePersonaValidadoC3, now, models.FasePersonaEnviadoC3); err != nil {
			return fmt.Errorf("approve personas: %w", err)
		}
	} else {
		const rejectQuery = `UPDATE solicitudes SET fase_actual = $2, fecha_dictamen_c3 = $3,
observaciones_c3 = $4, updated_at = $3 WHERE id = $1`
		if _, err = tx.ExecContext(ctx, rejectQuery, params.SolicitudID, models.FaseRechazado, now, params.Observaciones); err != nil {
			return fmt.Errorf("reject solicitud: %w", err)
		}

		const rejectPersonasQuery = `UPDATE personas SET rechazado = true, fase_actual = $2, updated_at = $3
WHERE solicitud_id = $1 AND fase_actual = $4`
		if _, err = tx.ExecContext(ctx, rejectPersonasQuery, params.SolicitudID, models.FasePersonaRechazado, now, models.FasePersonaEnviadoC3); err != nil {
			return fmt.Errorf("reject personas: %w", err)
		}

		const auditQuery = `INSERT INTO rechazos (id, solicitud_id, persona_id, motivo_rechazo_id, fase_rechazo, observaciones, usuario_id, created_at)
VALUES ($1, $2, NULL, $3, $4, $5, $6, $7)`
		if _, err = tx.ExecContext(ctx, auditQuery, uuid.NewString(), params.SolicitudID,
			params.MotivoRechazoID, string(fase), params.Observaciones, params.UsuarioID, now); err != nil {
			return fmt.Errorf("insert rechazo: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit dictamen c3: %w", err)
	}
	return nil
}

// ListSolicitudes returns solicitudes matching the filter with catalog names
// joined in, plus the total count for pagination.
func (r *TramiteRepository) ListSolicitudes(ctx context.Context, filter dto.TramiteFilter) ([]dto.SolicitudItem, int, error) {
	base := `FROM solicitudes s
JOIN municipios m ON m.id = s.municipio_id
JOIN regiones reg ON reg.id = m.region_id
JOIN tipos_oficio t ON t.id = s.tipo_oficio_id
JOIN usuarios u ON u.id = s.usuario_id
LEFT JOIN estatus e ON e.id = s.estatus_id`
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Fase != "" {
		conditions = append(conditions, fmt.Sprintf("s.fase_actual = $%d", len(args)+1))
		args = append(args, filter.Fase)
	}
	if filter.EstatusID != "" {
		conditions = append(conditions, fmt.Sprintf("s.estatus_id = $%d", len(args)+1))
		args = append(args, filter.EstatusID)
	}
	if filter.UsuarioID != "" {
		conditions = append(conditions, fmt.Sprintf("s.usuario_id = $%d", len(args)+1))
		args = append(args, filter.UsuarioID)
	}
	if filter.RegionID != "" {
		conditions = append(conditions, fmt.Sprintf("m.region_id = $%d", len(args)+1))
		args = append(args, filter.RegionID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.folio) LIKE $%d OR LOWER(s.numero_oficio) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"folio":           "s.folio",
		"fecha_solicitud": "s.fecha_solicitud",
		"created_at":      "s.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.folio, s.tipo_oficio_id, s.municipio_id, s.usuario_id, s.numero_oficio, s.asunto,
s.fase_actual, s.estatus_id, s.cantidad_personal, s.fecha_sello, s.fecha_recepcion, s.fecha_solicitud, s.observaciones,
s.validado_c3, s.fecha_dictamen_c3, s.observaciones_c3, s.created_at, s.updated_at,
m.nombre AS municipio_nombre, m.region_id AS region_id, reg.nombre AS region_nombre,
t.nombre AS tipo_oficio_nombre, e.nombre AS estatus_nombre, u.nombre AS solicitante_nombre
%s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var items []dto.SolicitudItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list solicitudes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count solicitudes: %w", err)
	}
	return items, total, nil
}

// FindDetalle loads a solicitud with its personas, rejection trail and
// disposition counters.
func (r *TramiteRepository) FindDetalle(ctx context.Context, id string) (*dto.SolicitudDetalle, error) {
	const itemQuery = `SELECT s.id, s.folio, s.tipo_oficio_id, s.municipio_id, s.usuario_id, s.numero_oficio, s.asunto,
s.fase_actual, s.estatus_id, s.cantidad_personal, s.fecha_sello, s.fecha_recepcion, s.fecha_solicitud, s.observaciones,
s.validado_c3, s.fecha_dictamen_c3, s.observaciones_c3, s.created_at, s.updated_at,
m.nombre AS municipio_nombre, m.region_id AS region_id, reg.nombre AS region_nombre,
t.nombre AS tipo_oficio_nombre, e.nombre AS estatus_nombre, u.nombre AS solicitante_nombre
FROM solicitudes s
JOIN municipios m ON m.id = s.municipio_id
JOIN regiones reg ON reg.id = m.region_id
JOIN tipos_oficio t ON t.id = s.tipo_oficio_id
JOIN usuarios u ON u.id = s.usuario_id
LEFT JOIN estatus e ON e.id = s.estatus_id
WHERE s.id = $1`
	var item dto.SolicitudItem
	if err := r.db.GetContext(ctx, &item, itemQuery, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find detalle: %w", err)
	}

	const personasQuery = `SELECT id, solicitud_id, nombre, apellido_paterno, apellido_materno, curp, rfc, telefono,
puesto_propuesto_id, fase_actual, validado_c5, validado_c3, rechazado, motivo_rechazo_id, created_at, updated_at
FROM personas WHERE solicitud_id = $1 ORDER BY created_at`
	var personas []models.Persona
	if err := r.db.SelectContext(ctx, &personas, personasQuery, id); err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}

	const rechazosQuery = `SELECT r.id, r.solicitud_id, r.persona_id, r.motivo_rechazo_id, r.fase_rechazo,
r.observaciones, r.usuario_id, r.created_at, mr.nombre AS motivo_nombre, u.nombre AS usuario_nombre
FROM rechazos r
JOIN motivos_rechazo mr ON mr.id = r.motivo_rechazo_id
JOIN usuarios u ON u.id = r.usuario_id
WHERE r.solicitud_id = $1 ORDER BY r.created_at`
	var rechazos []dto.RechazoDetalle
	if err := r.db.SelectContext(ctx, &rechazos, rechazosQuery, id); err != nil {
		return nil, fmt.Errorf("list rechazos: %w", err)
	}

	conteo, err := r.ConteoPersonal(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.SolicitudDetalle{
		Solicitud: item,
		Personas:  personas,
		Rechazos:  rechazos,
		Conteo:    conteo,
	}, nil
}
