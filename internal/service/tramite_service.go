package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sacc5i/sacc5i-api/internal/dto"
	"github.com/sacc5i/sacc5i-api/internal/models"
	"github.com/sacc5i/sacc5i-api/internal/repository"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
	"github.com/sacc5i/sacc5i-api/pkg/export"
)

type tramiteRepository interface {
	CrearSolicitud(ctx context.Context, s *models.Solicitud) error
	FindSolicitudByID(ctx context.Context, id string) (*models.Solicitud, error)
	RegistrarPersonas(ctx context.Context, solicitudID string, personas []models.Persona) error
	FindPersonaByID(ctx context.Context, id string) (*models.Persona, error)
	DictaminarPersona(ctx context.Context, params repository.DictamenPersonaParams) error
	EnviarAC3(ctx context.Context, solicitudID string) (models.ConteoPersonal, bool, error)
	DictaminarC3(ctx context.Context, params repository.DictamenC3Params) error
	ListSolicitudes(ctx context.Context, filter dto.TramiteFilter) ([]dto.SolicitudItem, int, error)
	FindDetalle(ctx context.Context, id string) (*dto.SolicitudDetalle, error)
}

// TramiteService is the request lifecycle engine: it owns the phase
// transitions of solicitudes and their personas, the enviar-a-c3 gate and the
// region scoping applied to every listing.
type TramiteService struct {
	repo      tramiteRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewTramiteService constructs the lifecycle service.
func NewTramiteService(repo tramiteRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *TramiteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TramiteService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// regionScope resolves the implicit listing filter for the caller. The
// second return is true when the caller is an analista without an assigned
// region: that caller sees an empty result set, not an error.
func regionScope(p *models.Principal) (string, bool) {
	if p == nil || p.Rol != models.RoleAnalista {
		return "", false
	}
	if p.RegionID == nil || *p.RegionID == "" {
		return "", true
	}
	return *p.RegionID, false
}

// Crear registers a new solicitud in phase creacion with a generated folio.
func (s *TramiteService) Crear(ctx context.Context, principal *models.Principal, req dto.CrearSolicitudRequest) (*models.Solicitud, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "solicitud inválida: fecha_solicitud, tipo_oficio_id y municipio_id son obligatorios")
	}

	solicitud := &models.Solicitud{
		TipoOficioID:     req.TipoOficioID,
		MunicipioID:      req.MunicipioID,
		UsuarioID:        principal.UserID,
		NumeroOficio:     req.NumeroOficio,
		Asunto:           req.Asunto,
		CantidadPersonal: req.CantidadPersonal,
		FechaSello:       req.FechaSello,
		FechaRecepcion:   req.FechaRecepcion,
		FechaSolicitud:   *req.FechaSolicitud,
		Observaciones:    req.Observaciones,
	}

	if err := s.repo.CrearSolicitud(ctx, solicitud); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible registrar la solicitud")
	}

	s.metrics.RecordSolicitudCreada()
	s.logger.Info("solicitud creada", zap.String("solicitud_id", solicitud.ID), zap.String("folio", solicitud.Folio))
	return solicitud, nil
}

// RegistrarPersonas inserts the persona batch and advances the solicitud to
// validacion_previa_c5. The whole batch is one transaction.
func (s *TramiteService) RegistrarPersonas(ctx context.Context, principal *models.Principal, solicitudID string, req dto.RegistrarPersonasRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "lote de personas inválido")
	}

	personas := make([]models.Persona, 0, len(req.Personas))
	for _, p := range req.Personas {
		personas = append(personas, models.Persona{
			Nombre:            p.Nombre,
			ApellidoPaterno:   p.ApellidoPaterno,
			ApellidoMaterno:   p.ApellidoMaterno,
			CURP:              p.CURP,
			RFC:               p.RFC,
			Telefono:          p.Telefono,
			PuestoPropuestoID: p.PuestoPropuestoID,
		})
	}

	if err := s.repo.RegistrarPersonas(ctx, solicitudID, personas); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "solicitud no encontrada")
		}
		if errors.Is(err, repository.ErrTransicionInvalida) {
			return appErrors.Clone(appErrors.ErrValidation, "la solicitud ya no admite registro de personal")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible registrar el personal")
	}
	return nil
}

// DictaminarPersona applies the per-persona C5 disposition.
func (s *TramiteService) DictaminarPersona(ctx context.Context, principal *models.Principal, req dto.DictamenPersonaRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "dictamen inválido")
	}
	if !req.Aprobada && req.MotivoRechazoID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "el rechazo requiere motivo_rechazo_id")
	}

	err := s.repo.DictaminarPersona(ctx, repository.DictamenPersonaParams{
		PersonaID:       req.PersonaID,
		Aprobada:        req.Aprobada,
		MotivoRechazoID: req.MotivoRechazoID,
		Observaciones:   req.Observaciones,
		UsuarioID:       principal.UserID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "persona no encontrada")
		}
		if errors.Is(err, repository.ErrTransicionInvalida) {
			return appErrors.Clone(appErrors.ErrValidation, "la persona ya no admite dictamen")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible registrar el dictamen")
	}

	s.metrics.RecordDictamen("c5", req.Aprobada)
	return nil
}

// EnviarAC3 runs the submit gate: the solicitud advances only when every
// persona holds a terminal C5 disposition and at least one survived. On a
// failed gate nothing is mutated and the error reports the exact counts.
func (s *TramiteService) EnviarAC3(ctx context.Context, principal *models.Principal, solicitudID string) (models.ConteoPersonal, error) {
	conteo, avanzado, err := s.repo.EnviarAC3(ctx, solicitudID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConteoPersonal{}, appErrors.Clone(appErrors.ErrNotFound, "solicitud no encontrada")
		}
		if errors.Is(err, repository.ErrTransicionInvalida) {
			return models.ConteoPersonal{}, appErrors.Clone(appErrors.ErrValidation, "la solicitud no admite envío a C3 desde su fase actual")
		}
		return models.ConteoPersonal{}, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible enviar la solicitud a C3")
	}

	s.metrics.RecordEnvioC3(avanzado)
	if !avanzado {
		return conteo, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(
			"personal sin dictamen completo: total=%d, validadas=%d, rechazadas=%d",
			conteo.Total, conteo.Validadas, conteo.Rechazadas))
	}

	s.logger.Info("solicitud enviada a c3",
		zap.String("solicitud_id", solicitudID),
		zap.Int("validadas", conteo.Validadas),
		zap.Int("rechazadas", conteo.Rechazadas))
	return conteo, nil
}

// DictaminarC3 applies the request-level bulk C3 disposition.
func (s *TramiteService) DictaminarC3(ctx context.Context, principal *models.Principal, solicitudID string, req dto.DictamenC3Request) error {
	if !req.Aprobada && req.MotivoRechazoID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "el rechazo requiere motivo_rechazo_id")
	}

	err := s.repo.DictaminarC3(ctx, repository.DictamenC3Params{
		SolicitudID:     solicitudID,
		Aprobada:        req.Aprobada,
		MotivoRechazoID: req.MotivoRechazoID,
		Observaciones:   req.Observaciones,
		UsuarioID:       principal.UserID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "solicitud no encontrada")
		}
		if errors.Is(err, repository.ErrTransicionInvalida) {
			return appErrors.Clone(appErrors.ErrValidation, "la solicitud no está en fase enviado_c3")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible registrar el dictamen de C3")
	}

	s.metrics.RecordDictamen("c3", req.Aprobada)
	return nil
}

// Listar returns solicitudes visible to the caller with pagination metadata.
func (s *TramiteService) Listar(ctx context.Context, principal *models.Principal, filter dto.TramiteFilter) ([]dto.SolicitudItem, *models.Pagination, error) {
	region, vacio := regionScope(principal)
	if vacio {
		return []dto.SolicitudItem{}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 0}, nil
	}
	filter.RegionID = region

	items, total, err := s.repo.ListSolicitudes(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible listar las solicitudes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// PendientesC3 is the C3 inbox: solicitudes currently in fase enviado_c3.
func (s *TramiteService) PendientesC3(ctx context.Context, principal *models.Principal, filter dto.TramiteFilter) ([]dto.SolicitudItem, *models.Pagination, error) {
	filter.Fase = string(models.FaseEnviadoC3)
	return s.Listar(ctx, principal, filter)
}

// ValidadosC3 lists solicitudes already dispositioned by C3.
func (s *TramiteService) ValidadosC3(ctx context.Context, principal *models.Principal, filter dto.TramiteFilter) ([]dto.SolicitudItem, *models.Pagination, error) {
	filter.Fase = string(models.FaseValidadoC3)
	return s.Listar(ctx, principal, filter)
}

// Detalle loads a solicitud with personas and rejection trail, enforcing the
// caller's region scope.
func (s *TramiteService) Detalle(ctx context.Context, principal *models.Principal, id string) (*dto.SolicitudDetalle, error) {
	detalle, err := s.repo.FindDetalle(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "solicitud no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar la solicitud")
	}

	region, vacio := regionScope(principal)
	if vacio || (region != "" && detalle.Solicitud.RegionID != region) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "la solicitud pertenece a otra región")
	}
	return detalle, nil
}

// ExportarCSV renders the caller-visible listing as CSV.
func (s *TramiteService) ExportarCSV(ctx context.Context, principal *models.Principal, filter dto.TramiteFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = 1000
	items, _, err := s.Listar(ctx, principal, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Folio", "Municipio", "Región", "Tipo de oficio", "Fase", "Personal", "Fecha de solicitud"},
	}
	for _, item := range items {
		data.Rows = append(data.Rows, map[string]string{
			"Folio":              item.Folio,
			"Municipio":          item.MunicipioNombre,
			"Región":             item.RegionNombre,
			"Tipo de oficio":     item.TipoOficioNombre,
			"Fase":               string(item.FaseActual),
			"Personal":           fmt.Sprintf("%d", item.CantidadPersonal),
			"Fecha de solicitud": item.FechaSolicitud.Format("2006-01-02"),
		})
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no fue posible generar el CSV")
	}
	return payload, nil
}

// Constancia renders the PDF constancia of a solicitud and its roster.
func (s *TramiteService) Constancia(ctx context.Context, principal *models.Principal, id string) ([]byte, error) {
	detalle, err := s.Detalle(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	fields := []export.ConstanciaField{
		{Label: "Folio", Value: detalle.Solicitud.Folio},
		{Label: "Municipio", Value: detalle.Solicitud.MunicipioNombre},
		{Label: "Región", Value: detalle.Solicitud.RegionNombre},
		{Label: "Tipo de oficio", Value: detalle.Solicitud.TipoOficioNombre},
		{Label: "Fase actual", Value: string(detalle.Solicitud.FaseActual)},
		{Label: "Fecha de solicitud", Value: detalle.Solicitud.FechaSolicitud.Format("2006-01-02")},
		{Label: "Solicitante", Value: detalle.Solicitud.SolicitanteNombre},
	}

	roster := export.Dataset{Headers: []string{"Nombre", "CURP", "Fase"}}
	for _, p := range detalle.Personas {
		roster.Rows = append(roster.Rows, map[string]string{
			"Nombre": fmt.Sprintf("%s %s %s", p.Nombre, p.ApellidoPaterno, p.ApellidoMaterno),
			"CURP":   p.CURP,
			"Fase":   string(p.FaseActual),
		})
	}

	payload, err := s.pdf.RenderConstancia("Constancia de solicitud "+detalle.Solicitud.Folio, fields, roster)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no fue posible generar la constancia")
	}
	return payload, nil
}
