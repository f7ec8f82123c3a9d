package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacc5i/sacc5i-api/internal/dto"
	"github.com/sacc5i/sacc5i-api/internal/models"
	"github.com/sacc5i/sacc5i-api/internal/repository"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
)

type stubTramiteRepo struct {
	crearErr       error
	creada         *models.Solicitud
	registrarErr   error
	dictamenErr    error
	dictamenParams repository.DictamenPersonaParams
	enviarConteo   models.ConteoPersonal
	enviarAvanzado bool
	enviarErr      error
	c3Err          error
	c3Params       repository.DictamenC3Params
	listItems      []dto.SolicitudItem
	listTotal      int
	listErr        error
	listFilter     dto.TramiteFilter
	listLlamado    bool
	detalle        *dto.SolicitudDetalle
	detalleErr     error
}

func (s *stubTramiteRepo) CrearSolicitud(ctx context.Context, sol *models.Solicitud) error {
	if s.crearErr != nil {
		return s.crearErr
	}
	sol.ID = "sol-1"
	sol.Folio = "SACC-2026-000001"
	sol.FaseActual = models.FaseCreacion
	s.creada = sol
	return nil
}

func (s *stubTramiteRepo) FindSolicitudByID(ctx context.Context, id string) (*models.Solicitud, error) {
	return nil, sql.ErrNoRows
}

func (s *stubTramiteRepo) RegistrarPersonas(ctx context.Context, solicitudID string, personas []models.Persona) error {
	return s.registrarErr
}

func (s *stubTramiteRepo) FindPersonaByID(ctx context.Context, id string) (*models.Persona, error) {
	return nil, sql.ErrNoRows
}

func (s *stubTramiteRepo) DictaminarPersona(ctx context.Context, params repository.DictamenPersonaParams) error {
	s.dictamenParams = params
	return s.dictamenErr
}

func (s *stubTramiteRepo) EnviarAC3(ctx context.Context, solicitudID string) (models.ConteoPersonal, bool, error) {
	return s.enviarConteo, s.enviarAvanzado, s.enviarErr
}

func (s *stubTramiteRepo) DictaminarC3(ctx context.Context, params repository.DictamenC3Params) error {
	s.c3Params = params
	return s.c3Err
}

func (s *stubTramiteRepo) ListSolicitudes(ctx context.Context, filter dto.TramiteFilter) ([]dto.SolicitudItem, int, error) {
	s.listLlamado = true
	s.listFilter = filter
	return s.listItems, s.listTotal, s.listErr
}

func (s *stubTramiteRepo) FindDetalle(ctx context.Context, id string) (*dto.SolicitudDetalle, error) {
	if s.detalleErr != nil {
		return nil, s.detalleErr
	}
	return s.detalle, nil
}

func analista(region string) *models.Principal {
	p := &models.Principal{UserID: "user-1", Rol: models.RoleAnalista}
	if region != "" {
		p.RegionID = &region
	}
	return p
}

func fechaSolicitud() *time.Time {
	f := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	return &f
}

func TestCrearSolicitudAsignaFolioYUsuario(t *testing.T) {
	repo := &stubTramiteRepo{}
	svc := NewTramiteService(repo, nil, nil, nil)

	sol, err := svc.Crear(context.Background(), analista("reg-1"), dto.CrearSolicitudRequest{
		TipoOficioID:   "tipo-1",
		MunicipioID:    "mun-1",
		FechaSolicitud: fechaSolicitud(),
	})
	require.NoError(t, err)
	assert.Equal(t, "SACC-2026-000001", sol.Folio)
	assert.Equal(t, "user-1", sol.UsuarioID)
	assert.Equal(t, models.FaseCreacion, sol.FaseActual)
}

func TestCrearSolicitudSinFechaFalla(t *testing.T) {
	svc := NewTramiteService(&stubTramiteRepo{}, nil, nil, nil)

	_, err := svc.Crear(context.Background(), analista("reg-1"), dto.CrearSolicitudRequest{
		TipoOficioID: "tipo-1",
		MunicipioID:  "mun-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDictaminarPersonaRechazoSinMotivoFalla(t *testing.T) {
	svc := NewTramiteService(&stubTramiteRepo{}, nil, nil, nil)

	err := svc.DictaminarPersona(context.Background(), analista("reg-1"), dto.DictamenPersonaRequest{
		PersonaID: "per-1",
		Aprobada:  false,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDictaminarPersonaPropagaElUsuario(t *testing.T) {
	repo := &stubTramiteRepo{}
	svc := NewTramiteService(repo, nil, nil, nil)

	err := svc.DictaminarPersona(context.Background(), analista("reg-1"), dto.DictamenPersonaRequest{
		PersonaID:       "per-1",
		Aprobada:        false,
		MotivoRechazoID: "mot-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", repo.dictamenParams.UsuarioID)
	assert.Equal(t, "mot-1", repo.dictamenParams.MotivoRechazoID)
}

func TestEnviarAC3GateInsatisfechoReportaConteos(t *testing.T) {
	repo := &stubTramiteRepo{
		enviarConteo:   models.ConteoPersonal{Total: 3, Validadas: 2, Rechazadas: 0},
		enviarAvanzado: false,
	}
	svc := NewTramiteService(repo, nil, nil, nil)

	conteo, err := svc.EnviarAC3(context.Background(), analista("reg-1"), "sol-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "total=3")
	assert.Contains(t, appErr.Message, "validadas=2")
	assert.Contains(t, appErr.Message, "rechazadas=0")
	assert.Equal(t, 3, conteo.Total)
}

func TestEnviarAC3FaseInvalidaSeMapeaAValidacion(t *testing.T) {
	repo := &stubTramiteRepo{enviarErr: repository.ErrTransicionInvalida}
	svc := NewTramiteService(repo, nil, nil, nil)

	_, err := svc.EnviarAC3(context.Background(), analista("reg-1"), "sol-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnviarAC3SolicitudInexistente(t *testing.T) {
	repo := &stubTramiteRepo{enviarErr: sql.ErrNoRows}
	svc := NewTramiteService(repo, nil, nil, nil)

	_, err := svc.EnviarAC3(context.Background(), analista("reg-1"), "sol-x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDictaminarC3RechazoSinMotivoFalla(t *testing.T) {
	svc := NewTramiteService(&stubTramiteRepo{}, nil, nil, nil)

	err := svc.DictaminarC3(context.Background(), analista("reg-1"), "sol-1", dto.DictamenC3Request{Aprobada: false})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListarAnalistaFiltraPorSuRegion(t *testing.T) {
	repo := &stubTramiteRepo{listItems: []dto.SolicitudItem{}, listTotal: 0}
	svc := NewTramiteService(repo, nil, nil, nil)

	_, _, err := svc.Listar(context.Background(), analista("reg-7"), dto.TramiteFilter{})
	require.NoError(t, err)
	assert.Equal(t, "reg-7", repo.listFilter.RegionID)
}

func TestListarAnalistaSinRegionDevuelveVacio(t *testing.T) {
	repo := &stubTramiteRepo{}
	svc := NewTramiteService(repo, nil, nil, nil)

	items, pagination, err := svc.Listar(context.Background(), analista(""), dto.TramiteFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, pagination.TotalCount)
	assert.False(t, repo.listLlamado, "el repositorio no debe consultarse")
}

func TestListarValidadorC3NoSeFiltrarPorRegion(t *testing.T) {
	repo := &stubTramiteRepo{}
	svc := NewTramiteService(repo, nil, nil, nil)

	principal := &models.Principal{UserID: "c3-1", Rol: models.RoleValidadorC3}
	_, _, err := svc.PendientesC3(context.Background(), principal, dto.TramiteFilter{})
	require.NoError(t, err)
	assert.Empty(t, repo.listFilter.RegionID)
	assert.Equal(t, string(models.FaseEnviadoC3), repo.listFilter.Fase)
}

func TestDetalleDeOtraRegionEsProhibido(t *testing.T) {
	repo := &stubTramiteRepo{detalle: &dto.SolicitudDetalle{
		Solicitud: dto.SolicitudItem{RegionID: "reg-2"},
	}}
	svc := NewTramiteService(repo, nil, nil, nil)

	_, err := svc.Detalle(context.Background(), analista("reg-1"), "sol-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestDetalleMismaRegion(t *testing.T) {
	repo := &stubTramiteRepo{detalle: &dto.SolicitudDetalle{
		Solicitud: dto.SolicitudItem{RegionID: "reg-1"},
		Conteo:    models.ConteoPersonal{Total: 2, Validadas: 2},
	}}
	svc := NewTramiteService(repo, nil, nil, nil)

	detalle, err := svc.Detalle(context.Background(), analista("reg-1"), "sol-1")
	require.NoError(t, err)
	assert.Equal(t, 2, detalle.Conteo.Validadas)
}

func TestDetalleInexistente(t *testing.T) {
	repo := &stubTramiteRepo{detalleErr: sql.ErrNoRows}
	svc := NewTramiteService(repo, nil, nil, nil)

	_, err := svc.Detalle(context.Background(), analista("reg-1"), "sol-x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportarCSVIncluyeEncabezadosYFilas(t *testing.T) {
	repo := &stubTramiteRepo{listItems: []dto.SolicitudItem{
		{
			Solicitud: models.Solicitud{
				Folio:            "SACC-2026-000004",
				FaseActual:       models.FaseEnProceso,
				CantidadPersonal: 5,
				FechaSolicitud:   time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			},
			MunicipioNombre: "Pachuca",
			RegionNombre:    "Centro",
		},
	}, listTotal: 1}
	svc := NewTramiteService(repo, nil, nil, nil)

	payload, err := svc.ExportarCSV(context.Background(), analista("reg-1"), dto.TramiteFilter{})
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Folio")
	assert.Contains(t, string(payload), "SACC-2026-000004")
	assert.Contains(t, string(payload), "Pachuca")
}
