package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sacc5i/sacc5i-api/internal/models"
)

func newTramiteRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCrearSolicitudGeneraFolioConsecutivo(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO folios")).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"consecutivo"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO solicitudes")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := &models.Solicitud{
		TipoOficioID:   "tipo-1",
		MunicipioID:    "mun-1",
		UsuarioID:      "user-1",
		FechaSolicitud: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CrearSolicitud(context.Background(), s))
	require.Equal(t, "SACC-2026-000007", s.Folio)
	require.Equal(t, models.FaseCreacion, s.FaseActual)
	require.NotEmpty(t, s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCrearSolicitudRuedaElAnio(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	// A new year starts its own counter row back at 1.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO folios")).
		WithArgs(2027).
		WillReturnRows(sqlmock.NewRows([]string{"consecutivo"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO solicitudes")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := &models.Solicitud{
		TipoOficioID:   "tipo-1",
		MunicipioID:    "mun-1",
		UsuarioID:      "user-1",
		FechaSolicitud: time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CrearSolicitud(context.Background(), s))
	require.Equal(t, "SACC-2027-000001", s.Folio)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrarPersonasAvanzaLaSolicitud(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("creacion"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO personas")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO personas")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE solicitudes SET fase_actual = $2")).
		WithArgs("sol-1", string(models.FaseValidacionPreviaC5), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	personas := []models.Persona{
		{Nombre: "Ana", ApellidoPaterno: "García", CURP: "GAAA900101MDFRNN01"},
		{Nombre: "Luis", ApellidoPaterno: "Pérez", CURP: "PELU910202HDFRRS02"},
	}
	require.NoError(t, repo.RegistrarPersonas(context.Background(), "sol-1", personas))
	require.Equal(t, models.FasePersonaCapturado, personas[0].FaseActual)
	require.Equal(t, "sol-1", personas[1].SolicitudID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrarPersonasEnFaseTardiaFalla(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("enviado_c3"))
	mock.ExpectRollback()

	err := repo.RegistrarPersonas(context.Background(), "sol-1", []models.Persona{{Nombre: "Ana"}})
	require.ErrorIs(t, err, ErrTransicionInvalida)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDictaminarPersonaRechazoInsertaAuditoria(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT solicitud_id, fase_actual FROM personas WHERE id = $1 FOR UPDATE")).
		WithArgs("per-1").
		WillReturnRows(sqlmock.NewRows([]string{"solicitud_id", "fase_actual"}).AddRow("sol-1", "capturado"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE personas SET rechazado = true")).
		WithArgs("per-1", string(models.FasePersonaRechazado), "mot-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rechazos")).
		WithArgs(sqlmock.AnyArg(), "sol-1", "per-1", "mot-1", "capturado", "sin antecedentes", "user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.DictaminarPersona(context.Background(), DictamenPersonaParams{
		PersonaID:       "per-1",
		Aprobada:        false,
		MotivoRechazoID: "mot-1",
		Observaciones:   "sin antecedentes",
		UsuarioID:       "user-1",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDictaminarPersonaDobleRechazoRegistraOtraAuditoria(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	// The persona is already rejected; the phase stays put but a second audit
	// row still lands.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT solicitud_id, fase_actual FROM personas WHERE id = $1 FOR UPDATE")).
		WithArgs("per-1").
		WillReturnRows(sqlmock.NewRows([]string{"solicitud_id", "fase_actual"}).AddRow("sol-1", "rechazado"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE personas SET rechazado = true")).
		WithArgs("per-1", string(models.FasePersonaRechazado), "mot-2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rechazos")).
		WithArgs(sqlmock.AnyArg(), "sol-1", "per-1", "mot-2", "rechazado", "", "user-2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.DictaminarPersona(context.Background(), DictamenPersonaParams{
		PersonaID:       "per-1",
		Aprobada:        false,
		MotivoRechazoID: "mot-2",
		UsuarioID:       "user-2",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDictaminarPersonaAprobadaEnFaseTerminalFalla(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT solicitud_id, fase_actual FROM personas WHERE id = $1 FOR UPDATE")).
		WithArgs("per-1").
		WillReturnRows(sqlmock.NewRows([]string{"solicitud_id", "fase_actual"}).AddRow("sol-1", "rechazado"))
	mock.ExpectRollback()

	err := repo.DictaminarPersona(context.Background(), DictamenPersonaParams{PersonaID: "per-1", Aprobada: true})
	require.ErrorIs(t, err, ErrTransicionInvalida)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnviarAC3GateInsatisfechoNoMuta(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("validacion_previa_c5"))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE validado_c5)")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "validadas", "rechazadas"}).AddRow(3, 2, 0))
	mock.ExpectRollback()

	conteo, avanzado, err := repo.EnviarAC3(context.Background(), "sol-1")
	require.NoError(t, err)
	require.False(t, avanzado)
	require.Equal(t, models.ConteoPersonal{Total: 3, Validadas: 2, Rechazadas: 0}, conteo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnviarAC3AvanzaSolicitudYSobrevivientes(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("validacion_previa_c5"))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE validado_c5)")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "validadas", "rechazadas"}).AddRow(3, 2, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE solicitudes SET fase_actual = $2")).
		WithArgs("sol-1", string(models.FaseEnviadoC3), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE personas SET fase_actual = $2")).
		WithArgs("sol-1", string(models.FasePersonaEnviadoC3), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	conteo, avanzado, err := repo.EnviarAC3(context.Background(), "sol-1")
	require.NoError(t, err)
	require.True(t, avanzado)
	require.Equal(t, 2, conteo.Validadas)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnviarAC3DesdeFaseInvalidaFalla(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("validado_c3"))
	mock.ExpectRollback()

	_, avanzado, err := repo.EnviarAC3(context.Background(), "sol-1")
	require.ErrorIs(t, err, ErrTransicionInvalida)
	require.False(t, avanzado)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDictaminarC3AprobadoAvanzaLaCohorte(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("enviado_c3"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE solicitudes SET fase_actual = $2, validado_c3 = true")).
		WithArgs("sol-1", string(models.FaseValidadoC3), sqlmock.AnyArg(), "procede").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE personas SET validado_c3 = true")).
		WithArgs("sol-1", string(models.FasePersonaValidadoC3), sqlmock.AnyArg(), string(models.FasePersonaEnviadoC3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.DictaminarC3(context.Background(), DictamenC3Params{
		SolicitudID:   "sol-1",
		Aprobada:      true,
		Observaciones: "procede",
		UsuarioID:     "c3-1",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDictaminarC3RechazoRegistraUnaSolaAuditoria(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	// The rejection audit is a single request-level row with persona_id NULL,
	// not one row per persona.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("enviado_c3"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE solicitudes SET fase_actual = $2, fecha_dictamen_c3 = $3")).
		WithArgs("sol-1", string(models.FaseRechazado), sqlmock.AnyArg(), "no procede").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE personas SET rechazado = true")).
		WithArgs("sol-1", string(models.FasePersonaRechazado), sqlmock.AnyArg(), string(models.FasePersonaEnviadoC3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rechazos")).
		WithArgs(sqlmock.AnyArg(), "sol-1", "mot-3", "enviado_c3", "no procede", "c3-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.DictaminarC3(context.Background(), DictamenC3Params{
		SolicitudID:     "sol-1",
		Aprobada:        false,
		MotivoRechazoID: "mot-3",
		Observaciones:   "no procede",
		UsuarioID:       "c3-1",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDictaminarC3FueraDeFaseFalla(t *testing.T) {
	db, mock, cleanup := newTramiteRepoMock(t)
	defer cleanup()

	repo := NewTramiteRepository(db, "SACC")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT fase_actual FROM solicitudes WHERE id = $1 FOR UPDATE")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"fase_actual"}).AddRow("creacion"))
	mock.ExpectRollback()

	err := repo.DictaminarC3(context.Background(), DictamenC3Params{SolicitudID: "sol-1", Aprobada: true})
	require.ErrorIs(t, err, ErrTransicionInvalida)
	require.NoError(t, mock.ExpectationsWereMet())
}
