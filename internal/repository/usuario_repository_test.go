package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sacc5i/sacc5i-api/internal/models"
)

func newUsuarioRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func usuarioRows(id, handle string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nombre", "usuario", "password_hash", "rol", "region_id", "activo", "password_cambiado", "ultimo_acceso", "created_at", "updated_at"}).
		AddRow(id, "Ana García", handle, "$2a$10$hash", "analista", "reg-1", true, true, nil, time.Now(), time.Now())
}

func TestUsuarioFindByUsuario(t *testing.T) {
	db, mock, cleanup := newUsuarioRepoMock(t)
	defer cleanup()

	repo := NewUsuarioRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE usuario = $1")).
		WithArgs("agarcia").
		WillReturnRows(usuarioRows("user-1", "agarcia"))

	u, err := repo.FindByUsuario(context.Background(), "agarcia")
	require.NoError(t, err)
	require.Equal(t, "user-1", u.ID)
	require.Equal(t, models.RoleAnalista, u.Rol)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsuarioExistsByUsuarioExcluyeID(t *testing.T) {
	db, mock, cleanup := newUsuarioRepoMock(t)
	defer cleanup()

	repo := NewUsuarioRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM usuarios WHERE usuario = $1 AND id <> $2")).
		WithArgs("agarcia", "user-1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByUsuario(context.Background(), "agarcia", "user-1")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsuarioCreateGeneraID(t *testing.T) {
	db, mock, cleanup := newUsuarioRepoMock(t)
	defer cleanup()

	repo := NewUsuarioRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO usuarios")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	u := &models.Usuario{Nombre: "Ana", Usuario: "agarcia", Rol: models.RoleAnalista}
	require.NoError(t, repo.Create(context.Background(), u))
	require.NotEmpty(t, u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsuarioUpdatePasswordMarcaCambio(t *testing.T) {
	db, mock, cleanup := newUsuarioRepoMock(t)
	defer cleanup()

	repo := NewUsuarioRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE usuarios SET password_hash = $2, password_cambiado = true")).
		WithArgs("user-1", "nuevo-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), "user-1", "nuevo-hash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsuarioListFiltraPorRol(t *testing.T) {
	db, mock, cleanup := newUsuarioRepoMock(t)
	defer cleanup()

	repo := NewUsuarioRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE 1=1 AND rol = $1")).
		WithArgs("analista").
		WillReturnRows(usuarioRows("user-1", "agarcia"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM usuarios WHERE 1=1 AND rol = $1")).
		WithArgs("analista").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rol := models.RoleAnalista
	usuarios, total, err := repo.List(context.Background(), models.UsuarioFilter{Rol: &rol})
	require.NoError(t, err)
	require.Len(t, usuarios, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
