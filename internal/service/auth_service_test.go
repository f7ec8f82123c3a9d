package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sacc5i/sacc5i-api/internal/models"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
)

type stubAuthRepo struct {
	usuario      *models.Usuario
	passwordHash string
}

func (s *stubAuthRepo) FindByUsuario(ctx context.Context, handle string) (*models.Usuario, error) {
	if s.usuario == nil || s.usuario.Usuario != handle {
		return nil, sql.ErrNoRows
	}
	return s.usuario, nil
}

func (s *stubAuthRepo) FindByID(ctx context.Context, id string) (*models.Usuario, error) {
	if s.usuario == nil || s.usuario.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.usuario, nil
}

func (s *stubAuthRepo) UpdateUltimoAcceso(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (s *stubAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	s.passwordHash = passwordHash
	return nil
}

func (s *stubAuthRepo) UpdateNombre(ctx context.Context, id, nombre string) error {
	s.usuario.Nombre = nombre
	return nil
}

func newAuthFixture(t *testing.T, activo bool) (*AuthService, *stubAuthRepo) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	region := "reg-1"
	repo := &stubAuthRepo{usuario: &models.Usuario{
		ID:           "user-1",
		Nombre:       "Ana García",
		Usuario:      "agarcia",
		PasswordHash: string(hash),
		Rol:          models.RoleAnalista,
		RegionID:     &region,
		Activo:       activo,
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "sacc5i",
	})
	return svc, repo
}

func TestLoginEmiteTokenValido(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	res, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "agarcia", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "user-1", res.Usuario.ID)
	assert.Equal(t, models.RoleAnalista, res.Usuario.Rol)

	userID, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "agarcia", Password: "otra"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUsuarioDesconocido(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "nadie", Password: "secreto123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginCuentaInactiva(t *testing.T) {
	svc, _ := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "agarcia", Password: "secreto123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRechazaBasura(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	_, err := svc.ValidateToken("no-es-un-jwt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestResolvePrincipalLeeRolYRegionDeAlmacen(t *testing.T) {
	svc, repo := newAuthFixture(t, true)

	principal, err := svc.ResolvePrincipal(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAnalista, principal.Rol)
	require.NotNil(t, principal.RegionID)
	assert.Equal(t, "reg-1", *principal.RegionID)

	// A role change applies on the next resolution without reissuing tokens.
	repo.usuario.Rol = models.RoleAdmin
	principal, err = svc.ResolvePrincipal(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Rol)
}

func TestResolvePrincipalCuentaDesactivada(t *testing.T) {
	svc, repo := newAuthFixture(t, true)
	repo.usuario.Activo = false

	_, err := svc.ResolvePrincipal(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordVerificaLaActual(t *testing.T) {
	svc, repo := newAuthFixture(t, true)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		PasswordActual: "equivocada",
		PasswordNuevo:  "nuevaClave99",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.passwordHash)

	err = svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		PasswordActual: "secreto123",
		PasswordNuevo:  "nuevaClave99",
	})
	require.NoError(t, err)
	require.NotEmpty(t, repo.passwordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwordHash), []byte("nuevaClave99")))
}
