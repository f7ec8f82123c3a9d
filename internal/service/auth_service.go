package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sacc5i/sacc5i-api/internal/models"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
)

type authUsuarioRepository interface {
	FindByUsuario(ctx context.Context, handle string) (*models.Usuario, error)
	FindByID(ctx context.Context, id string) (*models.Usuario, error)
	UpdateUltimoAcceso(ctx context.Context, id string, ts time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateNombre(ctx context.Context, id, nombre string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService provides authentication use cases. The issued token carries
// only the user id; role and region are re-read from storage per request.
type AuthService struct {
	repo      authUsuarioRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUsuarioRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Login authenticates a user and returns the issued token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "credenciales incompletas")
	}

	user, err := s.repo.FindByUsuario(ctx, req.Usuario)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar el usuario")
	}

	if !user.Activo {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, issuedAt, err := s.generateToken(user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no fue posible emitir el token")
	}

	if err := s.repo.UpdateUltimoAcceso(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update ultimo acceso", zap.Error(err))
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Usuario: models.UsuarioInfo{
			ID:       user.ID,
			Nombre:   user.Nombre,
			Usuario:  user.Usuario,
			Rol:      user.Rol,
			RegionID: user.RegionID,
		},
	}, nil
}

// ValidateToken parses an access token and returns the encoded user id.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "token inválido")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "token inválido")
	}

	return claims.UserID, nil
}

// ResolvePrincipal loads the caller identity for the given user id. Role and
// region come from storage, never from the token, so permission changes take
// effect on the next request.
func (s *AuthService) ResolvePrincipal(ctx context.Context, userID string) (*models.Principal, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "el usuario ya no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar el usuario")
	}
	if !user.Activo {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "")
	}
	return &models.Principal{
		UserID:   user.ID,
		Nombre:   user.Nombre,
		Usuario:  user.Usuario,
		Rol:      user.Rol,
		RegionID: user.RegionID,
	}, nil
}

// Profile returns the caller's own profile.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.UsuarioInfo, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar el usuario")
	}
	return &models.UsuarioInfo{
		ID:       user.ID,
		Nombre:   user.Nombre,
		Usuario:  user.Usuario,
		Rol:      user.Rol,
		RegionID: user.RegionID,
	}, nil
}

// UpdateProfile updates the caller's own display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UsuarioInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "perfil inválido")
	}
	if err := s.repo.UpdateNombre(ctx, userID, req.Nombre); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible actualizar el perfil")
	}
	return s.Profile(ctx, userID)
}

// ChangePassword verifies the current password and stores the new hash,
// flipping password_cambiado.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "contraseña inválida")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar el usuario")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordActual)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "la contraseña actual no coincide")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNuevo), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no fue posible generar el hash")
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible actualizar la contraseña")
	}

	return nil
}

func (s *AuthService) generateToken(userID string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
