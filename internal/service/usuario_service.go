package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sacc5i/sacc5i-api/internal/dto"
	"github.com/sacc5i/sacc5i-api/internal/models"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
)

// DefaultPassword is assigned to accounts created without an explicit
// password. Such accounts keep password_cambiado=false until they rotate it.
const DefaultPassword = "Sacc5i.2026"

type usuarioRepository interface {
	FindByID(ctx context.Context, id string) (*models.Usuario, error)
	ExistsByUsuario(ctx context.Context, handle string, excludeID string) (bool, error)
	Create(ctx context.Context, u *models.Usuario) error
	Update(ctx context.Context, u *models.Usuario) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, int, error)
}

// UsuarioService implements the admin account operations.
type UsuarioService struct {
	repo      usuarioRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUsuarioService constructs the account administration service.
func NewUsuarioService(repo usuarioRepository, validate *validator.Validate, logger *zap.Logger) *UsuarioService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsuarioService{repo: repo, validator: validate, logger: logger}
}

// Crear registers a new account. The usuario handle must be unique and
// analista accounts must carry a region.
func (s *UsuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*models.Usuario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "datos de usuario inválidos")
	}
	if models.UserRole(req.Rol) == models.RoleAnalista && (req.RegionID == nil || *req.RegionID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "los analistas requieren región asignada")
	}

	exists, err := s.repo.ExistsByUsuario(ctx, req.Usuario, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible verificar el usuario")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "el usuario ya existe")
	}

	password := req.Password
	cambiado := true
	if password == "" {
		password = DefaultPassword
		cambiado = false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no fue posible cifrar la contraseña")
	}

	usuario := &models.Usuario{
		Nombre:           req.Nombre,
		Usuario:          req.Usuario,
		PasswordHash:     string(hash),
		Rol:              models.UserRole(req.Rol),
		RegionID:         req.RegionID,
		Activo:           true,
		PasswordCambiado: cambiado,
	}
	if err := s.repo.Create(ctx, usuario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible crear el usuario")
	}

	s.logger.Info("usuario creado", zap.String("usuario_id", usuario.ID), zap.String("rol", req.Rol))
	return usuario, nil
}

// Actualizar modifies an existing account's profile, role and status.
func (s *UsuarioService) Actualizar(ctx context.Context, id string, req dto.ActualizarUsuarioRequest) (*models.Usuario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "datos de usuario inválidos")
	}
	if models.UserRole(req.Rol) == models.RoleAnalista && (req.RegionID == nil || *req.RegionID == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "los analistas requieren región asignada")
	}

	usuario, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar el usuario")
	}

	usuario.Nombre = req.Nombre
	usuario.Rol = models.UserRole(req.Rol)
	usuario.RegionID = req.RegionID
	if req.Activo != nil {
		usuario.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible actualizar el usuario")
	}
	return usuario, nil
}

// Desactivar soft-disables an account. Deactivated accounts cannot log in
// and existing tokens stop resolving to a principal.
func (s *UsuarioService) Desactivar(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible desactivar el usuario")
	}
	return nil
}

// Obtener returns one account by id.
func (s *UsuarioService) Obtener(ctx context.Context, id string) (*models.Usuario, error) {
	usuario, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar el usuario")
	}
	return usuario, nil
}

// Listar returns accounts matching the filter with pagination metadata.
func (s *UsuarioService) Listar(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, *models.Pagination, error) {
	usuarios, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible listar los usuarios")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return usuarios, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
