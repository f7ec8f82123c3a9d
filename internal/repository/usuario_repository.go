package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sacc5i/sacc5i-api/internal/models"
)

// UsuarioRepository provides database access for user management.
type UsuarioRepository struct {
	db *sqlx.DB
}

// NewUsuarioRepository creates a new instance of UsuarioRepository.
func NewUsuarioRepository(db *sqlx.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

const usuarioColumns = `id, nombre, usuario, password_hash, rol, region_id, activo, password_cambiado, ultimo_acceso, created_at, updated_at`

// FindByUsuario returns a user by login handle.
func (r *UsuarioRepository) FindByUsuario(ctx context.Context, handle string) (*models.Usuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE usuario = $1 LIMIT 1`, usuarioColumns)
	var u models.Usuario
	if err := r.db.GetContext(ctx, &u, query, handle); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find usuario by handle: %w", err)
	}
	return &u, nil
}

// FindByID returns a user by identifier.
func (r *UsuarioRepository) FindByID(ctx context.Context, id string) (*models.Usuario, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE id = $1 LIMIT 1`, usuarioColumns)
	var u models.Usuario
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find usuario by id: %w", err)
	}
	return &u, nil
}

// ExistsByUsuario checks whether a login handle is taken, optionally
// excluding an id.
func (r *UsuarioRepository) ExistsByUsuario(ctx context.Context, handle string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM usuarios WHERE usuario = $1"
	args := []interface{}{handle}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check usuario handle: %w", err)
	}
	return true, nil
}

// Create inserts a new user record.
func (r *UsuarioRepository) Create(ctx context.Context, u *models.Usuario) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	const query = `INSERT INTO usuarios (id, nombre, usuario, password_hash, rol, region_id, activo, password_cambiado, created_at, updated_at)
VALUES (:id, :nombre, :usuario, :password_hash, :rol, :region_id, :activo, :password_cambiado, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("create usuario: %w", err)
	}
	return nil
}

// Update modifies an existing user.
func (r *UsuarioRepository) Update(ctx context.Context, u *models.Usuario) error {
	u.UpdatedAt = time.Now().UTC()
	const query = `UPDATE usuarios SET nombre = :nombre, usuario = :usuario, rol = :rol, region_id = :region_id,
activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("update usuario: %w", err)
	}
	return nil
}

// UpdateNombre updates the display name on the caller's own profile.
func (r *UsuarioRepository) UpdateNombre(ctx context.Context, id, nombre string) error {
	const query = `UPDATE usuarios SET nombre = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, nombre, time.Now().UTC()); err != nil {
		return fmt.Errorf("update nombre: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash and marks the password changed.
func (r *UsuarioRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE usuarios SET password_hash = $2, password_cambiado = true, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateUltimoAcceso records the last successful login timestamp.
func (r *UsuarioRepository) UpdateUltimoAcceso(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE usuarios SET ultimo_acceso = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts, ts); err != nil {
		return fmt.Errorf("update ultimo acceso: %w", err)
	}
	return nil
}

// Deactivate marks a user inactive.
func (r *UsuarioRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE usuarios SET activo = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate usuario: %w", err)
	}
	return nil
}

// List returns users based on filters with total count.
func (r *UsuarioRepository) List(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, int, error) {
	baseQuery := `FROM usuarios WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Rol != nil {
		conditions = append(conditions, fmt.Sprintf("rol = $%d", len(args)+1))
		args = append(args, *filter.Rol)
	}
	if filter.Activo != nil {
		conditions = append(conditions, fmt.Sprintf("activo = $%d", len(args)+1))
		args = append(args, *filter.Activo)
	}
	if filter.RegionID != "" {
		conditions = append(conditions, fmt.Sprintf("region_id = $%d", len(args)+1))
		args = append(args, filter.RegionID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(usuario) LIKE $%d OR LOWER(nombre) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"usuario":    true,
		"nombre":     true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", usuarioColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var usuarios []models.Usuario
	if err := r.db.SelectContext(ctx, &usuarios, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list usuarios: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count usuarios: %w", err)
	}
	return usuarios, total, nil
}

// CrearBitacora appends an access-log entry.
func (r *UsuarioRepository) CrearBitacora(ctx context.Context, b *models.Bitacora) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO bitacora (id, usuario_id, accion, recurso, detalle, ip, user_agent, created_at)
VALUES (:id, :usuario_id, :accion, :recurso, :detalle, :ip, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return fmt.Errorf("crear bitacora: %w", err)
	}
	return nil
}
