package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sacc5i/sacc5i-api/internal/models"
)

// CatalogoRepository reads the static reference catalogs. All catalogs are
// read-only at runtime; seeding happens at deployment time.
type CatalogoRepository struct {
	db *sqlx.DB
}

// NewCatalogoRepository constructs a CatalogoRepository.
func NewCatalogoRepository(db *sqlx.DB) *CatalogoRepository {
	return &CatalogoRepository{db: db}
}

// Regiones returns all regions ordered by name.
func (r *CatalogoRepository) Regiones(ctx context.Context) ([]models.Region, error) {
	const query = `SELECT id, nombre FROM regiones ORDER BY nombre`
	var items []models.Region
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list regiones: %w", err)
	}
	return items, nil
}

// Municipios returns municipios, optionally scoped to a region.
func (r *CatalogoRepository) Municipios(ctx context.Context, regionID string) ([]models.Municipio, error) {
	query := `SELECT id, nombre, region_id FROM municipios`
	var args []interface{}
	if regionID != "" {
		query += ` WHERE region_id = $1`
		args = append(args, regionID)
	}
	query += ` ORDER BY nombre`
	var items []models.Municipio
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list municipios: %w", err)
	}
	return items, nil
}

// TiposOficio returns the office-type catalog.
func (r *CatalogoRepository) TiposOficio(ctx context.Context) ([]models.TipoOficio, error) {
	const query = `SELECT id, nombre FROM tipos_oficio ORDER BY nombre`
	var items []models.TipoOficio
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list tipos oficio: %w", err)
	}
	return items, nil
}

// MotivosRechazo returns rejection reasons, optionally scoped to a category.
func (r *CatalogoRepository) MotivosRechazo(ctx context.Context, categoria string) ([]models.MotivoRechazo, error) {
	query := `SELECT id, nombre, categoria FROM motivos_rechazo`
	var args []interface{}
	if categoria != "" {
		query += ` WHERE categoria = $1`
		args = append(args, categoria)
	}
	query += ` ORDER BY categoria, nombre`
	var items []models.MotivoRechazo
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list motivos rechazo: %w", err)
	}
	return items, nil
}

// Estatus returns the coarse-grained status catalog.
func (r *CatalogoRepository) Estatus(ctx context.Context) ([]models.Estatus, error) {
	const query = `SELECT id, clave, nombre, es_default FROM estatus ORDER BY nombre`
	var items []models.Estatus
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list estatus: %w", err)
	}
	return items, nil
}

// PuestosPropuestos returns the proposed-role catalog.
func (r *CatalogoRepository) PuestosPropuestos(ctx context.Context) ([]models.PuestoPropuesto, error) {
	const query = `SELECT id, nombre FROM puestos_propuestos ORDER BY nombre`
	var items []models.PuestoPropuesto
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list puestos propuestos: %w", err)
	}
	return items, nil
}
