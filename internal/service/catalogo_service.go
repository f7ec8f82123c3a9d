package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sacc5i/sacc5i-api/internal/models"
	appErrors "github.com/sacc5i/sacc5i-api/pkg/errors"
)

type catalogoRepository interface {
	Regiones(ctx context.Context) ([]models.Region, error)
	Municipios(ctx context.Context, regionID string) ([]models.Municipio, error)
	TiposOficio(ctx context.Context) ([]models.TipoOficio, error)
	MotivosRechazo(ctx context.Context, categoria string) ([]models.MotivoRechazo, error)
	Estatus(ctx context.Context) ([]models.Estatus, error)
	PuestosPropuestos(ctx context.Context) ([]models.PuestoPropuesto, error)
}

type catalogoCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CatalogoService serves the reference catalogs. Catalogs change rarely, so
// lookups are cached in Redis under a short TTL when a cache is configured.
type CatalogoService struct {
	repo    catalogoRepository
	cache   catalogoCache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *MetricsService
}

// NewCatalogoService constructs the catalog service. cache may be nil, in
// which case every lookup goes straight to storage.
func NewCatalogoService(repo catalogoRepository, cache catalogoCache, ttl time.Duration, logger *zap.Logger, metrics *MetricsService) *CatalogoService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogoService{repo: repo, cache: cache, ttl: ttl, logger: logger, metrics: metrics}
}

// lookup resolves a catalog through the cache, falling back to load on miss.
// Cache failures degrade to storage, they never fail the request.
func lookup[T any](ctx context.Context, s *CatalogoService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var cached []T
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	items, err := load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "no fue posible consultar el catálogo")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
			s.logger.Warn("no se pudo cachear el catálogo", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

// Regiones returns every region.
func (s *CatalogoService) Regiones(ctx context.Context) ([]models.Region, error) {
	return lookup(ctx, s, "catalogo:regiones", s.repo.Regiones)
}

// Municipios returns municipios, optionally filtered by region.
func (s *CatalogoService) Municipios(ctx context.Context, regionID string) ([]models.Municipio, error) {
	key := "catalogo:municipios"
	if regionID != "" {
		key += ":" + regionID
	}
	return lookup(ctx, s, key, func(ctx context.Context) ([]models.Municipio, error) {
		return s.repo.Municipios(ctx, regionID)
	})
}

// TiposOficio returns the oficio type catalog.
func (s *CatalogoService) TiposOficio(ctx context.Context) ([]models.TipoOficio, error) {
	return lookup(ctx, s, "catalogo:tipos_oficio", s.repo.TiposOficio)
}

// MotivosRechazo returns rejection reasons, optionally filtered by category.
func (s *CatalogoService) MotivosRechazo(ctx context.Context, categoria string) ([]models.MotivoRechazo, error) {
	key := "catalogo:motivos_rechazo"
	if categoria != "" {
		key += ":" + categoria
	}
	return lookup(ctx, s, key, func(ctx context.Context) ([]models.MotivoRechazo, error) {
		return s.repo.MotivosRechazo(ctx, categoria)
	})
}

// Estatus returns the solicitud estatus catalog.
func (s *CatalogoService) Estatus(ctx context.Context) ([]models.Estatus, error) {
	return lookup(ctx, s, "catalogo:estatus", s.repo.Estatus)
}

// PuestosPropuestos returns the proposed-position catalog.
func (s *CatalogoService) PuestosPropuestos(ctx context.Context) ([]models.PuestoPropuesto, error) {
	return lookup(ctx, s, "catalogo:puestos_propuestos", s.repo.PuestosPropuestos)
}
