package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacc5i/sacc5i-api/internal/models"
	"github.com/sacc5i/sacc5i-api/internal/repository"
)

type stubCatalogoRepo struct {
	llamadas int
	regiones []models.Region
}

func (s *stubCatalogoRepo) Regiones(ctx context.Context) ([]models.Region, error) {
	s.llamadas++
	return s.regiones, nil
}

func (s *stubCatalogoRepo) Municipios(ctx context.Context, regionID string) ([]models.Municipio, error) {
	s.llamadas++
	return []models.Municipio{{ID: "mun-1", Nombre: "Pachuca", RegionID: regionID}}, nil
}

func (s *stubCatalogoRepo) TiposOficio(ctx context.Context) ([]models.TipoOficio, error) {
	s.llamadas++
	return nil, nil
}

func (s *stubCatalogoRepo) MotivosRechazo(ctx context.Context, categoria string) ([]models.MotivoRechazo, error) {
	s.llamadas++
	return nil, nil
}

func (s *stubCatalogoRepo) Estatus(ctx context.Context) ([]models.Estatus, error) {
	s.llamadas++
	return nil, nil
}

func (s *stubCatalogoRepo) PuestosPropuestos(ctx context.Context) ([]models.PuestoPropuesto, error) {
	s.llamadas++
	return nil, nil
}

func newCatalogoFixture(t *testing.T) (*CatalogoService, *stubCatalogoRepo) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := &stubCatalogoRepo{regiones: []models.Region{{ID: "reg-1", Nombre: "Centro"}}}
	cache := repository.NewCacheRepository(client, nil)
	return NewCatalogoService(repo, cache, time.Minute, nil, nil), repo
}

func TestCatalogoCacheEvitaSegundaConsulta(t *testing.T) {
	svc, repo := newCatalogoFixture(t)

	regiones, err := svc.Regiones(context.Background())
	require.NoError(t, err)
	require.Len(t, regiones, 1)
	assert.Equal(t, 1, repo.llamadas)

	regiones, err = svc.Regiones(context.Background())
	require.NoError(t, err)
	require.Len(t, regiones, 1)
	assert.Equal(t, "Centro", regiones[0].Nombre)
	assert.Equal(t, 1, repo.llamadas, "la segunda lectura debe salir del cache")
}

func TestCatalogoCachePorRegionUsaLlavesDistintas(t *testing.T) {
	svc, repo := newCatalogoFixture(t)

	_, err := svc.Municipios(context.Background(), "reg-1")
	require.NoError(t, err)
	_, err = svc.Municipios(context.Background(), "reg-2")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.llamadas)

	_, err = svc.Municipios(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.llamadas)
}

func TestCatalogoSinCacheConsultaSiempre(t *testing.T) {
	repo := &stubCatalogoRepo{regiones: []models.Region{{ID: "reg-1"}}}
	svc := NewCatalogoService(repo, nil, time.Minute, nil, nil)

	_, err := svc.Regiones(context.Background())
	require.NoError(t, err)
	_, err = svc.Regiones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.llamadas)
}
