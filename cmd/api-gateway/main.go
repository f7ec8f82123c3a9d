package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sacc5i/sacc5i-api/api/swagger"
	"github.com/sacc5i/sacc5i-api/internal/handler"
	"github.com/sacc5i/sacc5i-api/internal/middleware"
	"github.com/sacc5i/sacc5i-api/internal/repository"
	"github.com/sacc5i/sacc5i-api/internal/service"
	"github.com/sacc5i/sacc5i-api/pkg/cache"
	"github.com/sacc5i/sacc5i-api/pkg/config"
	"github.com/sacc5i/sacc5i-api/pkg/database"
	"github.com/sacc5i/sacc5i-api/pkg/logger"
	corsmiddleware "github.com/sacc5i/sacc5i-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sacc5i/sacc5i-api/pkg/middleware/requestid"
)

// @title SACC5i API
// @version 1.0.0
// @description Sistema de Atención a Solicitudes Ciudadanas C5i
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	usuarioRepo := repository.NewUsuarioRepository(db)
	tramiteRepo := repository.NewTramiteRepository(db, cfg.Folio.Prefix)
	catalogoRepo := repository.NewCatalogoRepository(db)

	var cacheRepo *repository.CacheRepository
	if cfg.Catalogos.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	authSvc := service.NewAuthService(usuarioRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	tramiteSvc := service.NewTramiteService(tramiteRepo, validate, logr, metricsSvc)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, validate, logr)

	var catalogoSvc *service.CatalogoService
	if cacheRepo != nil {
		catalogoSvc = service.NewCatalogoService(catalogoRepo, cacheRepo, cfg.Catalogos.CacheTTL, logr, metricsSvc)
	} else {
		catalogoSvc = service.NewCatalogoService(catalogoRepo, nil, cfg.Catalogos.CacheTTL, logr, metricsSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Tramites:  handler.NewTramiteHandler(tramiteSvc),
		Catalogos: handler.NewCatalogoHandler(catalogoSvc),
		Usuarios:  handler.NewUsuarioHandler(usuarioSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc, db),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc, usuarioRepo, cfg.Exports.Enabled)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
