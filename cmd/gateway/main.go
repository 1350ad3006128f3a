package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/soumsmith/vie-ecole-gateway/internal/client"
	"github.com/soumsmith/vie-ecole-gateway/internal/handler"
	"github.com/soumsmith/vie-ecole-gateway/internal/middleware"
	"github.com/soumsmith/vie-ecole-gateway/internal/service"
	"github.com/soumsmith/vie-ecole-gateway/pkg/cache"
	"github.com/soumsmith/vie-ecole-gateway/pkg/config"
	"github.com/soumsmith/vie-ecole-gateway/pkg/logger"
	corsmiddleware "github.com/soumsmith/vie-ecole-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/soumsmith/vie-ecole-gateway/pkg/middleware/requestid"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var store cache.Store
	if cfg.Cache.Backend == "redis" {
		redisStore, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("redis unavailable", "error", err)
		}
		store = redisStore
	} else {
		store = cache.NewMemory()
	}

	metrics := service.NewMetricsService()
	backend := client.New(cfg.Backend, cfg.Session, logr)
	backend.Observe(metrics.ObserveBackendCall)
	availability := service.NewAvailabilityService(backend, metrics, logr)
	refs := service.NewReferenceService(backend, store, cfg.Cache.MaxAge, metrics, logr)
	timetable := service.NewTimetableService(backend, availability, refs, cfg.Session.AcademicYearID, cfg.Availability, nil, logr)
	sessions := service.NewSessionService(backend, availability, refs, cfg.Session.AcademicYearID, cfg.Availability, nil, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics))

	handler.Set{
		Timetable: handler.NewTimetableHandler(timetable),
		Sessions:  handler.NewSessionHandler(sessions),
		Reference: handler.NewReferenceHandler(refs),
		Metrics:   handler.NewMetricsHandler(metrics),
	}.Register(r, cfg.APIPrefix)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("gateway starting", "addr", addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("gateway failed", "error", err)
	}
}
