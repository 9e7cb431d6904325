package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-dashboard-api/api/swagger"
	"github.com/noah-isme/sma-dashboard-api/internal/handler"
	"github.com/noah-isme/sma-dashboard-api/internal/middleware"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/cache"
	"github.com/noah-isme/sma-dashboard-api/pkg/config"
	"github.com/noah-isme/sma-dashboard-api/pkg/database"
	"github.com/noah-isme/sma-dashboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-dashboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-dashboard-api/pkg/middleware/requestid"
)

// @title School Dashboard API
// @version 1.0.0
// @description Role-scoped school records, performance and dashboards
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	store, db, err := openStore(ctx, cfg, metrics, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.Error(err))
	}
	if db != nil {
		defer db.Close() //nolint:errcheck
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "sma-dashboard")
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Performance.CacheTTL, logr, redisClient != nil)

	refresher := service.NewPerformanceRefresher(logr)
	deps := service.Deps{Store: store, Cache: cacheSvc, Warmer: refresher, Logger: logr}
	services := buildServices(deps, cfg, metrics)
	refresher.Bind(services.Performance)
	refresher.Start(ctx)
	defer refresher.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metrics))
	}
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "database"})
				return
			}
		}
		if redisClient != nil {
			if err := cacheRepo.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "cache"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers := handler.NewHandlers(services)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", handlers.Metrics.Prometheus)
	}
	if cfg.Docs.Enabled || cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r.Group(cfg.APIPrefix), services.Auth, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore selects the entity store and loads the demo records when the
// store is empty and seeding is on.
func openStore(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*repository.Store, *sqlx.DB, error) {
	if cfg.Store.Driver != config.StorePostgres {
		store := repository.NewMemoryStore()
		if cfg.Store.Seed {
			if err := repository.Seed(ctx, store); err != nil {
				return nil, nil, err
			}
		}
		return store, nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	store := repository.NewSQLStore(db, metrics)
	if cfg.Store.Seed {
		empty, err := database.IsEmpty(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if empty {
			if err := repository.Seed(ctx, store); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
			logr.Info("database seeded")
		}
	}
	return store, db, nil
}

func buildServices(deps service.Deps, cfg *config.Config, metrics *service.MetricsService) handler.Services {
	users := service.NewUserService(deps)
	students := service.NewStudentService(deps, users)
	announcements := service.NewAnnouncementService(deps)
	performance := service.NewPerformanceService(deps)

	return handler.Services{
		Auth: service.NewAuthService(deps, users, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		Users:          users,
		Students:       students,
		Teachers:       service.NewTeacherService(deps, users),
		Classes:        service.NewClassService(deps),
		Subjects:       service.NewSubjectService(deps),
		Timetable:      service.NewTimetableService(deps),
		Attendance:     service.NewAttendanceService(deps),
		Marks:          service.NewMarkService(deps),
		Fees:           service.NewFeeService(deps),
		Leave:          service.NewLeaveService(deps),
		Communications: service.NewCommunicationService(deps),
		Promotions:     service.NewPromotionService(deps),
		Announcements:  announcements,
		Performance:    performance,
		Dashboard:      service.NewDashboardService(deps, performance, announcements),
		Exports:        service.NewExportService(deps, students, metrics),
		Metrics:        metrics,
	}
}
