package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appControllers "github.com/yigit/persondata/internal/app/controllers"
	"github.com/yigit/persondata/internal/app/jobs"
	appMigrations "github.com/yigit/persondata/internal/app/migrations"
	appRepos "github.com/yigit/persondata/internal/app/repositories"
	"github.com/yigit/persondata/internal/app/repositories/memory"
	appRoutes "github.com/yigit/persondata/internal/app/routes"
	appServices "github.com/yigit/persondata/internal/app/services"
	"github.com/yigit/persondata/internal/cache"
	"github.com/yigit/persondata/internal/config"
	"github.com/yigit/persondata/internal/db"
	appMiddleware "github.com/yigit/persondata/internal/middleware"
	pkgAuth "github.com/yigit/persondata/internal/pkg/auth"
	"github.com/yigit/persondata/internal/pkg/logger"
	"github.com/yigit/persondata/internal/pkg/metrics"
	"github.com/yigit/persondata/internal/pkg/validation"
)

const (
	migrateTimeout         = 2 * time.Minute
	rateLimitCleanupPeriod = "@every 5m"
)

// gateway is the storage surface the services need.
type gateway interface {
	appServices.PersonStore
	appServices.QueueStore
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config        *config.Config
	Postgres      *db.PostgresDB
	Redis         *cache.Client
	Registry      *prometheus.Registry
	Metrics       *metrics.Metrics
	JWTService    *pkgAuth.JWTService
	PersonService *appServices.PersonService
	QueueService  *appServices.QueueService
	SyncService   *appServices.SyncService
	RateLimiter   *appMiddleware.RateLimiter
	Scheduler     *jobs.Scheduler
	Routes        appRoutes.Dependencies
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	logger.Info().
		Str("level", strings.ToLower(cfg.Logging.Level)).
		Str("format", cfg.Logging.Format).
		Str("mode", cfg.Server.Mode).
		Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase connects to PostgreSQL and applies pending migrations.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	logger.Info().Msg("Establishing database connection...")
	pg, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	// The *sql.DB borrows from the pool and is left open with it.
	applied, err := appMigrations.NewMigrator(pg.SQL()).MigrateFromDirectory(ctx, cfg.Database.MigrationsDir)
	if err != nil {
		logger.Error().Err(err).Msg("Database migration error")
		pg.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	logger.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return pg, nil
}

// BuildDependencies wires the storage gateway, cache, services, controllers
// and scheduled jobs. In memory mode no database is contacted.
func BuildDependencies(cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg}

	var store gateway
	if cfg.Server.Mode == config.ModeMemory {
		logger.Warn().Msg("Serving the seeded in-memory store")
		store = memory.NewSeeded()
	} else {
		pg, err := SetupDatabase(cfg)
		if err != nil {
			return nil, err
		}
		deps.Postgres = pg
		store = appRepos.NewRepositories(pg.Pool)
	}

	redisClient, err := cache.New(cfg.Redis)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	deps.Redis = redisClient

	var personCache appServices.PersonCache
	if redisClient != nil {
		personCache = cache.NewPersonCache(redisClient, cfg.CacheTTL())
		logger.Info().Dur("ttl", cfg.CacheTTL()).Msg("Person cache enabled")
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.New(deps.Registry)

	validator := validation.NewIdentityValidator()
	deps.PersonService = appServices.NewPersonService(store, personCache, deps.Metrics)
	deps.QueueService = appServices.NewQueueService(store, validator, deps.Metrics)
	deps.SyncService = appServices.NewSyncService(deps.PersonService, deps.QueueService, appServices.SyncOptions{
		Timeout:      cfg.SyncTimeout(),
		PollInterval: cfg.SyncPollInterval(),
	}, deps.Metrics)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	checks := map[string]appControllers.HealthCheck{}
	if deps.Postgres != nil {
		checks["database"] = deps.Postgres.Health
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis.Health
	}

	deps.Routes = appRoutes.Dependencies{
		PersonController: appControllers.NewPersonController(deps.PersonService),
		SyncController:   appControllers.NewSyncController(deps.SyncService, deps.QueueService),
		HealthController: appControllers.NewHealthController(cfg.Server.Mode, checks),
		AuthMiddleware:   appMiddleware.NewAuthMiddleware(deps.JWTService),
		SyncRateLimiter:  deps.RateLimiter,
		Validator:        validator,
		MetricsHandler:   promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
	}

	if err := deps.setupJobs(); err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

func (d *Dependencies) setupJobs() error {
	d.Scheduler = jobs.NewScheduler()

	monitor := jobs.NewQueueMonitor(d.QueueService, d.Metrics)
	if err := d.Scheduler.Add("queue_monitor", d.Config.Monitor.QueueSchedule, monitor.Run); err != nil {
		return err
	}

	limiter := d.RateLimiter
	return d.Scheduler.Add("rate_limiter_cleanup", rateLimitCleanupPeriod, func(context.Context) error {
		if n := limiter.Cleanup(); n > 0 {
			logger.Debug().Int("removed", n).Msg("Dropped idle rate limiters")
		}
		return nil
	})
}

// SetupRouter builds the gin engine with the global middleware chain.
func SetupRouter(deps *Dependencies) *gin.Engine {
	switch deps.Config.Server.Mode {
	case config.ModeProduction:
		gin.SetMode(gin.ReleaseMode)
	case config.ModeTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(),
		appMiddleware.Recovery(),
	)
	appRoutes.SetupRouter(router, deps.Routes)
	return router
}

// Close releases the database pool and the redis client.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("Redis close error")
		}
	}
	if d.Postgres != nil {
		d.Postgres.Close()
	}
}
