package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"test_portal_backend/internal/config"
	"test_portal_backend/internal/controller"
	"test_portal_backend/internal/repository"
	"test_portal_backend/internal/service"
	"test_portal_backend/pkg/configwatcher"
	"test_portal_backend/pkg/database"
	"test_portal_backend/pkg/logger"
	"test_portal_backend/pkg/monitoring"
	"test_portal_backend/pkg/security"
	"test_portal_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	test     *repository.TestRepository
	attempt  *repository.AttemptRepository
	revision *repository.RevisionRepository
}

type services struct {
	auth      *service.AuthService
	test      *service.TestService
	attempt   *service.AttemptService
	ranking   *service.RankingService
	analytics *service.AnalyticsService
	revision  *service.RevisionService
}

type controllers struct {
	auth      *controller.AuthController
	test      *controller.TestController
	attempt   *controller.AttemptController
	analytics *controller.AnalyticsController
	revision  *controller.RevisionController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		test:     repository.NewTestRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		revision: repository.NewRevisionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.ranking = service.NewRankingService(repos.attempt, repos.test, rdb)
	s.test = service.NewTestService(repos.test, repos.attempt)
	s.attempt = service.NewAttemptService(repos.attempt, repos.test, s.ranking, cfg)
	s.analytics = service.NewAnalyticsService(repos.attempt, repos.test, s.ranking)
	s.revision = service.NewRevisionService(repos.revision, repos.test)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		test:      controller.NewTestController(s.test),
		attempt:   controller.NewAttemptController(s.attempt, s.ranking),
		analytics: controller.NewAnalyticsController(s.analytics),
		revision:  controller.NewRevisionController(s.revision),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, &cfg.Admin)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Migration is done as part of InitDB; nothing else needs to come up.
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			// Rankings fall back to the database when the cache is down.
			logger.Log.Warn("Failed to initialize redis, ranking cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("test-portal", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	// The grading policy can be tuned without a restart.
	app.RegisterConfigCallback(func(updated *config.Config) {
		cfg.Grading = updated.Grading
		logger.Log.Info("Grading policy reloaded",
			zap.Int("correctMark", cfg.Grading.CorrectMark),
			zap.Int("incorrectPenalty", cfg.Grading.IncorrectPenalty))
	})
	go configwatcher.WatchConfig("configs/config.yaml", func(updated *config.Config) {
		for _, callback := range app.configCallbacks {
			callback(updated)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
