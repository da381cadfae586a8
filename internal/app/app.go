package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"primary_reading_backend/internal/config"
	"primary_reading_backend/internal/controller"
	"primary_reading_backend/internal/middleware"
	"primary_reading_backend/internal/repository"
	"primary_reading_backend/internal/service"
	"primary_reading_backend/pkg/database"
	"primary_reading_backend/pkg/logger"
	"primary_reading_backend/pkg/monitoring"
	"primary_reading_backend/pkg/security"
	"primary_reading_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user     *repository.UserRepository
	profile  *repository.ChildProfileRepository
	story    *repository.StoryRepository
	progress *repository.ProgressRepository
	checkin  *repository.CheckinRepository
	badge    *repository.BadgeRepository
}

type services struct {
	auth     *service.AuthService
	profile  *service.ProfileService
	storage  *service.StorageService
	research *service.ResearchService
	images   *service.ImageService
	story    *service.StoryService
	badge    *service.BadgeService
	progress *service.ProgressService
}

type controllers struct {
	auth     *controller.AuthController
	profile  *controller.ProfileController
	story    *controller.StoryController
	progress *controller.ProgressController
	badge    *controller.BadgeController
	grade    *controller.GradeController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		profile:  repository.NewChildProfileRepository(db),
		story:    repository.NewStoryRepository(db),
		progress: repository.NewProgressRepository(db),
		checkin:  repository.NewCheckinRepository(db),
		badge:    repository.NewBadgeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.profile)
	s.research = service.NewResearchService(cfg.Search)
	s.images = service.NewImageService(cfg.AI, cfg.Image, s.storage)

	generator := service.NewStoryGenerator(cfg.AI)
	s.story = service.NewStoryService(repos.story, repos.profile, generator, s.research, s.images, s.storage, rdb)

	s.badge = service.NewBadgeService(repos.badge, repos.progress, repos.checkin)
	s.progress = service.NewProgressService(repos.progress, repos.checkin, repos.profile, repos.story, s.badge)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		profile:  controller.NewProfileController(s.profile),
		story:    controller.NewStoryController(s.story),
		progress: controller.NewProgressController(s.progress),
		badge:    controller.NewBadgeController(s.badge, s.profile),
		grade:    controller.NewGradeController(),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
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

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("primary-reading", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	// 本地存储模式下直接静态托管插图
	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
