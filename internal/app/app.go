package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"stareduca_backend/internal/config"
	"stareduca_backend/internal/controller"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/service"
	"stareduca_backend/pkg/database"
	"stareduca_backend/pkg/logger"
	"stareduca_backend/pkg/monitoring"
	"stareduca_backend/pkg/security"
	"stareduca_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	student      *repository.StudentRepository
	course       *repository.CourseRepository
	progress     *repository.ProgressRepository
	exam         *repository.ExamRepository
	xp           *repository.XpRepository
	post         *repository.PostRepository
	comment      *repository.CommentRepository
	reaction     *repository.ReactionRepository
	notification *repository.NotificationRepository
}

type services struct {
	storage      *service.StorageService
	gamification *service.GamificationService
	hub          *service.HubClient
	auth         *service.AuthService
	course       *service.CourseService
	progress     *service.ProgressService
	exam         *service.ExamService
	community    *service.CommunityService
	notification *service.NotificationService
	content      *service.ContentService
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	progress     *controller.ProgressController
	gamification *controller.GamificationController
	exam         *controller.ExamController
	community    *controller.CommunityController
	notification *controller.NotificationController
	upload       *controller.UploadController
	content      *controller.ContentController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热加载后台密钥和 Hub 配置，其余字段重启生效
func (a *App) ApplyConfig(newCfg *config.Config) {
	a.Config.Admin = newCfg.Admin
	a.Config.Hub = newCfg.Hub
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		student:      repository.NewStudentRepository(db),
		course:       repository.NewCourseRepository(db),
		progress:     repository.NewProgressRepository(db),
		exam:         repository.NewExamRepository(db),
		xp:           repository.NewXpRepository(db),
		post:         repository.NewPostRepository(db),
		comment:      repository.NewCommentRepository(db),
		reaction:     repository.NewReactionRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.gamification = service.NewGamificationService(repos.student, repos.xp, repos.exam, repos.notification)
	s.hub = service.NewHubClient(&cfg.Hub)
	s.auth = service.NewAuthService(repos.student, s.gamification, s.hub, cfg)
	s.course = service.NewCourseService(repos.course, repos.progress, repos.exam, rdb)
	s.progress = service.NewProgressService(repos.course, repos.progress, s.course)
	s.exam = service.NewExamService(repos.exam, s.gamification)
	s.community = service.NewCommunityService(repos.post, repos.comment, repos.reaction, repos.student, repos.notification, s.gamification)
	s.notification = service.NewNotificationService(repos.notification)
	s.content = service.NewContentService(repos.course, repos.exam, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		course:       controller.NewCourseController(s.course),
		progress:     controller.NewProgressController(s.progress),
		gamification: controller.NewGamificationController(s.gamification),
		exam:         controller.NewExamController(s.exam),
		community:    controller.NewCommunityController(s.community),
		notification: controller.NewNotificationController(s.notification),
		upload:       controller.NewUploadController(s.storage),
		content:      controller.NewContentController(s.content),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不迁移，需要 -migrate 显式开启
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Log.Info("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时直接穿透数据库
		logger.Log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	app.RegisterConfigCallback(func(c *config.Config) {
		services.hub.BaseURL = c.Hub.BaseURL
		services.hub.MiniAppID = c.Hub.MiniAppID
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("stareduca-junior", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		// 进程退出时随服务器一起关停，见 Run
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, cfg)

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

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
