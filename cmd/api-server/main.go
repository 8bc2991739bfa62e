package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/nhan-trinh/phongdaotao/api/swagger"
	"github.com/nhan-trinh/phongdaotao/internal/handler"
	"github.com/nhan-trinh/phongdaotao/internal/middleware"
	"github.com/nhan-trinh/phongdaotao/internal/models"
	"github.com/nhan-trinh/phongdaotao/internal/repository"
	"github.com/nhan-trinh/phongdaotao/internal/service"
	"github.com/nhan-trinh/phongdaotao/pkg/cache"
	"github.com/nhan-trinh/phongdaotao/pkg/config"
	"github.com/nhan-trinh/phongdaotao/pkg/database"
	"github.com/nhan-trinh/phongdaotao/pkg/logger"
	corsmiddleware "github.com/nhan-trinh/phongdaotao/pkg/middleware/cors"
	reqidmiddleware "github.com/nhan-trinh/phongdaotao/pkg/middleware/requestid"
)

// @title Phong Dao Tao API
// @version 1.0.0
// @description Training department administration service
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	classRepo := repository.NewClassRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	assignmentRepo := repository.NewTeacherAssignmentRepository(db)
	regulationRepo := repository.NewRegulationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)

	registrationStores := make([]*repository.RegistrationRepository, 0, len(models.RegistrationKinds))
	for _, kind := range models.RegistrationKinds {
		store, err := repository.NewRegistrationRepository(db, kind)
		if err != nil {
			logr.Sugar().Fatalw("failed to init registration repository", "kind", kind, "error", err)
		}
		registrationStores = append(registrationStores, store)
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.ListTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	registrationSvc := service.NewRegistrationService(asRegistrationStores(registrationStores), validate, logr).WithMetrics(metricsSvc)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, courseRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, courseRepo, userRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, classRepo, nil, validate, logr)
	assignmentSvc := service.NewTeacherAssignmentService(assignmentRepo, userRepo, classRepo, validate, logr)
	regulationSvc := service.NewRegulationService(regulationRepo, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, cfg.Notifications.MaxBodyLength, validate, logr)
	reportSvc := service.NewReportService(reportRepo, service.ReportServiceConfig{
		PassThreshold:     cfg.Reports.PassThreshold,
		TestPassThreshold: cfg.Reports.TestPassThreshold,
		Workers:           cfg.Reports.WorkerConcurrency,
		MaxRetries:        cfg.Reports.WorkerRetries,
		ExportRetention:   cfg.Reports.ExportRetention,
	}, logr).WithMetrics(metricsSvc)
	dashboardSvc := service.NewDashboardService(reportRepo, notificationRepo, registrationSvc, logr)
	userSvc := service.NewUserService(userRepo, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reportSvc.Start(ctx)
	defer reportSvc.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registrationHandlers := make(map[models.RegistrationKind]*handler.RegistrationHandler, len(models.RegistrationKinds))
	for _, kind := range models.RegistrationKinds {
		registrationHandlers[kind] = handler.NewRegistrationHandler(registrationSvc, kind)
	}

	registry := &handler.Registry{
		Courses:       handler.NewCourseHandler(courseSvc),
		Curriculum:    handler.NewCurriculumHandler(curriculumSvc),
		Classes:       handler.NewClassHandler(classSvc),
		Schedules:     handler.NewScheduleHandler(scheduleSvc),
		Assignments:   handler.NewTeacherAssignmentHandler(assignmentSvc),
		Regulations:   handler.NewRegulationHandler(regulationSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Reports:       handler.NewReportHandler(reportSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		Users:         handler.NewUserHandler(userSvc),
		Registrations: registrationHandlers,
		Cache:         cacheSvc,
		ListTTL:       cfg.Cache.ListTTL,
		ReportTTL:     cfg.Cache.ReportTTL,
		DashboardTTL:  cfg.Cache.DashboardTTL,
	}
	registry.Register(r, cfg.APIPrefix)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func asRegistrationStores(repos []*repository.RegistrationRepository) []service.RegistrationStore {
	stores := make([]service.RegistrationStore, 0, len(repos))
	for _, repo := range repos {
		stores = append(stores, repo)
	}
	return stores
}
