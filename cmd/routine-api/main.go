package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/poly-routine-api/api/swagger"
	"github.com/noah-isme/poly-routine-api/internal/handler"
	"github.com/noah-isme/poly-routine-api/internal/middleware"
	"github.com/noah-isme/poly-routine-api/internal/repository"
	"github.com/noah-isme/poly-routine-api/internal/service"
	"github.com/noah-isme/poly-routine-api/pkg/cache"
	"github.com/noah-isme/poly-routine-api/pkg/config"
	"github.com/noah-isme/poly-routine-api/pkg/database"
	"github.com/noah-isme/poly-routine-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/poly-routine-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/poly-routine-api/pkg/middleware/requestid"
)

// @title Poly Routine API
// @version 0.1.0
// @description Class-routine scheduling engine for polytechnic institutes
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	cacheEnabled := cfg.Routine.CacheEnabled
	var cacheRepo *repository.CacheRepository
	if cacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, routine cache disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	metricsSvc := service.NewMetricsService()

	routineRepo := repository.NewRoutineRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)

	var cacheStore service.CacheStore
	if cacheRepo != nil {
		cacheStore = cacheRepo
	}
	routineCache := service.NewRoutineCache(cacheStore, metricsSvc, cfg.Routine.CacheTTL, logr, cacheEnabled)
	batchSvc := service.NewBatchService(routineRepo, metricsSvc, logr)
	routineSvc := service.NewRoutineService(routineRepo, routineCache, batchSvc, logr)
	referenceSvc := service.NewReferenceService(departmentRepo, teacherRepo, logr)

	validate := validator.New()
	routineHandler := handler.NewRoutineHandler(routineSvc, validate)
	referenceHandler := handler.NewReferenceHandler(referenceSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/routines", routineHandler.GetStudentRoutine)
		api.PUT("/routines", routineHandler.Save)
		api.GET("/routines/teacher/:id", routineHandler.GetTeacherRoutine)
		api.GET("/departments", referenceHandler.ListDepartments)
		api.GET("/teachers", referenceHandler.ListTeachers)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
