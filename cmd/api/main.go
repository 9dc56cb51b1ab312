package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/edumgmt-api/api/swagger"
	"github.com/noah-isme/edumgmt-api/internal/handler"
	"github.com/noah-isme/edumgmt-api/internal/middleware"
	"github.com/noah-isme/edumgmt-api/internal/models"
	"github.com/noah-isme/edumgmt-api/internal/repository"
	"github.com/noah-isme/edumgmt-api/internal/service"
	"github.com/noah-isme/edumgmt-api/pkg/config"
	"github.com/noah-isme/edumgmt-api/pkg/database"
	"github.com/noah-isme/edumgmt-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edumgmt-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edumgmt-api/pkg/middleware/requestid"
)

// @title Education Management API
// @version 1.0.0
// @description Leave and substitution management for teachers and batches
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, cfg.Notifications.Enabled, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	metricsSvc := service.NewMetricsService()
	requestSvc := service.NewRequestService(requestRepo, batchRepo, teacherRepo, notificationSvc, validate, logr)
	resolverSvc := service.NewResolverService(requestRepo, batchRepo, teacherRepo, metricsSvc, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, batchRepo, resolverSvc, logr)
	exportSvc := service.NewExportService(requestRepo, cfg.Exports.Enabled, logr, nil, nil)

	authHandler := handler.NewAuthHandler(authSvc)
	requestHandler := handler.NewRequestHandler(requestSvc, resolverSvc, exportSvc, metricsSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	academicOnly := middleware.RequireRoles(models.RoleAcademic, models.RoleAdmin)

	authed.GET("/teachers", academicOnly, teacherHandler.List)

	teacher := authed.Group("/teacher", teacherOnly)
	teacher.GET("/my-id", teacherHandler.MyID)
	teacher.GET("/batches", teacherHandler.MyBatches)
	teacher.GET("/effective-batches", requestHandler.EffectiveBatches)
	teacher.POST("/leave-requests", requestHandler.Create)
	teacher.GET("/leave-requests", requestHandler.ListMine)
	teacher.PUT("/leave-requests/:id", requestHandler.Update)
	teacher.DELETE("/leave-requests/:id", requestHandler.Delete)
	teacher.GET("/notifications", notificationHandler.List)
	teacher.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	teacher.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)

	academic := authed.Group("/academic", academicOnly)
	academic.GET("/sub-tutor-requests", requestHandler.AdminList)
	academic.POST("/sub-tutor-requests/:id/approve", requestHandler.Approve)
	academic.POST("/sub-tutor-requests/:id/reject", requestHandler.Reject)
	academic.GET("/sub-tutor-requests/export", requestHandler.Export)
	academic.GET("/notifications", notificationHandler.List)
	academic.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	academic.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
