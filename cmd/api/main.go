package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/agrovigil/agrovigil-api/internal/advisory"
	"github.com/agrovigil/agrovigil-api/internal/handler"
	"github.com/agrovigil/agrovigil-api/internal/middleware"
	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/repository"
	"github.com/agrovigil/agrovigil-api/internal/service"
	"github.com/agrovigil/agrovigil-api/pkg/cache"
	"github.com/agrovigil/agrovigil-api/pkg/config"
	"github.com/agrovigil/agrovigil-api/pkg/database"
	"github.com/agrovigil/agrovigil-api/pkg/logger"
	corsmiddleware "github.com/agrovigil/agrovigil-api/pkg/middleware/cors"
	reqidmiddleware "github.com/agrovigil/agrovigil-api/pkg/middleware/requestid"
	"github.com/agrovigil/agrovigil-api/pkg/storage"
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is an optional accelerator; the API stays up without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	}

	uploads, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	reportRepo := repository.NewReportRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	materialRepo := repository.NewMaterialRepository(db)

	advisoryClient := advisory.NewHTTPClient(cfg.Advisory)

	authService := service.NewAuthService(userRepo, activityRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	inquiryService := service.NewInquiryService(inquiryRepo, activityRepo, uploads, validate, logr)
	reportService := service.NewReportService(reportRepo, redisClient, logr, cfg.Reports.CacheEnabled, cfg.Reports.CacheTTL)
	alertService := service.NewAlertService(alertRepo, validate, logr)
	materialService := service.NewMaterialService(materialRepo, validate, logr)
	userService := service.NewUserService(userRepo, activityRepo, logr)
	advisoryService := service.NewAdvisoryService(inquiryRepo, advisoryClient, advisoryClient, logr)
	metricsService := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authService, userService)
	inquiryHandler := handler.NewInquiryHandler(inquiryService)
	managerHandler := handler.NewManagerHandler(inquiryService)
	reportHandler := handler.NewReportHandler(reportService, metricsService, cfg.Reports.ClusterRadiusKm)
	alertHandler := handler.NewAlertHandler(alertService)
	materialHandler := handler.NewMaterialHandler(materialService)
	userHandler := handler.NewUserHandler(userService)
	advisoryHandler := handler.NewAdvisoryHandler(advisoryService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	api := r.Group(cfg.APIPrefix)
	authn := middleware.JWT(authService)
	managerOnly := middleware.RequireRoles(models.RoleManager)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authn, authHandler.Me)
	}

	farmer := api.Group("/farmer", authn)
	{
		farmer.POST("", inquiryHandler.Create)
		farmer.GET("", inquiryHandler.ListOwn)
		farmer.GET("/all", inquiryHandler.ListAll)
		farmer.GET("/:id", inquiryHandler.Get)
		farmer.PUT("/:id", inquiryHandler.Update)
		farmer.DELETE("/:id", inquiryHandler.Delete)
		farmer.GET("/:id/treatment", advisoryHandler.SuggestTreatment)
	}

	api.POST("/advisory/identify", authn, advisoryHandler.Identify)

	manager := api.Group("/manager", authn, managerOnly)
	{
		manager.GET("/forms", managerHandler.ListForms)
		manager.PUT("/form/:id/status", managerHandler.SetStatus)
		manager.POST("/form/:id/reply", managerHandler.SetReply)
		manager.DELETE("/form/:id/reply", managerHandler.ClearReply)
		manager.GET("/reports", reportHandler.Summary)
		manager.GET("/reports/monthly", reportHandler.MonthlyTrend)
		manager.GET("/reports/clusters", reportHandler.Clusters)
	}

	alerts := api.Group("/alerts", authn)
	{
		alerts.GET("", alertHandler.List)
		alerts.POST("", managerOnly, alertHandler.Create)
		alerts.PUT("/:id", managerOnly, alertHandler.Update)
		alerts.DELETE("/:id", managerOnly, alertHandler.Delete)
	}

	materials := api.Group("/materials", authn)
	{
		materials.GET("", materialHandler.List)
		materials.GET("/:id", materialHandler.Get)
		materials.POST("", managerOnly, materialHandler.Create)
		materials.PUT("/:id", managerOnly, materialHandler.Update)
		materials.DELETE("/:id", managerOnly, materialHandler.Delete)
	}

	users := api.Group("/users", authn, adminOnly)
	{
		users.GET("", userHandler.List)
		users.GET("/activity", userHandler.Activity)
		users.DELETE("/:id", userHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
