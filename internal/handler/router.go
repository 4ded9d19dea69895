package handler

import (
	"log/slog"
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/obs"
	"backoffice/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *obs.Metrics
	Services       *service.Services
	Cookie         middleware.CookieOptions
	PageSize       int
	AllowedOrigins []string
	// Swagger mounts /swagger when the docs package is linked in.
	Swagger bool
}

// NewRouter assembles the middleware pipeline and every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogger(cfg.Logger),
		middleware.Metrics(cfg.Metrics),
	)

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		router.Use(cors.New(corsConfig))
	}

	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	svc := cfg.Services
	public := router.Group("/api")
	authed := router.Group("/api", middleware.RequireSession(svc.Auth, cfg.Cookie.Name))

	NewAuthHandler(svc.Auth, cfg.Cookie, cfg.Logger).RegisterRoutes(public, authed)
	NewStatisticsHandler(svc.Statistics, cfg.Logger).RegisterRoutes(authed)
	NewPermissionHandler(svc.Permissions, cfg.Logger).RegisterRoutes(authed)
	NewEmployeeHandler(svc.Employees, cfg.Logger, cfg.PageSize).RegisterRoutes(authed)
	NewGroupHandler(svc.Groups, svc.Permissions, cfg.Logger, cfg.PageSize).RegisterRoutes(authed)
	NewCategoryHandler(svc.Categories, cfg.Logger, cfg.PageSize).RegisterRoutes(authed)
	NewSubCategoryHandler(svc.SubCategories, svc.Categories, cfg.Logger, cfg.PageSize).RegisterRoutes(authed)
	NewAuditHandler(svc.Audit, cfg.Logger).RegisterRoutes(authed)

	return router
}
