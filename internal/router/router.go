package router

import (
	"net/http"
	"time"

	"github.com/ekinyalgin/consolevite-sub000/internal/config"
	"github.com/ekinyalgin/consolevite-sub000/internal/handler"
	"github.com/ekinyalgin/consolevite-sub000/internal/metrics"
	"github.com/ekinyalgin/consolevite-sub000/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, middleware stack and routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.HTTPMetrics())

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/auth/logout", authHandler.Logout(db))
	protected.GET("/me", handler.GetMe)
	protected.POST("/profile/password", handler.ChangePassword(db, cfg))

	balanceHandler := handler.NewBalanceHandler(db)
	protected.POST("/balances", balanceHandler.CreateEntry)
	protected.GET("/balances", balanceHandler.ListEntries)
	protected.PUT("/balances/:id", balanceHandler.UpdateEntry)
	protected.DELETE("/balances/:id", balanceHandler.DeleteEntry)
	protected.POST("/balances/:id/decrease-installment", balanceHandler.DecreaseInstallment)

	todoHandler := handler.NewTodoHandler(db)
	protected.POST("/todos", todoHandler.CreateTodo)
	protected.GET("/todos", todoHandler.ListTodos)
	protected.PUT("/todos/:id", todoHandler.UpdateTodo)
	protected.DELETE("/todos/:id", todoHandler.DeleteTodo)

	videoHandler := handler.NewVideoHandler(db)
	protected.POST("/videos", videoHandler.CreateVideo)
	protected.GET("/videos", videoHandler.ListVideos)
	protected.PUT("/videos/:id", videoHandler.UpdateVideo)
	protected.DELETE("/videos/:id", videoHandler.DeleteVideo)

	exerciseHandler := handler.NewExerciseHandler(db)
	protected.POST("/exercises", exerciseHandler.CreateExercise)
	protected.GET("/exercises", exerciseHandler.ListExercises)
	protected.PUT("/exercises/:id", exerciseHandler.UpdateExercise)
	protected.DELETE("/exercises/:id", exerciseHandler.DeleteExercise)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.ListLogs)

	importExportHandler := handler.NewImportExportHandler(db)
	protected.GET("/export/balances.csv", importExportHandler.ExportBalancesCSV)
	protected.GET("/export/balances.xlsx", importExportHandler.ExportBalancesXLSX)

	// SEO workflow is admin-only
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	siteHandler := handler.NewSiteHandler(db)
	admin.POST("/sites", siteHandler.CreateSite)
	admin.GET("/sites", siteHandler.ListSites)
	admin.PUT("/sites/:id", siteHandler.UpdateSite)
	admin.DELETE("/sites/:id", siteHandler.DeleteSite)
	admin.GET("/languages", siteHandler.ListLanguages)
	admin.GET("/categories", siteHandler.ListCategories)

	urlHandler := handler.NewUrlHandler(db)
	admin.POST("/urls/add-urls/:domainName", urlHandler.AddUrls)
	admin.GET("/urls/list/:domainName", urlHandler.ListUrls)
	admin.PUT("/urls/urls/:id/review", urlHandler.MarkReviewed)
	admin.DELETE("/urls/urls/:id", urlHandler.DeleteUrl)
	admin.POST("/urls/import/:domainName", importExportHandler.ImportUrlsXLSX)

	return r
}
