package router

import (
	"time"

	"github.com/Filho-do-homem/dsystem/internal/config"
	"github.com/Filho-do-homem/dsystem/internal/handler"
	"github.com/Filho-do-homem/dsystem/internal/ledger"
	"github.com/Filho-do-homem/dsystem/internal/middleware"
	"github.com/Filho-do-homem/dsystem/internal/service"
	"github.com/Filho-do-homem/dsystem/internal/storage"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service/Store ← BlobStore
func New(cfg *config.Config, store *ledger.Store, blobs storage.BlobStore) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	reportSvc := service.NewReportService(store)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(store)
	adjustmentsH := handler.NewAdjustmentsHandler(store)
	salesH := handler.NewSalesHandler(store)
	notasH := handler.NewNotasHandler(store)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(blobs))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/types", productsH.ListTypes)
			products.GET("/barcode/:barcode", productsH.GetByBarcode)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		adjustments := v1.Group("/stock-adjustments")
		{
			adjustments.POST("", adjustmentsH.Create)
			adjustments.GET("", adjustmentsH.List)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.DELETE("", salesH.Clear)
		}

		notas := v1.Group("/notas")
		{
			notas.POST("", notasH.Create)
			notas.GET("", notasH.List)
		}

		v1.GET("/dashboard", reportsH.Dashboard)
		v1.GET("/reports", reportsH.Report)
		v1.GET("/reports/export", reportsH.Export)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
