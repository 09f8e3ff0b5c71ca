package router

import (
	"net/http"
	"time"

	"github.com/nb2912/inventory/internal/config"
	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/handler"
	"github.com/nb2912/inventory/internal/infra"
	"github.com/nb2912/inventory/internal/middleware"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"
	"github.com/nb2912/inventory/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const welcomeMessage = "Welcome to the Inventory Management API!"

// Services is everything the /api routes dispatch to.
type Services struct {
	Auth           service.AuthService
	Items          service.ItemService
	Categories     service.CategoryService
	Alerts         service.AlertService
	Dashboard      service.DashboardService
	Suppliers      service.SupplierService
	PurchaseOrders service.PurchaseOrderService
	SalesOrders    service.SalesOrderService
	Reports        service.ReportService
}

// Limiters are returned so the caller can run middleware.PurgeLoop over them.
type Limiters struct {
	API   *middleware.RateLimiter
	Login *middleware.RateLimiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notifier service.LowStockNotifier, mailCB *infra.CircuitBreaker) (*gin.Engine, Limiters) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewRedisCache(rdb)
	tokens := infra.NewRedisTokenStore(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	purchaseOrderRepo := repository.NewPurchaseOrderRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	svcs := Services{
		Auth:           service.NewAuthService(userRepo, tokens, cfg),
		Items:          service.NewItemService(itemRepo, supplierRepo, movementRepo, cache, notifier),
		Categories:     service.NewCategoryService(itemRepo),
		Alerts:         service.NewAlertService(itemRepo, cache, cfg.LowStockThreshold),
		Dashboard:      service.NewDashboardService(reportRepo, movementRepo, cfg.LowStockThreshold),
		Suppliers:      service.NewSupplierService(supplierRepo, itemRepo),
		PurchaseOrders: service.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, itemRepo, movementRepo, cache),
		SalesOrders:    service.NewSalesOrderService(salesOrderRepo, itemRepo, movementRepo, cache, notifier),
		Reports:        service.NewReportService(reportRepo, itemRepo, movementRepo),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r, limiters := Build(cfg, svcs, tokens, reg)

	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Swagger UI is only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, limiters
}

// Build registers the middleware chain and every route that does not touch
// infrastructure directly.
func Build(cfg *config.Config, svcs Services, revoked middleware.RevocationChecker, reg prometheus.Registerer) (*gin.Engine, Limiters) {
	r := gin.New()
	// Rate limits key on ClientIP, so forwarded headers count only from known proxies
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		log.Error().Err(err).Msg("invalid TRUSTED_PROXIES, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	limiters := Limiters{
		API:   middleware.NewAPIRateLimiter(1000, time.Minute),
		Login: middleware.NewLoginRateLimiter(),
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewMetrics(reg).Handler())
	r.Use(limiters.API.Handler())

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	usersH := handler.NewUsersHandler(svcs.Auth)
	itemsH := handler.NewItemsHandler(svcs.Items)
	barcodesH := handler.NewBarcodesHandler(svcs.Items)
	categoriesH := handler.NewCategoriesHandler(svcs.Categories)
	alertsH := handler.NewAlertsHandler(svcs.Alerts)
	dashboardH := handler.NewDashboardHandler(svcs.Dashboard)
	suppliersH := handler.NewSuppliersHandler(svcs.Suppliers)
	purchaseOrdersH := handler.NewPurchaseOrdersHandler(svcs.PurchaseOrders)
	salesOrdersH := handler.NewSalesOrdersHandler(svcs.SalesOrders)
	reportsH := handler.NewReportsHandler(svcs.Reports)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.Envelope{Status: dto.StatusSuccess, Message: welcomeMessage})
	})

	api := r.Group("/api")

	// Auth (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authH.Signup)
		auth.POST("/login", limiters.Login.Handler(), authH.Login)
	}

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(cfg.JWTSecret, revoked))
	admin := middleware.RequireRole(model.RoleAdmin)
	{
		protected.POST("/auth/logout", authH.Logout)
		protected.GET("/auth/profile", authH.Profile)

		users := protected.Group("/users", admin)
		{
			users.GET("", usersH.List)
			users.POST("", usersH.Create)
		}

		protected.GET("/items", itemsH.List)
		protected.GET("/items/:id", itemsH.Get)
		protected.POST("/items", admin, itemsH.Create)
		protected.PATCH("/items/:id", admin, itemsH.Update)

		protected.GET("/barcodes/:barcode", barcodesH.Get)
		protected.PATCH("/barcodes/:barcode/quantity", barcodesH.UpdateQuantity)

		protected.GET("/categories", categoriesH.List)
		protected.GET("/categories/:category/items", categoriesH.Items)

		protected.GET("/dashboard/stats", dashboardH.Stats)
		protected.GET("/dashboard/activity", dashboardH.Activity)

		alerts := protected.Group("/alerts")
		{
			alerts.GET("/low-stock", alertsH.LowStock)
			alerts.GET("/custom", alertsH.Custom)
			alerts.PATCH("/threshold/:itemId", alertsH.SetThreshold)
		}

		suppliers := protected.Group("/suppliers", admin)
		{
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		purchaseOrders := protected.Group("/purchase-orders", admin)
		{
			purchaseOrders.POST("", purchaseOrdersH.Create)
			purchaseOrders.GET("", purchaseOrdersH.List)
			purchaseOrders.GET("/:id", purchaseOrdersH.Get)
			purchaseOrders.PATCH("/:id/status", purchaseOrdersH.UpdateStatus)
		}

		salesOrders := protected.Group("/sales-orders")
		{
			salesOrders.POST("", salesOrdersH.Create)
			salesOrders.GET("", salesOrdersH.List)
			salesOrders.GET("/:id", salesOrdersH.Get)
		}

		reports := protected.Group("/reports", admin)
		{
			reports.GET("/value", reportsH.Value)
			reports.GET("/movement", reportsH.Movement)
			reports.GET("/categories", reportsH.Categories)
			reports.GET("/export", reportsH.Export)
		}
	}

	return r, limiters
}
