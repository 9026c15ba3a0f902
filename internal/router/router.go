package router

import (
	"time"

	"github.com/srouini/SmartStore/internal/config"
	"github.com/srouini/SmartStore/internal/handler"
	"github.com/srouini/SmartStore/internal/infra"
	"github.com/srouini/SmartStore/internal/middleware"
	"github.com/srouini/SmartStore/internal/repository"
	"github.com/srouini/SmartStore/internal/service"
	"github.com/srouini/SmartStore/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus the
// background worker pool (started by the caller).
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *worker.Pool) {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	caisseRepo := repository.NewCaisseRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	stockSvc := service.NewStockService(stockRepo, productRepo)
	productSvc := service.NewProductService(productRepo, stockSvc, rdb)
	caisseSvc := service.NewCaisseService(caisseRepo)
	invoiceSvc := service.NewInvoiceService(invoiceRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	saleSvc := service.NewSaleService(saleRepo, invoiceRepo, productRepo, stockSvc, caisseSvc, dispatcher)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, stockSvc, caisseSvc, decimal.NewFromFloat(cfg.TVARatePct))
	supplierSvc := service.NewSupplierService(supplierRepo)

	// ── Workers ──────────────────────────────────────────────────────────────
	invoiceWorker := worker.NewInvoiceWorker(invoiceRepo, dispatcher, rdb, cfg.PDFStoragePath, cfg.StoreName)
	emailWorker := worker.NewEmailWorker(mailer)
	pool := worker.NewPool(rdb, invoiceWorker, emailWorker)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	caisseH := handler.NewCaisseHandler(caisseSvc)
	priceH := handler.NewPriceLookupHandler(productRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/price/:code", priceH.GetPriceByCode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operator, supervisor, admin — declared per-endpoint
		anyRole := middleware.RequireRole("operator", "supervisor", "admin")
		elevated := middleware.RequireRole("supervisor", "admin")
		adminOnly := middleware.RequireRole("admin")

		v1.POST("/sales", anyRole, salesH.RecordSale)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.DELETE("/sales/:id", elevated, salesH.CancelSale)

		v1.GET("/invoices", anyRole, invoicesH.List)
		v1.GET("/invoices/:id", anyRole, invoicesH.Get)
		v1.GET("/invoices/:id/pdf", anyRole, invoicesH.DownloadPDF)

		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.GetByID)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.DELETE("/:id", productsH.Deactivate)
		}

		stock := v1.Group("/stock")
		{
			stock.GET("", anyRole, stockH.ListLevels)
			stock.GET("/movements", anyRole, stockH.ListMovements)
			stock.POST("/add", elevated, stockH.Add)
			stock.POST("/adjust", elevated, stockH.Adjust)
		}

		purchases := v1.Group("/purchases", elevated)
		{
			purchases.POST("", purchasesH.RecordPurchase)
			purchases.GET("", purchasesH.List)
			purchases.GET("/:id", purchasesH.Get)
			purchases.PUT("/:id/items", purchasesH.ReplaceItems)
		}

		suppliers := v1.Group("/suppliers", elevated)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}

		caisses := v1.Group("/caisses")
		{
			caisses.POST("", adminOnly, caisseH.Create)
			caisses.GET("", anyRole, caisseH.List)
			caisses.GET("/:id", anyRole, caisseH.Get)
			caisses.POST("/:id/deposit", anyRole, caisseH.Deposit)
			caisses.POST("/:id/withdraw", elevated, caisseH.Withdraw)
			caisses.GET("/:id/operations", anyRole, caisseH.ListOperations)
			caisses.GET("/:id/reconcile", elevated, caisseH.Reconcile)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, pool
}
