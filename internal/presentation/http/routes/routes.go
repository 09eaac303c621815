package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/config"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/presentation/http/handler"
	"github.com/sangkips/cafepos-api/internal/presentation/http/middleware"
	"github.com/sangkips/cafepos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Dashboard *handler.DashboardHandler
	Catalog   *handler.CatalogHandler
	Store     *handler.StoreHandler
	Pos       *handler.PosHandler
	Order     *handler.OrderHandler
	Employee  *handler.EmployeeHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

var managers = middleware.RequireRole(enum.RoleManager, enum.RoleAdmin)

// NewRateLimiter builds the per-account limiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.RateLimiter {
	rps := 0.0
	if cfg.Duration > 0 {
		rps = float64(cfg.Requests) / float64(cfg.Duration)
	}
	return middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: rps,
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = NewRateLimiter(deps.Cfg.RateLimit)
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(limiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(limiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/dashboard", h.Dashboard.GetStats)

	registerCatalogRoutes(protected, h)
	registerStoreRoutes(protected, h)
	registerPosRoutes(protected, h, idempotent)
	registerOrderRoutes(protected, h, idempotent)
	registerEmployeeRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/menu", h.Catalog.GetMenu)

	products := protected.Group("/products")
	{
		products.GET("", h.Catalog.ListProducts)
		products.GET("/:id", h.Catalog.GetProduct)
		products.POST("", managers, h.Catalog.CreateProduct)
		products.POST("/import", managers, h.Catalog.ImportProducts)
		products.PUT("/:id", managers, h.Catalog.UpdateProduct)
		products.DELETE("/:id", managers, h.Catalog.DeleteProduct)
	}

	addons := protected.Group("/addons")
	{
		addons.GET("", h.Catalog.ListAddons)
		addons.POST("", managers, h.Catalog.CreateAddon)
		addons.PUT("/:id", managers, h.Catalog.UpdateAddon)
		addons.DELETE("/:id", managers, h.Catalog.DeleteAddon)
	}

	upgrades := protected.Group("/upgrades")
	{
		upgrades.GET("", h.Catalog.ListUpgrades)
		upgrades.POST("", managers, h.Catalog.CreateUpgrade)
		upgrades.PUT("/:id", managers, h.Catalog.UpdateUpgrade)
		upgrades.DELETE("/:id", managers, h.Catalog.DeleteUpgrade)
	}
}

func registerStoreRoutes(protected *gin.RouterGroup, h *Handlers) {
	store := protected.Group("/store")
	{
		store.GET("/status", h.Store.Status)
		store.POST("/open", h.Store.Open)
		store.POST("/close", h.Store.Close)
		store.POST("/toggle", h.Store.Toggle)
		store.GET("/logs", h.Store.Logs)
	}
}

func registerPosRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	cart := protected.Group("/pos/cart")
	{
		cart.GET("", h.Pos.GetCart)
		cart.DELETE("", h.Pos.ClearCart)
		cart.POST("/items", h.Pos.AddItem)
		cart.PUT("/items/:line_id", h.Pos.UpdateQuantity)
		cart.DELETE("/items/:line_id", h.Pos.RemoveLine)
		cart.PUT("/discounts", h.Pos.SetDiscounts)
		cart.PUT("/payment", h.Pos.SetPayment)
		cart.POST("/checkout", idempotent, h.Pos.Checkout)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", idempotent, h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/void", managers, h.Order.Void)
		orders.GET("/:id/receipt", h.Order.Receipt)
		orders.POST("/:id/print", h.Order.Print)
	}
}

func registerEmployeeRoutes(protected *gin.RouterGroup, h *Handlers) {
	employees := protected.Group("/employees")
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.GET("/:id", h.Employee.Get)
		employees.PUT("/:id", h.Employee.Update)
		employees.DELETE("/:id", managers, h.Employee.Delete)
		employees.POST("/:id/clock-in", h.Employee.ClockIn)
		employees.POST("/:id/clock-out", h.Employee.ClockOut)
		employees.GET("/:id/attendance", h.Employee.Attendance)
	}

	protected.GET("/attendance", h.Employee.ListAttendance)
	protected.GET("/attendance/export", h.Employee.ExportAttendance)
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(managers)
	{
		reports.GET("/sessions", h.Report.Sessions)
		reports.GET("/sessions/export", h.Report.ExportSessions)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(enum.RoleAdmin))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
