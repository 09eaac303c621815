package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/config"
	"github.com/sangkips/cafepos-api/internal/domain/attendance"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/store"
	"github.com/sangkips/cafepos-api/internal/infrastructure/database"
	"github.com/sangkips/cafepos-api/internal/infrastructure/repository"
	"github.com/sangkips/cafepos-api/internal/logger"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cafepos-api/internal/presentation/http/handler"
	"github.com/sangkips/cafepos-api/internal/presentation/http/middleware"
	"github.com/sangkips/cafepos-api/internal/presentation/http/routes"
	"github.com/sangkips/cafepos-api/pkg/email"
	"github.com/sangkips/cafepos-api/pkg/oauth"
	"github.com/sangkips/cafepos-api/pkg/printer"
	"github.com/sangkips/cafepos-api/pkg/utils"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log)
	log := logger.L()
	if cfg.EnvFileErr != nil {
		log.WithError(cfg.EnvFileErr).Warn(".env file not found, using environment variables")
	}

	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := request.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedDefaultData(db, cfg.Admin, cfg.Store.DefaultBranch); err != nil {
		log.Warnf("Failed to seed default data: %v", err)
	}
	sqlxDB, err := database.SQLX(db, cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Failed to open report connection: %v", err)
	}

	loc := cfg.Attendance.Location()

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	addonRepo := repository.NewAddonRepository(db)
	upgradeRepo := repository.NewUpgradeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	storeLogRepo := repository.NewStoreHoursLogRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	reportRepo := repository.NewReportRepository(sqlxDB, loc)

	gate := store.NewGate(storeLogRepo)
	terminals := pos.NewRegistry()

	var mailer *email.EmailService
	if cfg.Email.SMTPConfigured() {
		mailer = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
	} else {
		log.Info("SMTP is not configured, session summaries will not be emailed")
	}

	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
		StateSecret:        cfg.JWT.Secret,
	})

	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warnf("Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Services
	header := entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Branch:    cfg.Store.DefaultBranch,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
	}
	policy := attendance.Policy{StartHour: cfg.Attendance.WorkStartHour, RegularHours: cfg.Attendance.RegularHours}

	authService := service.NewAuthService(userRepo, jwtManager, terminals, googleOAuthService, cfg.Store.DefaultBranch)
	userService := service.NewUserService(userRepo, cfg.Store.DefaultBranch)
	catalogService := service.NewCatalogService(productRepo, addonRepo, upgradeRepo)
	printerService := service.NewPrinterService(thermalPrinter, orderRepo, header, cfg.Printer.CharWidth, loc)
	orderService := service.NewOrderService(orderRepo, catalogService, gate, printerService, cfg.Store.InvoicePrefix)
	posService := service.NewPosService(terminals, catalogService, orderService, gate)
	employeeService := service.NewEmployeeService(employeeRepo, attendanceRepo, policy, loc)
	reportService := service.NewReportService(reportRepo, loc)
	storeService := service.NewStoreService(gate, storeLogRepo, reportService, mailer, cfg.Email.ReportTo, cfg.Store.Name, loc)
	dashboardService := service.NewDashboardService(reportRepo, employeeRepo, gate, loc)

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Store:     handler.NewStoreHandler(storeService, loc),
		Pos:       handler.NewPosHandler(posService),
		Order:     handler.NewOrderHandler(orderService, printerService, loc),
		Employee:  handler.NewEmployeeHandler(employeeService, loc),
		Report:    handler.NewReportHandler(reportService, loc),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	limiter := routes.NewRateLimiter(cfg.RateLimit)
	defer limiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     limiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go middleware.PurgeExpiredKeys(ctx, idempotencyRepo, time.Hour)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"port":    port,
			"env":     cfg.App.Env,
			"db":      cfg.Database.Driver,
			"printer": thermalPrinter.Kind(),
		}).Infof("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
