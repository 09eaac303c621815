package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/cafepos-api/internal/config"
	"github.com/sangkips/cafepos-api/internal/domain/attendance"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/store"
	"github.com/sangkips/cafepos-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/cafepos-api/internal/infrastructure/repository"
	"github.com/sangkips/cafepos-api/pkg/email"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"github.com/sangkips/cafepos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type capturePrinter struct {
	mu   sync.Mutex
	jobs [][]byte
}

func (p *capturePrinter) Print(_ context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *capturePrinter) Kind() string      { return "test" }
func (p *capturePrinter) IsConnected() bool { return true }

func (p *capturePrinter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

type captureSender struct {
	messages []*gomail.Message
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return nil
}

type testEnv struct {
	db        *gorm.DB
	terminals *pos.Registry
	gate      *store.Gate
	printer   *capturePrinter
	sender    *captureSender

	auth      *AuthService
	users     *UserService
	catalog   *CatalogService
	orders    *OrderService
	pos       *PosService
	employees *EmployeeService
	reports   *ReportService
	stores    *StoreService
	dashboard *DashboardService
	printing  *PrinterService

	latte, croissant *entity.Product
	shot             *entity.Addon
	grande           *entity.Upgrade
}

var (
	cashier = Actor{UserID: 1, Email: "cashier@cafe.test", Role: enum.RoleCashier, Branch: "main"}
	manager = Actor{UserID: 2, Email: "manager@cafe.test", Role: enum.RoleManager, Branch: "main"}
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	x, err := database.SQLX(db, "sqlite")
	require.NoError(t, err)

	userRepo := infraRepo.NewUserRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	addonRepo := infraRepo.NewAddonRepository(db)
	upgradeRepo := infraRepo.NewUpgradeRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	employeeRepo := infraRepo.NewEmployeeRepository(db)
	attendanceRepo := infraRepo.NewAttendanceRepository(db)
	storeLogRepo := infraRepo.NewStoreHoursLogRepository(db)
	reportRepo := infraRepo.NewReportRepository(x, time.UTC)

	env := &testEnv{
		db:        db,
		terminals: pos.NewRegistry(),
		gate:      store.NewGate(storeLogRepo),
		printer:   &capturePrinter{},
		sender:    &captureSender{},
	}

	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	env.auth = NewAuthService(userRepo, jwt, env.terminals, nil, "main")
	env.users = NewUserService(userRepo, "main")
	env.catalog = NewCatalogService(productRepo, addonRepo, upgradeRepo)
	env.printing = NewPrinterService(env.printer, orderRepo, entity.ReceiptHeader{StoreName: "Test Cafe"}, 32, time.UTC)
	env.orders = NewOrderService(orderRepo, env.catalog, env.gate, env.printing, "OR")
	env.pos = NewPosService(env.terminals, env.catalog, env.orders, env.gate)
	env.employees = NewEmployeeService(employeeRepo, attendanceRepo, attendance.DefaultPolicy, time.UTC)
	env.reports = NewReportService(reportRepo, time.UTC)
	mailer := email.NewEmailServiceWithSender(email.EmailConfig{FromEmail: "pos@cafe.test", FromName: "Test Cafe"}, env.sender)
	env.stores = NewStoreService(env.gate, storeLogRepo, env.reports, mailer, []string{"owner@cafe.test"}, "Test Cafe", time.UTC)
	env.stores.async = func(f func()) { f() }
	env.dashboard = NewDashboardService(reportRepo, employeeRepo, env.gate, time.UTC)

	env.latte, err = env.catalog.CreateProduct(ctx, &ProductInput{Name: "Latte", Category: "Coffee", Price: decimal.NewFromInt(100), DescriptionType: "coffee"})
	require.NoError(t, err)
	env.croissant, err = env.catalog.CreateProduct(ctx, &ProductInput{Name: "Croissant", Category: "Pastry", Price: decimal.NewFromInt(85), DescriptionType: "pastry"})
	require.NoError(t, err)
	env.shot, err = env.catalog.CreateAddon(ctx, &OptionInput{Name: "Extra shot", Price: decimal.NewFromInt(30)})
	require.NoError(t, err)
	env.grande, err = env.catalog.CreateUpgrade(ctx, &OptionInput{Name: "Grande", Price: decimal.NewFromInt(140)})
	require.NoError(t, err)

	return env
}

func (e *testEnv) openStore(t *testing.T, actor Actor) {
	t.Helper()
	_, err := e.stores.Open(context.Background(), actor)
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultPage() *pagination.PaginationParams {
	return pagination.DefaultPagination()
}
