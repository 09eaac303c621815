package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/config"
	"github.com/sangkips/cafepos-api/internal/domain/attendance"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/store"
	"github.com/sangkips/cafepos-api/internal/infrastructure/database"
	"github.com/sangkips/cafepos-api/internal/infrastructure/repository"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cafepos-api/internal/presentation/http/handler"
	"github.com/sangkips/cafepos-api/internal/presentation/http/middleware"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/printer"
	"github.com/sangkips/cafepos-api/pkg/utils"
)

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, request.RegisterValidators())

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{Email: "admin@cafe.test", Password: "admin12345"}, "main"))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	x, err := database.SQLX(db, "sqlite")
	require.NoError(t, err)

	loc := time.UTC
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	storeLogRepo := repository.NewStoreHoursLogRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	reportRepo := repository.NewReportRepository(x, loc)

	gate := store.NewGate(storeLogRepo)
	terminals := pos.NewRegistry()

	catalog := service.NewCatalogService(repository.NewProductRepository(db), repository.NewAddonRepository(db), repository.NewUpgradeRepository(db))
	printing := service.NewPrinterService(printer.NewNullPrinter(), orderRepo, entity.ReceiptHeader{StoreName: "Test Cafe"}, 32, loc)
	orders := service.NewOrderService(orderRepo, catalog, gate, printing, "OR")
	reports := service.NewReportService(reportRepo, loc)
	employees := service.NewEmployeeService(employeeRepo, repository.NewAttendanceRepository(db), attendance.DefaultPolicy, loc)

	h := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, jwt, terminals, nil, "main")),
		User:      handler.NewUserHandler(service.NewUserService(userRepo, "main")),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(reportRepo, employeeRepo, gate, loc)),
		Catalog:   handler.NewCatalogHandler(catalog),
		Store:     handler.NewStoreHandler(service.NewStoreService(gate, storeLogRepo, reports, nil, nil, "Test Cafe", loc), loc),
		Pos:       handler.NewPosHandler(service.NewPosService(terminals, catalog, orders, gate)),
		Order:     handler.NewOrderHandler(orders, printing, loc),
		Employee:  handler.NewEmployeeHandler(employees, loc),
		Report:    handler.NewReportHandler(reports, loc),
		Printer:   handler.NewPrinterHandler(printing),
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 1000, BurstSize: 1000})
	t.Cleanup(limiter.Stop)

	cfg := &config.Config{App: config.AppConfig{Name: "cafepos-test"}}
	return &api{t: t, router: Setup(h, &Deps{
		JWTManager:      jwt,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
	})}
}

func (a *api) do(method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *api) login(email, password string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.AccessToken
}

func TestHealthAndAuthRequired(t *testing.T) {
	a := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := a.do(http.MethodGet, "/menu", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = a.do(http.MethodGet, "/menu", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin@cafe.test", "admin12345")

	w, env := a.do(http.MethodPost, "/products", admin, gin.H{"name": "Latte", "category": "Coffee", "price": 100, "description_type": "coffee"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	w, _ = a.do(http.MethodPost, "/auth/register", "", gin.H{
		"name": "Cara", "email": "cara@cafe.test", "password": "password1", "password_confirm": "password1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cashier := a.login("cara@cafe.test", "password1")

	// cashiers cannot edit the catalog
	w, _ = a.do(http.MethodPost, "/products", cashier, gin.H{"name": "Mocha", "price": 120})
	assert.Equal(t, http.StatusForbidden, w.Code)

	item := gin.H{"product_id": product.ID}
	w, _ = a.do(http.MethodPost, "/pos/cart/items", cashier, item)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(http.MethodPost, "/store/open", cashier, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, "/pos/cart/items", cashier, item)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = a.do(http.MethodPut, "/pos/cart/discounts", cashier, gin.H{"senior_pwd": true, "employee": true})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = a.do(http.MethodPut, "/pos/cart/payment", cashier, gin.H{"payment_method": "cash", "tendered": 100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cart struct {
		Total    decimal.Decimal `json:"total"`
		Change   decimal.Decimal `json:"change"`
		Tendered string          `json:"tendered"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "76", cart.Total.String())
	assert.Equal(t, "24", cart.Change.String())
	assert.Equal(t, "100", cart.Tendered)

	w, env = a.do(http.MethodPost, "/pos/cart/checkout", cashier, nil, middleware.IdempotencyKeyHeader, "checkout-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result struct {
		Order struct {
			ID     uint            `json:"id"`
			Total  decimal.Decimal `json:"total"`
			Change decimal.Decimal `json:"change"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "76", result.Order.Total.String())
	assert.Equal(t, "24", result.Order.Change.String())

	replay, _ := a.do(http.MethodPost, "/pos/cart/checkout", cashier, nil, middleware.IdempotencyKeyHeader, "checkout-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))

	// without the key the now empty cart is rejected
	w, _ = a.do(http.MethodPost, "/pos/cart/checkout", cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	orderPath := fmt.Sprintf("/orders/%d", result.Order.ID)
	w, _ = a.do(http.MethodGet, orderPath+"/receipt", cashier, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPost, orderPath+"/void", cashier, gin.H{"reason": "mistake"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = a.do(http.MethodPost, orderPath+"/void", admin, gin.H{"reason": "mistake"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = a.do(http.MethodPost, orderPath+"/void", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(http.MethodGet, "/reports/sessions?from=2000-01-01", cashier, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, env = a.do(http.MethodGet, "/reports/sessions", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sessions []struct {
		UserEmail    string          `json:"user_email"`
		SessionSales decimal.Decimal `json:"session_sales"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "cara@cafe.test", sessions[0].UserEmail)
	assert.True(t, sessions[0].SessionSales.IsZero())
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin@cafe.test", "admin12345")

	w, env := a.do(http.MethodPost, "/employees", admin, gin.H{"name": "Dee", "username": "dee", "pin": "12"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "pin", env.Errors[0].Field)

	w, _ = a.do(http.MethodPost, "/employees", admin, gin.H{"name": "Dee", "username": "dee", "pin": "1234"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, "/employees/1/clock-in", admin, gin.H{"pin": "9999"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = a.do(http.MethodPost, "/employees/1/clock-in", admin, gin.H{"pin": "1234"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodGet, "/attendance?from=14-03-2026", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = a.do(http.MethodGet, "/orders/abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
