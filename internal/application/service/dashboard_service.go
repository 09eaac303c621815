package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/domain/store"
	"github.com/shopspring/decimal"
)

const dashboardDays = 7

// DashboardService provides dashboard statistics
type DashboardService struct {
	reportRepo   repository.ReportRepository
	employeeRepo repository.EmployeeRepository
	gate         *store.Gate
	loc          *time.Location
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	reportRepo repository.ReportRepository,
	employeeRepo repository.EmployeeRepository,
	gate *store.Gate,
	loc *time.Location,
) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		reportRepo:   reportRepo,
		employeeRepo: employeeRepo,
		gate:         gate,
		loc:          loc,
		now:          time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	Date           string            `json:"date"`
	Branch         string            `json:"branch"`
	StoreOpen      bool              `json:"store_open"`
	GrossSales     decimal.Decimal   `json:"gross_sales"`
	OrderCount     int64             `json:"order_count"`
	VoidCount      int64             `json:"void_count"`
	AverageTicket  decimal.Decimal   `json:"average_ticket"`
	OnDuty         int64             `json:"on_duty"`
	DailySalesData []DailySalesPoint `json:"daily_sales_data"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
}

// GetDashboardStats returns today's figures for branch and the last week of sales
func (s *DashboardService) GetDashboardStats(ctx context.Context, branch string) (*DashboardStats, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	tomorrow := today.AddDate(0, 0, 1)

	stats := &DashboardStats{
		Date:          today.Format("2006-01-02"),
		Branch:        branch,
		AverageTicket: decimal.Zero,
	}

	open, err := s.gate.IsOpen(ctx, branch)
	if err != nil {
		return nil, err
	}
	stats.StoreOpen = open

	summary, err := s.reportRepo.Summary(ctx, branch, today, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("summarize today: %w", err)
	}
	stats.GrossSales = summary.Gross
	stats.OrderCount = summary.OrderCount
	stats.VoidCount = summary.VoidCount
	if summary.OrderCount > 0 {
		stats.AverageTicket = summary.Gross.Div(decimal.NewFromInt(summary.OrderCount)).Round(2)
	}

	if stats.OnDuty, err = s.employeeRepo.CountOnDuty(ctx); err != nil {
		return nil, fmt.Errorf("count on-duty employees: %w", err)
	}

	days, err := s.reportRepo.DailySales(ctx, branch, today.AddDate(0, 0, 1-dashboardDays), tomorrow)
	if err != nil {
		return nil, fmt.Errorf("load daily sales: %w", err)
	}
	stats.DailySalesData = make([]DailySalesPoint, len(days))
	for i, d := range days {
		stats.DailySalesData[i] = DailySalesPoint{Date: d.Date, Revenue: d.Revenue, OrderCount: d.OrderCount}
	}

	return stats, nil
}
