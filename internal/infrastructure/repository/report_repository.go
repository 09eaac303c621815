package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// reportRepository runs the read-only aggregation queries through sqlx over
// the same connection pool gorm uses.
type reportRepository struct {
	db  *sqlx.DB
	loc *time.Location
}

// NewReportRepository creates a report repository. loc decides calendar days for daily sales.
func NewReportRepository(db *sqlx.DB, loc *time.Location) domainRepo.ReportRepository {
	if loc == nil {
		loc = time.Local
	}
	return &reportRepository{db: db, loc: loc}
}

type storeLogRow struct {
	ID        uint      `db:"id"`
	UserID    uint      `db:"user_id"`
	UserEmail string    `db:"user_email"`
	Action    string    `db:"action"`
	Timestamp time.Time `db:"timestamp"`
	Branch    string    `db:"branch"`
}

type orderRow struct {
	ID            uint            `db:"id"`
	UserID        uint            `db:"user_id"`
	Total         decimal.Decimal `db:"total"`
	PaymentMethod string          `db:"payment_method"`
	Branch        string          `db:"branch"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (r *reportRepository) StoreLogsSince(ctx context.Context, since *time.Time) ([]entity.StoreHoursLog, error) {
	query := `SELECT id, user_id, user_email, action, timestamp, branch FROM store_hours_logs`
	var args []interface{}
	if since != nil {
		query += ` WHERE timestamp >= ?`
		args = append(args, *since)
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	var rows []storeLogRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select store logs: %w", err)
	}

	logs := make([]entity.StoreHoursLog, len(rows))
	for i, row := range rows {
		logs[i] = entity.StoreHoursLog{
			ID:        row.ID,
			UserID:    row.UserID,
			UserEmail: row.UserEmail,
			Action:    enum.StoreAction(row.Action),
			Timestamp: row.Timestamp,
			Branch:    row.Branch,
		}
	}
	return logs, nil
}

func (r *reportRepository) OrdersSince(ctx context.Context, since *time.Time) ([]entity.Order, error) {
	query := `SELECT id, user_id, total, payment_method, branch, created_at FROM orders WHERE is_void = ?`
	args := []interface{}{false}
	if since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *since)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	orders := make([]entity.Order, len(rows))
	for i, row := range rows {
		orders[i] = entity.Order{
			ID:            row.ID,
			UserID:        row.UserID,
			Total:         row.Total,
			PaymentMethod: enum.PaymentMethod(row.PaymentMethod),
			Branch:        row.Branch,
			CreatedAt:     row.CreatedAt,
		}
	}
	return orders, nil
}

func (r *reportRepository) GrossBefore(ctx context.Context, t time.Time) (decimal.Decimal, error) {
	var gross decimal.NullDecimal
	query := r.db.Rebind(`SELECT SUM(total) FROM orders WHERE is_void = ? AND created_at < ?`)
	if err := r.db.GetContext(ctx, &gross, query, false, t); err != nil {
		return decimal.Zero, fmt.Errorf("sum gross: %w", err)
	}
	if !gross.Valid {
		return decimal.Zero, nil
	}
	return gross.Decimal, nil
}

func (r *reportRepository) Summary(ctx context.Context, branch string, from, to time.Time) (*domainRepo.SalesSummary, error) {
	query := `
		SELECT
			SUM(CASE WHEN is_void = ? THEN total ELSE 0 END) AS gross,
			SUM(CASE WHEN is_void = ? THEN 1 ELSE 0 END) AS order_count,
			SUM(CASE WHEN is_void = ? THEN 1 ELSE 0 END) AS void_count
		FROM orders
		WHERE created_at >= ? AND created_at < ?`
	args := []interface{}{false, false, true, from, to}
	if branch != "" {
		query += ` AND branch = ?`
		args = append(args, branch)
	}

	var row struct {
		Gross      decimal.NullDecimal `db:"gross"`
		OrderCount *int64              `db:"order_count"`
		VoidCount  *int64              `db:"void_count"`
	}
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("summarize orders: %w", err)
	}

	summary := &domainRepo.SalesSummary{Gross: decimal.Zero}
	if row.Gross.Valid {
		summary.Gross = row.Gross.Decimal
	}
	if row.OrderCount != nil {
		summary.OrderCount = *row.OrderCount
	}
	if row.VoidCount != nil {
		summary.VoidCount = *row.VoidCount
	}
	return summary, nil
}

// DailySales buckets in Go rather than SQL because DATE() grouping differs
// between the supported drivers.
func (r *reportRepository) DailySales(ctx context.Context, branch string, from, to time.Time) ([]domainRepo.DailySalesResult, error) {
	query := `SELECT id, user_id, total, payment_method, branch, created_at FROM orders
		WHERE is_void = ? AND created_at >= ? AND created_at < ?`
	args := []interface{}{false, from, to}
	if branch != "" {
		query += ` AND branch = ?`
		args = append(args, branch)
	}

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select daily sales: %w", err)
	}

	byDay := make(map[string]*domainRepo.DailySalesResult)
	for d := from.In(r.loc); d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		byDay[key] = &domainRepo.DailySalesResult{Date: key, Revenue: decimal.Zero}
	}
	for _, row := range rows {
		key := row.CreatedAt.In(r.loc).Format("2006-01-02")
		day, ok := byDay[key]
		if !ok {
			day = &domainRepo.DailySalesResult{Date: key, Revenue: decimal.Zero}
			byDay[key] = day
		}
		day.Revenue = day.Revenue.Add(row.Total)
		day.OrderCount++
	}

	results := make([]domainRepo.DailySalesResult, 0, len(byDay))
	for _, d := range byDay {
		results = append(results, *d)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}
