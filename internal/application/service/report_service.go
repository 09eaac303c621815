package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/report"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/pkg/export"
	"github.com/shopspring/decimal"
)

// closedSessionLookback bounds how far back a just-closed session is searched for.
const closedSessionLookback = 7 * 24 * time.Hour

// ReportService builds cashier session reports
type ReportService struct {
	reportRepo repository.ReportRepository
	loc        *time.Location
	now        func() time.Time
}

// NewReportService creates a new report service. loc is used for dates in exports.
func NewReportService(reportRepo repository.ReportRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{reportRepo: reportRepo, loc: loc, now: time.Now}
}

// Sessions returns one row per store opening matching filter, newest first.
func (s *ReportService) Sessions(ctx context.Context, filter report.Filter) ([]report.Session, error) {
	logs, err := s.reportRepo.StoreLogsSince(ctx, filter.From)
	if err != nil {
		return nil, fmt.Errorf("load store logs: %w", err)
	}
	orders, err := s.reportRepo.OrdersSince(ctx, filter.From)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	prior := decimal.Zero
	if filter.From != nil {
		if prior, err = s.reportRepo.GrossBefore(ctx, *filter.From); err != nil {
			return nil, fmt.Errorf("load prior gross: %w", err)
		}
	}

	return report.BuildSessions(report.Input{Logs: logs, Orders: orders, PriorGross: prior}, filter, s.now()), nil
}

// SessionClosedBy returns the session that a close log entry ended, or nil
// when the closing account had no open session.
func (s *ReportService) SessionClosedBy(ctx context.Context, closeLog *entity.StoreHoursLog) (*report.Session, error) {
	from := closeLog.Timestamp.Add(-closedSessionLookback)
	sessions, err := s.Sessions(ctx, report.Filter{Branch: closeLog.Branch, From: &from})
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		sess := &sessions[i]
		if sess.UserEmail != closeLog.UserEmail || sess.Logout == nil {
			continue
		}
		// databases may store timestamps at lower precision than time.Now
		if d := sess.Logout.Sub(closeLog.Timestamp); d > -time.Second && d < time.Second {
			return sess, nil
		}
	}
	return nil, nil
}

// Export renders the sessions matching filter into an .xlsx workbook
func (s *ReportService) Export(ctx context.Context, filter report.Filter) ([]byte, error) {
	sessions, err := s.Sessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.Workbook(sessions)
}

// Workbook renders sessions as a "Sessions" sheet and a per-payment-method "Payments" sheet.
func (s *ReportService) Workbook(sessions []report.Session) ([]byte, error) {
	main := export.Sheet{
		Name: "Sessions",
		Headers: []string{
			"Cashier", "Branch", "Login", "Logout", "Duration",
			"Orders", "Session Sales", "Starting Gross", "Ending Gross",
		},
		Rows:   make([][]interface{}, 0, len(sessions)),
		Widths: map[string]float64{"A": 28, "C": 18, "D": 18},
	}
	payments := export.Sheet{
		Name:    "Payments",
		Headers: []string{"Cashier", "Login", "Method", "Orders", "Total"},
		Widths:  map[string]float64{"A": 28, "B": 18},
	}

	for _, sess := range sessions {
		login := sess.Login.In(s.loc).Format("2006-01-02 15:04")
		logout := "Still open"
		if sess.Logout != nil {
			logout = sess.Logout.In(s.loc).Format("2006-01-02 15:04")
		}
		main.Rows = append(main.Rows, []interface{}{
			sess.UserEmail, sess.Branch, login, logout, sess.DurationLabel,
			sess.OrderCount, money(sess.SessionSales), money(sess.StartGross), money(sess.EndGross),
		})
		for _, p := range sess.Payments {
			payments.Rows = append(payments.Rows, []interface{}{
				sess.UserEmail, login, p.Method.String(), p.Count, money(p.Total),
			})
		}
	}

	return export.Write(main, payments)
}

// money converts an amount to a float for spreadsheet cells.
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
