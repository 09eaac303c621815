// Package report aggregates sales per cashier session.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PaymentSummary is the session total for one payment method.
type PaymentSummary struct {
	Method enum.PaymentMethod `json:"method"`
	Total  decimal.Decimal    `json:"total"`
	Count  int                `json:"count"`
}

// Session is one cashier session: an "open" log entry and the sales made
// by that cashier until their next "close".
type Session struct {
	LogID         uint             `json:"log_id"`
	UserID        uint             `json:"user_id"`
	UserEmail     string           `json:"user_email"`
	Branch        string           `json:"branch"`
	Login         time.Time        `json:"login"`
	Logout        *time.Time       `json:"logout"`
	StillOpen     bool             `json:"still_open"`
	Duration      time.Duration    `json:"-"`
	DurationLabel string           `json:"duration"`
	SessionSales  decimal.Decimal  `json:"session_sales"`
	OrderCount    int              `json:"order_count"`
	StartGross    decimal.Decimal  `json:"start_gross"`
	EndGross      decimal.Decimal  `json:"end_gross"`
	Payments      []PaymentSummary `json:"payments"`
}

// Filter narrows the sessions returned. Date bounds apply to the login time;
// To is exclusive.
type Filter struct {
	Branch string
	From   *time.Time
	To     *time.Time
}

func (f Filter) match(l entity.StoreHoursLog) bool {
	if f.Branch != "" && l.Branch != f.Branch {
		return false
	}
	if f.From != nil && l.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && !l.Timestamp.Before(*f.To) {
		return false
	}
	return true
}

// Input is the raw material for a session report.
type Input struct {
	Logs   []entity.StoreHoursLog
	Orders []entity.Order
	// PriorGross is the total of non-void orders older than every order in Orders.
	PriorGross decimal.Decimal
}

// BuildSessions turns the store hours log and the orders into session rows,
// newest login first. Close entries only mark session ends. Voided orders are
// ignored everywhere. now ends sessions that are still open.
func BuildSessions(in Input, filter Filter, now time.Time) []Session {
	sorted := make([]entity.StoreHoursLog, len(in.Logs))
	copy(sorted, in.Logs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	ledger := newLedger(in.Orders, in.PriorGross)

	sessions := make([]Session, 0)
	for i, l := range sorted {
		if l.Action != enum.StoreActionOpen || !filter.match(l) {
			continue
		}

		s := Session{
			LogID:     l.ID,
			UserID:    l.UserID,
			UserEmail: l.UserEmail,
			Branch:    l.Branch,
			Login:     l.Timestamp,
		}

		end := now
		if logout := nextClose(sorted[i+1:], l); logout != nil {
			t := *logout
			s.Logout = &t
			end = t
		} else {
			s.StillOpen = true
		}
		s.Duration = end.Sub(s.Login)
		s.DurationLabel = FormatDuration(s.Duration)

		s.SessionSales, s.OrderCount, s.Payments = ledger.sessionSales(l.UserID, s.Login, s.Logout)
		s.StartGross = ledger.grossBefore(s.Login)
		s.EndGross = s.StartGross.Add(s.SessionSales)

		sessions = append(sessions, s)
	}

	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Login.After(sessions[j].Login) })
	return sessions
}

// nextClose finds the first close entry by the same user strictly after open.
func nextClose(later []entity.StoreHoursLog, open entity.StoreHoursLog) *time.Time {
	for _, l := range later {
		if l.Action == enum.StoreActionClose && l.UserEmail == open.UserEmail && l.Timestamp.After(open.Timestamp) {
			t := l.Timestamp
			return &t
		}
	}
	return nil
}

// ledger holds non-void orders in time order with running totals.
type ledger struct {
	orders     []entity.Order
	cumulative []decimal.Decimal // cumulative[i] is the sum of orders[:i]
}

func newLedger(orders []entity.Order, prior decimal.Decimal) *ledger {
	l := &ledger{}
	for _, o := range orders {
		if !o.IsVoid {
			l.orders = append(l.orders, o)
		}
	}
	sort.SliceStable(l.orders, func(i, j int) bool { return l.orders[i].CreatedAt.Before(l.orders[j].CreatedAt) })

	l.cumulative = make([]decimal.Decimal, len(l.orders)+1)
	l.cumulative[0] = prior
	for i, o := range l.orders {
		l.cumulative[i+1] = l.cumulative[i].Add(o.Total)
	}
	return l
}

// grossBefore sums every order created strictly before t.
func (l *ledger) grossBefore(t time.Time) decimal.Decimal {
	n := sort.Search(len(l.orders), func(i int) bool { return !l.orders[i].CreatedAt.Before(t) })
	return l.cumulative[n]
}

func (l *ledger) sessionSales(userID uint, login time.Time, logout *time.Time) (decimal.Decimal, int, []PaymentSummary) {
	total := decimal.Zero
	count := 0
	byMethod := make(map[enum.PaymentMethod]*PaymentSummary)

	start := sort.Search(len(l.orders), func(i int) bool { return !l.orders[i].CreatedAt.Before(login) })
	for _, o := range l.orders[start:] {
		if logout != nil && !o.CreatedAt.Before(*logout) {
			break
		}
		if o.UserID != userID {
			continue
		}
		total = total.Add(o.Total)
		count++

		ps, ok := byMethod[o.PaymentMethod]
		if !ok {
			ps = &PaymentSummary{Method: o.PaymentMethod, Total: decimal.Zero}
			byMethod[o.PaymentMethod] = ps
		}
		ps.Total = ps.Total.Add(o.Total)
		ps.Count++
	}

	payments := make([]PaymentSummary, 0, len(byMethod))
	for _, m := range enum.PaymentMethods {
		if ps, ok := byMethod[m]; ok {
			payments = append(payments, *ps)
			delete(byMethod, m)
		}
	}
	// methods recorded before the current list was fixed
	rest := make([]PaymentSummary, 0, len(byMethod))
	for _, ps := range byMethod {
		rest = append(rest, *ps)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Method < rest[j].Method })

	return total, count, append(payments, rest...)
}

// FormatDuration renders a session length as "3h 05m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}
