package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/report"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/domain/store"
	"github.com/sangkips/cafepos-api/internal/logger"
	"github.com/sangkips/cafepos-api/pkg/email"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"github.com/sangkips/cafepos-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

const summaryTimeout = 30 * time.Second

// StoreService opens and closes branches and reports their status
type StoreService struct {
	gate       *store.Gate
	logRepo    repository.StoreHoursLogRepository
	reports    *ReportService
	mailer     *email.EmailService
	recipients []string
	storeName  string
	loc        *time.Location
	async      func(func())
}

// NewStoreService creates a new store service. A nil mailer disables session summary emails.
func NewStoreService(
	gate *store.Gate,
	logRepo repository.StoreHoursLogRepository,
	reports *ReportService,
	mailer *email.EmailService,
	recipients []string,
	storeName string,
	loc *time.Location,
) *StoreService {
	if loc == nil {
		loc = time.Local
	}
	return &StoreService{
		gate:       gate,
		logRepo:    logRepo,
		reports:    reports,
		mailer:     mailer,
		recipients: recipients,
		storeName:  storeName,
		loc:        loc,
		async:      func(f func()) { go f() },
	}
}

// StoreStatus is whether a branch is taking orders
type StoreStatus struct {
	Branch     string                `json:"branch"`
	IsOpen     bool                  `json:"is_open"`
	LastChange *entity.StoreHoursLog `json:"last_change,omitempty"`
}

// Status returns the status of branch
func (s *StoreService) Status(ctx context.Context, branch string) (*StoreStatus, error) {
	open, err := s.gate.IsOpen(ctx, branch)
	if err != nil {
		return nil, err
	}
	last, err := s.logRepo.Latest(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("load last store change: %w", err)
	}
	return &StoreStatus{Branch: branch, IsOpen: open, LastChange: last}, nil
}

// Open opens the actor's branch
func (s *StoreService) Open(ctx context.Context, actor Actor) (*StoreStatus, error) {
	entry, err := s.gate.Open(ctx, actor.Branch, actor.gateActor())
	if err != nil {
		return nil, err
	}
	return s.changed(entry), nil
}

// Close closes the actor's branch and emails the summary of the session it ended
func (s *StoreService) Close(ctx context.Context, actor Actor) (*StoreStatus, error) {
	entry, err := s.gate.Close(ctx, actor.Branch, actor.gateActor())
	if err != nil {
		return nil, err
	}
	return s.changed(entry), nil
}

// Toggle opens the actor's branch when closed and closes it when open
func (s *StoreService) Toggle(ctx context.Context, actor Actor) (*StoreStatus, error) {
	entry, err := s.gate.Toggle(ctx, actor.Branch, actor.gateActor())
	if err != nil {
		return nil, err
	}
	return s.changed(entry), nil
}

func (s *StoreService) changed(entry *entity.StoreHoursLog) *StoreStatus {
	logger.L().WithFields(logrus.Fields{
		"branch": entry.Branch,
		"action": entry.Action,
		"user":   entry.UserEmail,
	}).Info("Store status changed")

	if entry.Action == enum.StoreActionClose && s.mailer != nil && len(s.recipients) > 0 {
		closed := *entry
		s.async(func() {
			ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
			defer cancel()
			if err := s.sendSessionSummary(ctx, &closed); err != nil {
				logger.L().WithError(err).WithField("branch", closed.Branch).Warn("Session summary email was not sent")
			}
		})
	}

	return &StoreStatus{
		Branch:     entry.Branch,
		IsOpen:     entry.Action == enum.StoreActionOpen,
		LastChange: entry,
	}
}

func (s *StoreService) sendSessionSummary(ctx context.Context, closeLog *entity.StoreHoursLog) error {
	sess, err := s.reports.SessionClosedBy(ctx, closeLog)
	if err != nil {
		return err
	}
	if sess == nil {
		logger.L().WithField("user", closeLog.UserEmail).Debug("Closed store without an open session for this account")
		return nil
	}

	summary := email.SessionSummary{
		StoreName:   s.storeName,
		Branch:      sess.Branch,
		Cashier:     sess.UserEmail,
		OpenedAt:    sess.Login.In(s.loc).Format("Jan 2, 2006 3:04 PM"),
		ClosedAt:    sess.Logout.In(s.loc).Format("Jan 2, 2006 3:04 PM"),
		Duration:    sess.DurationLabel,
		SessionSale: utils.FormatPeso(sess.SessionSales),
		OrderCount:  sess.OrderCount,
	}
	for _, p := range sess.Payments {
		summary.Payments = append(summary.Payments, email.SessionLine{
			Label: fmt.Sprintf("%s (%d)", p.Method, p.Count),
			Value: utils.FormatPeso(p.Total),
		})
	}

	workbook, err := s.reports.Workbook([]report.Session{*sess})
	if err != nil {
		return err
	}
	attachment := email.Attachment{
		Filename: fmt.Sprintf("session-%s.xlsx", sess.Login.In(s.loc).Format("20060102-1504")),
		Content:  workbook,
	}
	return s.mailer.SendSessionSummary(s.recipients, summary, attachment)
}

// Logs returns the open/close history of branch, newest first
func (s *StoreService) Logs(ctx context.Context, branch string, from, to *time.Time, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StoreHoursLog], error) {
	params.Validate()
	logs, total, err := s.logRepo.List(ctx, branch, from, to, params)
	if err != nil {
		return nil, fmt.Errorf("list store logs: %w", err)
	}
	return pagination.NewPaginatedResult(logs, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
