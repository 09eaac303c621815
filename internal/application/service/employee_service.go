package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/attendance"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/logger"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/export"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"github.com/sangkips/cafepos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EmployeeService manages staff records and PIN-based clock in/out
type EmployeeService struct {
	employeeRepo   repository.EmployeeRepository
	attendanceRepo repository.AttendanceRepository
	policy         attendance.Policy
	loc            *time.Location
	now            func() time.Time
}

// NewEmployeeService creates a new employee service. loc decides "today" for attendance.
func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	attendanceRepo repository.AttendanceRepository,
	policy attendance.Policy,
	loc *time.Location,
) *EmployeeService {
	if loc == nil {
		loc = time.Local
	}
	return &EmployeeService{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		policy:         policy,
		loc:            loc,
		now:            time.Now,
	}
}

// EmployeeInput represents the fields of an employee create or update.
// An empty PIN on update keeps the current one.
type EmployeeInput struct {
	Name          string
	Username      string
	Email         string
	Address       string
	ContactNumber string
	DailyRate     *decimal.Decimal
	PIN           string
}

// ListEmployees returns a paginated list of employees
func (s *EmployeeService) ListEmployees(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Employee], error) {
	params.Validate()

	employees, total, err := s.employeeRepo.List(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return pagination.NewPaginatedResult(employees, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// GetEmployee returns an employee by ID
func (s *EmployeeService) GetEmployee(ctx context.Context, id uint) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}

// CreateEmployee creates an employee with a hashed PIN
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *EmployeeInput) (*entity.Employee, error) {
	if err := attendance.ValidatePIN(input.PIN); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	existing, err := s.employeeRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	pinHash, err := utils.HashPassword(input.PIN)
	if err != nil {
		return nil, err
	}

	employee := &entity.Employee{
		Name:          input.Name,
		Username:      username,
		Email:         input.Email,
		Address:       input.Address,
		ContactNumber: input.ContactNumber,
		DailyRate:     input.DailyRate,
		PINHash:       pinHash,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployee replaces an employee's details
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint, input *EmployeeInput) (*entity.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username != "" && username != employee.Username {
		existing, err := s.employeeRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Username already taken")
		}
		employee.Username = username
	}

	if input.PIN != "" {
		if err := attendance.ValidatePIN(input.PIN); err != nil {
			return nil, err
		}
		pinHash, err := utils.HashPassword(input.PIN)
		if err != nil {
			return nil, err
		}
		employee.PINHash = pinHash
	}

	employee.Name = input.Name
	employee.Email = input.Email
	employee.Address = input.Address
	employee.ContactNumber = input.ContactNumber
	employee.DailyRate = input.DailyRate

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return employee, nil
}

// DeleteEmployee removes the employee and their attendance history
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, id)
}

// ClockResult is the outcome of a clock-in or clock-out
type ClockResult struct {
	Employee      *entity.Employee         `json:"employee"`
	Record        *entity.AttendanceRecord `json:"record"`
	RecordUpdated bool                     `json:"record_updated"`
}

// ClockIn starts a shift after checking the employee's PIN
func (s *EmployeeService) ClockIn(ctx context.Context, id uint, pin string) (*ClockResult, error) {
	employee, err := s.authenticate(ctx, id, pin)
	if err != nil {
		return nil, err
	}

	record, err := attendance.ClockIn(employee, s.now().In(s.loc))
	if err != nil {
		return nil, err
	}
	if err := s.employeeRepo.SaveClockIn(ctx, employee, record); err != nil {
		employee.IsOnDuty = false
		if errors.Is(err, attendance.ErrAlreadyOnDuty) {
			return nil, err
		}
		return nil, fmt.Errorf("save clock in: %w", err)
	}

	logger.L().WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"time_in":     record.TimeIn,
	}).Info("Employee clocked in")
	return &ClockResult{Employee: employee, Record: record, RecordUpdated: true}, nil
}

// ClockOut ends today's open shift after checking the employee's PIN. When no
// open record exists for today the employee still goes off duty.
func (s *EmployeeService) ClockOut(ctx context.Context, id uint, pin string) (*ClockResult, error) {
	employee, err := s.authenticate(ctx, id, pin)
	if err != nil {
		return nil, err
	}
	if !employee.IsOnDuty {
		return nil, attendance.ErrNotOnDuty
	}

	now := s.now().In(s.loc)
	today := now.Format(attendance.DateLayout)
	records, err := s.attendanceRepo.ListOpenByDate(ctx, employee.ID, today)
	if err != nil {
		return nil, fmt.Errorf("list open attendance: %w", err)
	}
	open := attendance.FindOpenRecord(records, today)

	updated, err := attendance.ClockOut(employee, open, now)
	if err != nil {
		return nil, err
	}

	var record *entity.AttendanceRecord
	if updated {
		record = open
	}
	if err := s.employeeRepo.SaveClockOut(ctx, employee, record); err != nil {
		employee.IsOnDuty = true
		if errors.Is(err, attendance.ErrNotOnDuty) {
			return nil, err
		}
		return nil, fmt.Errorf("save clock out: %w", err)
	}

	entry := logger.L().WithField("employee_id", employee.ID)
	if !updated {
		entry.WithField("date", today).Warn("Clock-out found no open attendance record for today")
	} else {
		entry.WithField("time_out", *record.TimeOut).Info("Employee clocked out")
	}
	return &ClockResult{Employee: employee, Record: record, RecordUpdated: updated}, nil
}

func (s *EmployeeService) authenticate(ctx context.Context, id uint, pin string) (*entity.Employee, error) {
	if err := attendance.ValidatePIN(pin); err != nil {
		return nil, err
	}
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(pin, employee.PINHash) {
		return nil, apperror.ErrInvalidPIN
	}
	return employee, nil
}

// AttendanceRow is an attendance record with its computed hours
type AttendanceRow struct {
	entity.AttendanceRecord
	EmployeeName string               `json:"employee_name"`
	Hours        *attendance.WorkHours `json:"hours,omitempty"`
	TotalLabel   string               `json:"total_label"`
	LateLabel    string               `json:"late_label"`
	OTLabel      string               `json:"overtime_label"`
}

func (s *EmployeeService) row(r entity.AttendanceRecord) AttendanceRow {
	row := AttendanceRow{
		AttendanceRecord: r,
		TotalLabel:       attendance.FormatDuration(0),
		OTLabel:          attendance.FormatDuration(0),
	}
	if r.Employee != nil {
		row.EmployeeName = r.Employee.Name
		row.AttendanceRecord.Employee = nil
	}

	if late, err := s.policy.Late(r.TimeIn); err == nil {
		row.LateLabel = attendance.FormatDuration(late)
	}
	if r.TimeOut != nil {
		if h, err := s.policy.Calculate(r.TimeIn, *r.TimeOut); err == nil {
			row.Hours = &h
			row.TotalLabel = attendance.FormatTotal(h.Total)
			row.OTLabel = attendance.FormatDuration(h.Overtime)
		}
	}
	return row
}

// AttendanceQuery filters attendance listings. Dates are YYYY-MM-DD; To is inclusive.
type AttendanceQuery struct {
	Pagination *pagination.PaginationParams
	EmployeeID *uint
	From       *time.Time
	To         *time.Time
}

func (q *AttendanceQuery) params() *repository.AttendanceFilterParams {
	p := &repository.AttendanceFilterParams{
		Pagination: q.Pagination,
		EmployeeID: q.EmployeeID,
		From:       q.From,
	}
	if q.To != nil {
		to := q.To.AddDate(0, 0, 1)
		p.To = &to
	}
	return p
}

// ListAttendance returns attendance records, newest first, with computed hours
func (s *EmployeeService) ListAttendance(ctx context.Context, q *AttendanceQuery) (*pagination.PaginatedResult[AttendanceRow], error) {
	if q.Pagination == nil {
		q.Pagination = pagination.DefaultPagination()
	}
	q.Pagination.Validate()

	records, total, err := s.attendanceRepo.List(ctx, q.params())
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	rows := make([]AttendanceRow, len(records))
	for i, r := range records {
		rows[i] = s.row(r)
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(q.Pagination.Page, q.Pagination.PerPage, total)), nil
}

// ExportAttendance renders every matching record into an .xlsx workbook
func (s *EmployeeService) ExportAttendance(ctx context.Context, q *AttendanceQuery) ([]byte, error) {
	q.Pagination = nil
	records, _, err := s.attendanceRepo.List(ctx, q.params())
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	sheet := export.Sheet{
		Name:    "Attendance",
		Headers: []string{"Employee", "Date", "Time In", "Time Out", "Status", "Total", "Regular", "Overtime", "Late"},
		Rows:    make([][]interface{}, 0, len(records)),
		Widths:  map[string]float64{"A": 24, "B": 12},
	}
	for _, r := range records {
		row := s.row(r)
		timeOut, regular := "", ""
		if r.TimeOut != nil {
			timeOut = *r.TimeOut
		}
		if row.Hours != nil {
			regular = attendance.FormatTotal(row.Hours.Regular)
		}
		sheet.Rows = append(sheet.Rows, []interface{}{
			row.EmployeeName, r.Date, r.TimeIn, timeOut, string(r.Status),
			row.TotalLabel, regular, row.OTLabel, row.LateLabel,
		})
	}
	return export.Write(sheet)
}
