package repository

import (
	"context"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/pkg/pagination"
)

// EmployeeRepository defines the interface for employee operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id uint) (*entity.Employee, error)
	GetByUsername(ctx context.Context, username string) (*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	// Delete removes the employee and all attendance records permanently.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Employee, int64, error)
	CountOnDuty(ctx context.Context) (int64, error)

	// SaveClockIn persists the on-duty flag and the new record in one transaction.
	// It fails with attendance.ErrAlreadyOnDuty when the stored flag is already set.
	SaveClockIn(ctx context.Context, employee *entity.Employee, record *entity.AttendanceRecord) error
	// SaveClockOut persists the off-duty flag and, when non-nil, the closed record in one transaction.
	// It fails with attendance.ErrNotOnDuty when the stored flag is already clear.
	SaveClockOut(ctx context.Context, employee *entity.Employee, record *entity.AttendanceRecord) error
}

// AttendanceFilterParams contains filtering parameters for attendance queries
type AttendanceFilterParams struct {
	Pagination *pagination.PaginationParams // nil returns every match
	EmployeeID *uint
	From       *time.Time
	To         *time.Time
}

// AttendanceRepository defines the interface for attendance record queries
type AttendanceRepository interface {
	ListOpenByDate(ctx context.Context, employeeID uint, date string) ([]entity.AttendanceRecord, error)
	List(ctx context.Context, params *AttendanceFilterParams) ([]entity.AttendanceRecord, int64, error)
}
