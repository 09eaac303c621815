package repository

import (
	"context"
	"errors"

	"github.com/sangkips/cafepos-api/internal/domain/attendance"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"gorm.io/gorm"
)

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).First(&employee, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).Omit("AttendanceRecords").Save(employee).Error
}

// Delete removes attendance records explicitly so the cascade also holds on
// SQLite connections without foreign keys enabled.
func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&entity.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Employee{}, "id = ?", id).Error
	})
}

func (r *employeeRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Employee, int64, error) {
	var employees []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{}).
		Scopes(SearchScope(search, "name", "username", "email"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&employees).Error

	return employees, total, err
}

func (r *employeeRepository) CountOnDuty(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Employee{}).Where("is_on_duty = ?", true).Count(&n).Error
	return n, err
}

func (r *employeeRepository) SaveClockIn(ctx context.Context, employee *entity.Employee, record *entity.AttendanceRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := flipOnDuty(tx, employee.ID, true); err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}

func (r *employeeRepository) SaveClockOut(ctx context.Context, employee *entity.Employee, record *entity.AttendanceRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := flipOnDuty(tx, employee.ID, false); err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		return tx.Model(record).Updates(map[string]interface{}{
			"time_out": record.TimeOut,
			"status":   record.Status,
		}).Error
	})
}

// flipOnDuty sets the on-duty flag only when it currently holds the opposite
// value, so concurrent clock requests for one employee cannot both succeed.
func flipOnDuty(tx *gorm.DB, employeeID uint, onDuty bool) error {
	result := tx.Model(&entity.Employee{}).
		Where("id = ? AND is_on_duty = ?", employeeID, !onDuty).
		Update("is_on_duty", onDuty)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if onDuty {
			return attendance.ErrAlreadyOnDuty
		}
		return attendance.ErrNotOnDuty
	}
	return nil
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) domainRepo.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListOpenByDate(ctx context.Context, employeeID uint, date string) ([]entity.AttendanceRecord, error) {
	var records []entity.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ? AND time_out IS NULL", employeeID, date).
		Order("time_in DESC, id DESC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepository) List(ctx context.Context, params *domainRepo.AttendanceFilterParams) ([]entity.AttendanceRecord, int64, error) {
	var records []entity.AttendanceRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AttendanceRecord{})
	if params.EmployeeID != nil {
		query = query.Where("employee_id = ?", *params.EmployeeID)
	}
	if params.From != nil {
		query = query.Where("date >= ?", params.From.Format("2006-01-02"))
	}
	if params.To != nil {
		query = query.Where("date < ?", params.To.Format("2006-01-02"))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Employee").Order("date DESC, time_in DESC")
	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Find(&records).Error
	return records, total, err
}
