// Package attendance implements employee clock-in/out and work-hour arithmetic.
package attendance

import (
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/pkg/apperror"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	MinPINLength = 4
)

var (
	ErrAlreadyOnDuty = apperror.NewConflictError("Employee is already clocked in")
	ErrNotOnDuty     = apperror.NewConflictError("Employee is not clocked in")
)

// ClockIn moves an off-duty employee on duty and returns the new open record.
func ClockIn(emp *entity.Employee, now time.Time) (*entity.AttendanceRecord, error) {
	if emp.IsOnDuty {
		return nil, ErrAlreadyOnDuty
	}

	emp.IsOnDuty = true
	return &entity.AttendanceRecord{
		EmployeeID: emp.ID,
		Date:       now.Format(DateLayout),
		TimeIn:     now.Format(TimeLayout),
		Status:     enum.AttendanceOnDuty,
	}, nil
}

// ClockOut moves an on-duty employee off duty and closes open, the record found
// by FindOpenRecord. A nil open record still flips the flag; the return value
// reports whether a record was closed.
func ClockOut(emp *entity.Employee, open *entity.AttendanceRecord, now time.Time) (bool, error) {
	if !emp.IsOnDuty {
		return false, ErrNotOnDuty
	}

	emp.IsOnDuty = false
	if open == nil {
		return false, nil
	}

	out := now.Format(TimeLayout)
	open.TimeOut = &out
	open.Status = enum.AttendanceCompleted
	return true, nil
}

// FindOpenRecord returns the most recent record for date that has no time out.
func FindOpenRecord(records []entity.AttendanceRecord, date string) *entity.AttendanceRecord {
	var found *entity.AttendanceRecord
	for i := range records {
		r := &records[i]
		if r.Date != date || !r.IsOpen() {
			continue
		}
		if found == nil || r.TimeIn > found.TimeIn || (r.TimeIn == found.TimeIn && r.ID > found.ID) {
			found = r
		}
	}
	return found
}

// ValidatePIN checks the minimum PIN length.
func ValidatePIN(pin string) error {
	if len(pin) < MinPINLength {
		return apperror.NewFieldError("pin", "PIN must be at least 4 characters")
	}
	return nil
}
