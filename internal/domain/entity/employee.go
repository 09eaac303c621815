package entity

import (
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Employee is a staff member who clocks in and out with a PIN.
// Employees are hard-deleted together with their attendance records.
type Employee struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	Name              string              `gorm:"size:255;not null" json:"name"`
	Username          string              `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email             string              `gorm:"size:255" json:"email"`
	Address           string              `gorm:"type:text" json:"address"`
	ContactNumber     string              `gorm:"size:50" json:"contact_number"`
	DailyRate         *decimal.Decimal    `gorm:"type:decimal(12,2)" json:"daily_rate,omitempty"`
	PINHash           string              `gorm:"column:pin_hash;size:255;not null" json:"-"`
	IsOnDuty          bool                `gorm:"not null;default:false" json:"is_on_duty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	AttendanceRecords []AttendanceRecord  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"attendance_records,omitempty"`
}

func (Employee) TableName() string {
	return "employees"
}

// AttendanceRecord is one clock-in/clock-out pair. TimeOut is nil while the employee is on duty.
type AttendanceRecord struct {
	ID         uint                  `gorm:"primaryKey" json:"id"`
	EmployeeID uint                  `gorm:"not null;index:idx_attendance_employee_date" json:"employee_id"`
	Date       string                `gorm:"size:10;not null;index:idx_attendance_employee_date" json:"date"` // YYYY-MM-DD
	TimeIn     string                `gorm:"size:8;not null" json:"time_in"`                                  // HH:MM:SS
	TimeOut    *string               `gorm:"size:8" json:"time_out"`
	Status     enum.AttendanceStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// IsOpen reports whether the record still waits for a clock-out.
func (r *AttendanceRecord) IsOpen() bool {
	return r.TimeOut == nil
}
