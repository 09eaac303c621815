package request

import "github.com/shopspring/decimal"

// EmployeeRequest creates or updates an employee. An empty PIN on update
// keeps the current one.
type EmployeeRequest struct {
	Name          string           `json:"name" binding:"required,max=255"`
	Username      string           `json:"username" binding:"required,min=3,max=50"`
	Email         string           `json:"email" binding:"omitempty,email"`
	Address       string           `json:"address" binding:"max=500"`
	ContactNumber string           `json:"contact_number" binding:"max=50"`
	DailyRate     *decimal.Decimal `json:"daily_rate" binding:"omitempty,gte=0"`
	PIN           string           `json:"pin" binding:"omitempty,pin"`
}

// ClockRequest carries the PIN for a clock-in or clock-out
type ClockRequest struct {
	PIN string `json:"pin" binding:"required,pin"`
}
