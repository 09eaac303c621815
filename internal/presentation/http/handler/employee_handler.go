package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cafepos-api/pkg/export"
)

// EmployeeHandler manages staff records and PIN-gated attendance
type EmployeeHandler struct {
	employeeService *service.EmployeeService
	loc             *time.Location
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *service.EmployeeService, loc *time.Location) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, loc: loc}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	result, err := h.employeeService.ListEmployees(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Employees retrieved successfully", result)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	emp, err := h.employeeService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employee retrieved successfully", emp)
}

func employeeInput(req *request.EmployeeRequest) *service.EmployeeInput {
	return &service.EmployeeInput{
		Name:          req.Name,
		Username:      req.Username,
		Email:         req.Email,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		DailyRate:     req.DailyRate,
		PIN:           req.PIN,
	}
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req request.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	emp, err := h.employeeService.CreateEmployee(c.Request.Context(), employeeInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Employee created successfully", emp)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req request.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	emp, err := h.employeeService.UpdateEmployee(c.Request.Context(), id, employeeInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employee updated successfully", emp)
}

// Delete removes an employee and their attendance history
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employee deleted successfully", nil)
}

func (h *EmployeeHandler) ClockIn(c *gin.Context) {
	h.clock(c, h.employeeService.ClockIn, "Clocked in")
}

func (h *EmployeeHandler) ClockOut(c *gin.Context) {
	h.clock(c, h.employeeService.ClockOut, "Clocked out")
}

func (h *EmployeeHandler) clock(c *gin.Context, fn func(ctx context.Context, id uint, pin string) (*service.ClockResult, error), message string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req request.ClockRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := fn(c.Request.Context(), id, req.PIN)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !result.RecordUpdated {
		message += " (no open attendance record was found)"
	}
	response.OK(c, message, result)
}

// Attendance lists one employee's records
func (h *EmployeeHandler) Attendance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	q, ok := h.attendanceQuery(c)
	if !ok {
		return
	}
	q.EmployeeID = &id
	h.listAttendance(c, q)
}

// ListAttendance lists records across employees, optionally filtered by ?employee_id=
func (h *EmployeeHandler) ListAttendance(c *gin.Context) {
	q, ok := h.attendanceQuery(c)
	if !ok {
		return
	}
	h.listAttendance(c, q)
}

func (h *EmployeeHandler) listAttendance(c *gin.Context, q *service.AttendanceQuery) {
	result, err := h.employeeService.ListAttendance(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Attendance retrieved successfully", result)
}

// ExportAttendance downloads the filtered records as a workbook
func (h *EmployeeHandler) ExportAttendance(c *gin.Context) {
	q, ok := h.attendanceQuery(c)
	if !ok {
		return
	}
	data, err := h.employeeService.ExportAttendance(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	name := "attendance-" + time.Now().In(h.loc).Format(dateLayout) + ".xlsx"
	response.File(c, name, export.ContentType, data)
}

// attendanceQuery reads employee_id and the inclusive from/to dates
func (h *EmployeeHandler) attendanceQuery(c *gin.Context) (*service.AttendanceQuery, bool) {
	q := &service.AttendanceQuery{Pagination: pageParams(c)}
	var err error
	if q.EmployeeID, err = queryUint(c, "employee_id"); err != nil {
		response.Error(c, err)
		return nil, false
	}
	if q.From, err = queryDate(c, "from", h.loc); err != nil {
		response.Error(c, err)
		return nil, false
	}
	if q.To, err = queryDate(c, "to", h.loc); err != nil {
		response.Error(c, err)
		return nil, false
	}
	return q, true
}
