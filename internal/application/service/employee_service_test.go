package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/attendance"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(clock string) func() time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", "2026-03-14 "+clock)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestEmployeeService_ClockInAndOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	emp, err := env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Ana", Username: "ana", PIN: "1234"})
	require.NoError(t, err)
	assert.NotEqual(t, "1234", emp.PINHash)

	_, err = env.employees.ClockIn(ctx, emp.ID, "9999")
	assert.ErrorIs(t, err, apperror.ErrInvalidPIN)

	env.employees.now = at("08:15:00")
	res, err := env.employees.ClockIn(ctx, emp.ID, "1234")
	require.NoError(t, err)
	assert.True(t, res.Employee.IsOnDuty)
	assert.Equal(t, "2026-03-14", res.Record.Date)
	assert.Equal(t, "08:15:00", res.Record.TimeIn)
	assert.Nil(t, res.Record.TimeOut)

	_, err = env.employees.ClockIn(ctx, emp.ID, "1234")
	assert.ErrorIs(t, err, attendance.ErrAlreadyOnDuty)

	env.employees.now = at("17:00:00")
	out, err := env.employees.ClockOut(ctx, emp.ID, "1234")
	require.NoError(t, err)
	assert.True(t, out.RecordUpdated)
	assert.False(t, out.Employee.IsOnDuty)
	assert.Equal(t, res.Record.ID, out.Record.ID)
	assert.Equal(t, enum.AttendanceCompleted, out.Record.Status)

	_, err = env.employees.ClockOut(ctx, emp.ID, "1234")
	assert.ErrorIs(t, err, attendance.ErrNotOnDuty)

	list, err := env.employees.ListAttendance(ctx, &AttendanceQuery{EmployeeID: &emp.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	row := list.Items[0]
	assert.Equal(t, "Ana", row.EmployeeName)
	require.NotNil(t, row.Hours)
	assert.InDelta(t, 8.75, row.Hours.Total, 1e-9)
	assert.InDelta(t, 0.75, row.Hours.Overtime, 1e-9)
	assert.InDelta(t, 0.3, row.Hours.Late, 1e-9)
	assert.Equal(t, "8.75h", row.TotalLabel)
	assert.Equal(t, "0h 45m", row.OTLabel)
}

func TestEmployeeService_ConcurrentClockInOpensOneRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	emp, err := env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Ana", Username: "ana", PIN: "1234"})
	require.NoError(t, err)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.employees.ClockIn(ctx, emp.ID, "1234")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyOnDuty)
	}
	assert.Equal(t, 1, succeeded)

	var open int64
	require.NoError(t, env.db.Model(&entity.AttendanceRecord{}).
		Where("employee_id = ? AND time_out IS NULL", emp.ID).
		Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestEmployeeService_ClockOutWithoutOpenRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	emp, err := env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Ben", Username: "ben", PIN: "4321"})
	require.NoError(t, err)

	env.employees.now = at("22:00:00")
	_, err = env.employees.ClockIn(ctx, emp.ID, "4321")
	require.NoError(t, err)

	// the shift started on the previous calendar day
	env.employees.now = func() time.Time { return time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC) }
	out, err := env.employees.ClockOut(ctx, emp.ID, "4321")
	require.NoError(t, err)
	assert.False(t, out.RecordUpdated)
	assert.Nil(t, out.Record)
	assert.False(t, out.Employee.IsOnDuty)
}

func TestEmployeeService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Cy", Username: "cy", PIN: "12"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)

	_, err = env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Cy", Username: "cy", PIN: "1234"})
	require.NoError(t, err)
	_, err = env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Cy 2", Username: "cy", PIN: "1234"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)

	_, err = env.employees.ClockIn(ctx, 999, "1234")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestEmployeeService_ExportAttendance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	emp, err := env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Dee", Username: "dee", PIN: "1111"})
	require.NoError(t, err)
	env.employees.now = at("07:55:00")
	_, err = env.employees.ClockIn(ctx, emp.ID, "1111")
	require.NoError(t, err)
	env.employees.now = at("16:00:00")
	_, err = env.employees.ClockOut(ctx, emp.ID, "1111")
	require.NoError(t, err)

	data, err := env.employees.ExportAttendance(ctx, &AttendanceQuery{})
	require.NoError(t, err)

	rows, err := export.ReadRows(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Employee", rows[0][0])
	assert.Equal(t, []string{"Dee", "2026-03-14", "07:55:00", "16:00:00", "completed", "8.08h", "8.00h", "0h 5m", "—"}, rows[1])
}
