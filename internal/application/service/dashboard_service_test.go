package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_TodayFigures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openStore(t, cashier)

	for _, id := range []uint{env.latte.ID, env.croissant.ID} {
		_, err := env.orders.CreateOrder(ctx, cashier, &CreateOrderInput{
			Items:    []OrderItemInput{{ProductID: id}},
			Tendered: "100",
		})
		require.NoError(t, err)
	}
	emp, err := env.employees.CreateEmployee(ctx, &EmployeeInput{Name: "Eve", Username: "eve", PIN: "2468"})
	require.NoError(t, err)
	_, err = env.employees.ClockIn(ctx, emp.ID, "2468")
	require.NoError(t, err)

	stats, err := env.dashboard.GetDashboardStats(ctx, "main")
	require.NoError(t, err)
	assert.True(t, stats.StoreOpen)
	assert.True(t, dec("185").Equal(stats.GrossSales))
	assert.Equal(t, int64(2), stats.OrderCount)
	assert.True(t, dec("92.5").Equal(stats.AverageTicket))
	assert.Equal(t, int64(1), stats.OnDuty)
	require.Len(t, stats.DailySalesData, 7)
	assert.True(t, dec("185").Equal(stats.DailySalesData[6].Revenue))
}
