package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/infrastructure/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	logs := NewStoreHoursLogRepository(db)

	x, err := database.SQLX(db, "sqlite")
	require.NoError(t, err)
	repo := NewReportRepository(x, time.UTC)

	require.NoError(t, orders.Create(ctx, newOrder("OR-1", 1, 100, base.Add(8*time.Hour))))
	require.NoError(t, orders.Create(ctx, newOrder("OR-2", 1, 50, base.Add(9*time.Hour))))
	voided := newOrder("OR-3", 1, 999, base.Add(10*time.Hour))
	require.NoError(t, orders.Create(ctx, voided))
	_, err = orders.Void(ctx, voided.ID, "test", 1, base.Add(11*time.Hour))
	require.NoError(t, err)
	require.NoError(t, orders.Create(ctx, newOrder("OR-4", 2, 30, base.Add(33*time.Hour))))

	require.NoError(t, logs.Append(ctx, &entity.StoreHoursLog{UserID: 1, UserEmail: "a@x", Action: enum.StoreActionOpen, Timestamp: base.Add(7 * time.Hour), Branch: "main"}))
	require.NoError(t, logs.Append(ctx, &entity.StoreHoursLog{UserID: 1, UserEmail: "a@x", Action: enum.StoreActionClose, Timestamp: base.Add(12 * time.Hour), Branch: "main"}))

	t.Run("gross before excludes voids", func(t *testing.T) {
		gross, err := repo.GrossBefore(ctx, base.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "150", gross.String())

		gross, err = repo.GrossBefore(ctx, base)
		require.NoError(t, err)
		assert.True(t, gross.IsZero())
	})

	t.Run("orders since", func(t *testing.T) {
		since := base.Add(9 * time.Hour)
		got, err := repo.OrdersSince(ctx, &since)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "50", got[0].Total.String())
		assert.Equal(t, uint(2), got[1].UserID)
	})

	t.Run("store logs since", func(t *testing.T) {
		got, err := repo.StoreLogsSince(ctx, nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, enum.StoreActionOpen, got[0].Action)
		assert.Equal(t, "a@x", got[1].UserEmail)
	})

	t.Run("summary", func(t *testing.T) {
		s, err := repo.Summary(ctx, "main", base, base.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "150", s.Gross.String())
		assert.Equal(t, int64(2), s.OrderCount)
		assert.Equal(t, int64(1), s.VoidCount)

		empty, err := repo.Summary(ctx, "annex", base, base.Add(24*time.Hour))
		require.NoError(t, err)
		assert.True(t, empty.Gross.IsZero())
		assert.Zero(t, empty.OrderCount)
	})

	t.Run("daily sales fills empty days", func(t *testing.T) {
		days, err := repo.DailySales(ctx, "", base.AddDate(0, 0, -1), base.AddDate(0, 0, 2))
		require.NoError(t, err)
		require.Len(t, days, 3)
		assert.Equal(t, "2026-03-13", days[0].Date)
		assert.True(t, days[0].Revenue.IsZero())
		assert.Equal(t, "150", days[1].Revenue.String())
		assert.Equal(t, 2, days[1].OrderCount)
		assert.Equal(t, "30", days[2].Revenue.String())
	})
}
