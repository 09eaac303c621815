package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLogs struct {
	mu        sync.Mutex
	entries   []entity.StoreHoursLog
	appendErr error
	latestN   int
}

func (m *memLogs) Latest(_ context.Context, branch string) (*entity.StoreHoursLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latestN++
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].Branch == branch {
			e := m.entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memLogs) Append(_ context.Context, e *entity.StoreHoursLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	e.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *e)
	return nil
}

var cashier = Actor{UserID: 5, Email: "cashier@example.com"}

func TestGate_StartsClosedWithoutHistory(t *testing.T) {
	g := NewGate(&memLogs{})

	open, err := g.IsOpen(context.Background(), "main")
	require.NoError(t, err)
	assert.False(t, open)
	assert.ErrorIs(t, g.RequireOpen(context.Background(), "main"), apperror.ErrStoreClosed)
}

func TestGate_InitialStateFromLatestLog(t *testing.T) {
	logs := &memLogs{entries: []entity.StoreHoursLog{
		{Branch: "main", Action: enum.StoreActionOpen},
		{Branch: "annex", Action: enum.StoreActionOpen},
		{Branch: "annex", Action: enum.StoreActionClose},
	}}
	g := NewGate(logs)
	ctx := context.Background()

	assert.NoError(t, g.RequireOpen(ctx, "main"))
	assert.ErrorIs(t, g.RequireOpen(ctx, "annex"), apperror.ErrStoreClosed)

	// cached after first load
	_, _ = g.IsOpen(ctx, "main")
	assert.Equal(t, 2, logs.latestN)
}

func TestGate_OpenCloseTransitions(t *testing.T) {
	logs := &memLogs{}
	g := NewGate(logs)
	ctx := context.Background()

	entry, err := g.Open(ctx, "main", cashier)
	require.NoError(t, err)
	assert.Equal(t, enum.StoreActionOpen, entry.Action)
	assert.Equal(t, "cashier@example.com", entry.UserEmail)

	_, err = g.Open(ctx, "main", cashier)
	assert.ErrorIs(t, err, ErrAlreadyOpen)

	_, err = g.Close(ctx, "main", cashier)
	require.NoError(t, err)

	_, err = g.Close(ctx, "main", cashier)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	assert.Len(t, logs.entries, 2)
}

func TestGate_Toggle(t *testing.T) {
	g := NewGate(&memLogs{})
	ctx := context.Background()

	e, err := g.Toggle(ctx, "main", cashier)
	require.NoError(t, err)
	assert.Equal(t, enum.StoreActionOpen, e.Action)

	e, err = g.Toggle(ctx, "main", cashier)
	require.NoError(t, err)
	assert.Equal(t, enum.StoreActionClose, e.Action)
}

func TestGate_FailedAppendLeavesStateUnchanged(t *testing.T) {
	logs := &memLogs{appendErr: errors.New("db down")}
	g := NewGate(logs)
	ctx := context.Background()

	_, err := g.Open(ctx, "main", cashier)
	require.Error(t, err)

	open, err := g.IsOpen(ctx, "main")
	require.NoError(t, err)
	assert.False(t, open)
}
