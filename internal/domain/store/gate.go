// Package store gates order taking on whether a branch is open.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/pkg/apperror"
)

var (
	ErrAlreadyOpen   = apperror.NewConflictError("Store is already open")
	ErrAlreadyClosed = apperror.NewConflictError("Store is already closed")
)

// LogStore persists the store hours audit log.
type LogStore interface {
	Latest(ctx context.Context, branch string) (*entity.StoreHoursLog, error)
	Append(ctx context.Context, log *entity.StoreHoursLog) error
}

// Actor is the account performing a transition.
type Actor struct {
	UserID uint
	Email  string
}

// Gate is a closed/open state machine per branch. A branch's state is read
// from its latest log entry once and then kept in memory; every transition is
// logged before the state changes.
type Gate struct {
	mu    sync.Mutex
	logs  LogStore
	state map[string]bool
	now   func() time.Time
}

func NewGate(logs LogStore) *Gate {
	return &Gate{
		logs:  logs,
		state: make(map[string]bool),
		now:   time.Now,
	}
}

// IsOpen reports whether branch is open.
func (g *Gate) IsOpen(ctx context.Context, branch string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load(ctx, branch)
}

// RequireOpen returns apperror.ErrStoreClosed unless branch is open.
func (g *Gate) RequireOpen(ctx context.Context, branch string) error {
	open, err := g.IsOpen(ctx, branch)
	if err != nil {
		return err
	}
	if !open {
		return apperror.ErrStoreClosed
	}
	return nil
}

// Open opens a closed branch.
func (g *Gate) Open(ctx context.Context, branch string, actor Actor) (*entity.StoreHoursLog, error) {
	return g.transition(ctx, branch, actor, enum.StoreActionOpen)
}

// Close closes an open branch.
func (g *Gate) Close(ctx context.Context, branch string, actor Actor) (*entity.StoreHoursLog, error) {
	return g.transition(ctx, branch, actor, enum.StoreActionClose)
}

// Toggle opens a closed branch or closes an open one.
func (g *Gate) Toggle(ctx context.Context, branch string, actor Actor) (*entity.StoreHoursLog, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	open, err := g.load(ctx, branch)
	if err != nil {
		return nil, err
	}
	action := enum.StoreActionOpen
	if open {
		action = enum.StoreActionClose
	}
	return g.apply(ctx, branch, actor, action)
}

func (g *Gate) transition(ctx context.Context, branch string, actor Actor, action enum.StoreAction) (*entity.StoreHoursLog, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	open, err := g.load(ctx, branch)
	if err != nil {
		return nil, err
	}
	if action == enum.StoreActionOpen && open {
		return nil, ErrAlreadyOpen
	}
	if action == enum.StoreActionClose && !open {
		return nil, ErrAlreadyClosed
	}
	return g.apply(ctx, branch, actor, action)
}

// apply must be called with g.mu held.
func (g *Gate) apply(ctx context.Context, branch string, actor Actor, action enum.StoreAction) (*entity.StoreHoursLog, error) {
	entry := &entity.StoreHoursLog{
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Action:    action,
		Timestamp: g.now(),
		Branch:    branch,
	}
	if err := g.logs.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append store hours log: %w", err)
	}
	g.state[branch] = action == enum.StoreActionOpen
	return entry, nil
}

// load must be called with g.mu held.
func (g *Gate) load(ctx context.Context, branch string) (bool, error) {
	if open, ok := g.state[branch]; ok {
		return open, nil
	}
	last, err := g.logs.Latest(ctx, branch)
	if err != nil {
		return false, fmt.Errorf("load store status: %w", err)
	}
	open := last != nil && last.Action == enum.StoreActionOpen
	g.state[branch] = open
	return open, nil
}
