package repository

import (
	"context"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/pkg/pagination"
)

// StoreHoursLogRepository defines the interface for the store open/close audit log
type StoreHoursLogRepository interface {
	Append(ctx context.Context, log *entity.StoreHoursLog) error
	Latest(ctx context.Context, branch string) (*entity.StoreHoursLog, error)
	List(ctx context.Context, branch string, from, to *time.Time, params *pagination.PaginationParams) ([]entity.StoreHoursLog, int64, error)
}
