package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"gorm.io/gorm"
)

type storeHoursLogRepository struct {
	db *gorm.DB
}

// NewStoreHoursLogRepository creates a new store hours log repository
func NewStoreHoursLogRepository(db *gorm.DB) domainRepo.StoreHoursLogRepository {
	return &storeHoursLogRepository{db: db}
}

func (r *storeHoursLogRepository) Append(ctx context.Context, log *entity.StoreHoursLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *storeHoursLogRepository) Latest(ctx context.Context, branch string) (*entity.StoreHoursLog, error) {
	var log entity.StoreHoursLog
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(branch)).
		Order("timestamp DESC, id DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *storeHoursLogRepository) List(ctx context.Context, branch string, from, to *time.Time, params *pagination.PaginationParams) ([]entity.StoreHoursLog, int64, error) {
	var logs []entity.StoreHoursLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StoreHoursLog{}).Scopes(BranchScope(branch))
	if from != nil {
		query = query.Where("timestamp >= ?", *from)
	}
	if to != nil {
		query = query.Where("timestamp < ?", *to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("timestamp DESC, id DESC").
		Find(&logs).Error

	return logs, total, err
}
