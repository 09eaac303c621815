package repository

import (
	"context"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/pkg/pagination"
)

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	Category        string
	DescriptionType string
	AvailableOnly   bool
}

// ProductRepository defines the interface for menu item operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListAvailable(ctx context.Context) ([]entity.Product, error)
}

// AddonRepository defines the interface for add-on operations
type AddonRepository interface {
	Create(ctx context.Context, addon *entity.Addon) error
	GetByID(ctx context.Context, id uint) (*entity.Addon, error)
	GetByIDs(ctx context.Context, ids []uint) ([]entity.Addon, error)
	Update(ctx context.Context, addon *entity.Addon) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, availableOnly bool) ([]entity.Addon, error)
}

// UpgradeRepository defines the interface for upgrade operations
type UpgradeRepository interface {
	Create(ctx context.Context, upgrade *entity.Upgrade) error
	GetByID(ctx context.Context, id uint) (*entity.Upgrade, error)
	Update(ctx context.Context, upgrade *entity.Upgrade) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, availableOnly bool) ([]entity.Upgrade, error)
}
