package repository

import (
	"context"
	"errors"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cafepos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(products, 100).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(SearchScope(params.Search, "name", "category"))

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.DescriptionType != "" {
		query = query.Where("description_type = ?", params.DescriptionType)
	}
	if params.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("description_type ASC, name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListAvailable(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("description_type ASC, name ASC").
		Find(&products).Error
	return products, err
}

type addonRepository struct {
	db *gorm.DB
}

// NewAddonRepository creates a new add-on repository
func NewAddonRepository(db *gorm.DB) domainRepo.AddonRepository {
	return &addonRepository{db: db}
}

func (r *addonRepository) Create(ctx context.Context, addon *entity.Addon) error {
	return r.db.WithContext(ctx).Create(addon).Error
}

func (r *addonRepository) GetByID(ctx context.Context, id uint) (*entity.Addon, error) {
	var addon entity.Addon
	err := r.db.WithContext(ctx).First(&addon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &addon, nil
}

// GetByIDs retrieves multiple add-ons in a single query
func (r *addonRepository) GetByIDs(ctx context.Context, ids []uint) ([]entity.Addon, error) {
	if len(ids) == 0 {
		return []entity.Addon{}, nil
	}
	var addons []entity.Addon
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&addons).Error
	return addons, err
}

func (r *addonRepository) Update(ctx context.Context, addon *entity.Addon) error {
	return r.db.WithContext(ctx).Save(addon).Error
}

func (r *addonRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Addon{}, "id = ?", id).Error
}

func (r *addonRepository) List(ctx context.Context, availableOnly bool) ([]entity.Addon, error) {
	var addons []entity.Addon
	query := r.db.WithContext(ctx)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	err := query.Order("name ASC").Find(&addons).Error
	return addons, err
}

type upgradeRepository struct {
	db *gorm.DB
}

// NewUpgradeRepository creates a new upgrade repository
func NewUpgradeRepository(db *gorm.DB) domainRepo.UpgradeRepository {
	return &upgradeRepository{db: db}
}

func (r *upgradeRepository) Create(ctx context.Context, upgrade *entity.Upgrade) error {
	return r.db.WithContext(ctx).Create(upgrade).Error
}

func (r *upgradeRepository) GetByID(ctx context.Context, id uint) (*entity.Upgrade, error) {
	var upgrade entity.Upgrade
	err := r.db.WithContext(ctx).First(&upgrade, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upgrade, nil
}

func (r *upgradeRepository) Update(ctx context.Context, upgrade *entity.Upgrade) error {
	return r.db.WithContext(ctx).Save(upgrade).Error
}

func (r *upgradeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Upgrade{}, "id = ?", id).Error
}

func (r *upgradeRepository) List(ctx context.Context, availableOnly bool) ([]entity.Upgrade, error) {
	var upgrades []entity.Upgrade
	query := r.db.WithContext(ctx)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	err := query.Order("price ASC, name ASC").Find(&upgrades).Error
	return upgrades, err
}
