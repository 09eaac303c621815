package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/logger"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/export"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CatalogService manages menu items, add-ons and upgrades
type CatalogService struct {
	productRepo repository.ProductRepository
	addonRepo   repository.AddonRepository
	upgradeRepo repository.UpgradeRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	productRepo repository.ProductRepository,
	addonRepo repository.AddonRepository,
	upgradeRepo repository.UpgradeRepository,
) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		addonRepo:   addonRepo,
		upgradeRepo: upgradeRepo,
	}
}

// ProductInput represents the fields of a product create or update
type ProductInput struct {
	Name            string
	Category        string
	Price           decimal.Decimal
	DescriptionType string
	IsAvailable     *bool
}

// ListProducts returns a paginated list of products
func (s *CatalogService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return pagination.NewPaginatedResult(products, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// GetProduct returns a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// CreateProduct creates a menu item
func (s *CatalogService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	product := &entity.Product{
		Name:            strings.TrimSpace(input.Name),
		Category:        input.Category,
		Price:           input.Price,
		DescriptionType: strings.ToLower(strings.TrimSpace(input.DescriptionType)),
		IsAvailable:     true,
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces a product's fields
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Category = input.Category
	product.Price = input.Price
	product.DescriptionType = strings.ToLower(strings.TrimSpace(input.DescriptionType))
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product. Past orders keep their snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// OptionInput represents an add-on or upgrade create or update
type OptionInput struct {
	Name        string
	Price       decimal.Decimal
	IsAvailable *bool
}

// ListAddons returns every add-on, or only the available ones
func (s *CatalogService) ListAddons(ctx context.Context, availableOnly bool) ([]entity.Addon, error) {
	return s.addonRepo.List(ctx, availableOnly)
}

// CreateAddon creates an add-on
func (s *CatalogService) CreateAddon(ctx context.Context, input *OptionInput) (*entity.Addon, error) {
	addon := &entity.Addon{Name: strings.TrimSpace(input.Name), Price: input.Price, IsAvailable: true}
	if input.IsAvailable != nil {
		addon.IsAvailable = *input.IsAvailable
	}
	if err := s.addonRepo.Create(ctx, addon); err != nil {
		return nil, fmt.Errorf("create addon: %w", err)
	}
	return addon, nil
}

// UpdateAddon replaces an add-on's fields
func (s *CatalogService) UpdateAddon(ctx context.Context, id uint, input *OptionInput) (*entity.Addon, error) {
	addon, err := s.addonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if addon == nil {
		return nil, apperror.NewNotFoundError("Add-on")
	}

	addon.Name = strings.TrimSpace(input.Name)
	addon.Price = input.Price
	if input.IsAvailable != nil {
		addon.IsAvailable = *input.IsAvailable
	}
	if err := s.addonRepo.Update(ctx, addon); err != nil {
		return nil, fmt.Errorf("update addon: %w", err)
	}
	return addon, nil
}

// DeleteAddon removes an add-on
func (s *CatalogService) DeleteAddon(ctx context.Context, id uint) error {
	addon, err := s.addonRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if addon == nil {
		return apperror.NewNotFoundError("Add-on")
	}
	return s.addonRepo.Delete(ctx, id)
}

// ListUpgrades returns every upgrade, or only the available ones
func (s *CatalogService) ListUpgrades(ctx context.Context, availableOnly bool) ([]entity.Upgrade, error) {
	return s.upgradeRepo.List(ctx, availableOnly)
}

// CreateUpgrade creates an upgrade
func (s *CatalogService) CreateUpgrade(ctx context.Context, input *OptionInput) (*entity.Upgrade, error) {
	upgrade := &entity.Upgrade{Name: strings.TrimSpace(input.Name), Price: input.Price, IsAvailable: true}
	if input.IsAvailable != nil {
		upgrade.IsAvailable = *input.IsAvailable
	}
	if err := s.upgradeRepo.Create(ctx, upgrade); err != nil {
		return nil, fmt.Errorf("create upgrade: %w", err)
	}
	return upgrade, nil
}

// UpdateUpgrade replaces an upgrade's fields
func (s *CatalogService) UpdateUpgrade(ctx context.Context, id uint, input *OptionInput) (*entity.Upgrade, error) {
	upgrade, err := s.upgradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upgrade == nil {
		return nil, apperror.NewNotFoundError("Upgrade")
	}

	upgrade.Name = strings.TrimSpace(input.Name)
	upgrade.Price = input.Price
	if input.IsAvailable != nil {
		upgrade.IsAvailable = *input.IsAvailable
	}
	if err := s.upgradeRepo.Update(ctx, upgrade); err != nil {
		return nil, fmt.Errorf("update upgrade: %w", err)
	}
	return upgrade, nil
}

// DeleteUpgrade removes an upgrade
func (s *CatalogService) DeleteUpgrade(ctx context.Context, id uint) error {
	upgrade, err := s.upgradeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if upgrade == nil {
		return apperror.NewNotFoundError("Upgrade")
	}
	return s.upgradeRepo.Delete(ctx, id)
}

// MenuSection is the available products of one description type
type MenuSection struct {
	DescriptionType string           `json:"description_type"`
	Products        []entity.Product `json:"products"`
}

// Menu is what a POS terminal offers
type Menu struct {
	Sections []MenuSection   `json:"sections"`
	Addons   []entity.Addon   `json:"addons"`
	Upgrades []entity.Upgrade `json:"upgrades"`
}

// GetMenu returns available products grouped by description type, with the
// available add-ons and upgrades.
func (s *CatalogService) GetMenu(ctx context.Context) (*Menu, error) {
	products, err := s.productRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}
	addons, err := s.addonRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	upgrades, err := s.upgradeRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list upgrades: %w", err)
	}

	byType := make(map[string][]entity.Product)
	for _, p := range products {
		key := p.DescriptionType
		if key == "" {
			key = "other"
		}
		byType[key] = append(byType[key], p)
	}

	menu := &Menu{
		Sections: make([]MenuSection, 0, len(byType)),
		Addons:   addons,
		Upgrades: upgrades,
	}
	for t, ps := range byType {
		menu.Sections = append(menu.Sections, MenuSection{DescriptionType: t, Products: ps})
	}
	sort.Slice(menu.Sections, func(i, j int) bool {
		return menu.Sections[i].DescriptionType < menu.Sections[j].DescriptionType
	})
	if menu.Addons == nil {
		menu.Addons = []entity.Addon{}
	}
	if menu.Upgrades == nil {
		menu.Upgrades = []entity.Upgrade{}
	}
	return menu, nil
}

// Selection is a product configuration resolved against the catalog
type Selection struct {
	Product pos.Option
	Addons  []pos.Option
	Upgrade *pos.Option
}

// ResolveSelection loads the product, add-ons and upgrade a cashier picked.
// Unknown or unavailable items are rejected.
func (s *CatalogService) ResolveSelection(ctx context.Context, productID uint, addonIDs []uint, upgradeID *uint) (*Selection, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %d", productID))
	}
	if !product.IsAvailable {
		return nil, apperror.NewBadRequestError(product.Name + " is not available")
	}

	sel := &Selection{
		Product: pos.Option{ID: product.ID, Name: product.Name, Price: product.Price},
		Addons:  make([]pos.Option, 0, len(addonIDs)),
	}

	if len(addonIDs) > 0 {
		addons, err := s.addonRepo.GetByIDs(ctx, addonIDs)
		if err != nil {
			return nil, fmt.Errorf("get addons: %w", err)
		}
		found := make(map[uint]entity.Addon, len(addons))
		for _, a := range addons {
			found[a.ID] = a
		}
		for _, id := range addonIDs {
			a, ok := found[id]
			if !ok || !a.IsAvailable {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Add-on %d", id))
			}
			sel.Addons = append(sel.Addons, pos.Option{ID: a.ID, Name: a.Name, Price: a.Price})
		}
	}

	if upgradeID != nil {
		upgrade, err := s.upgradeRepo.GetByID(ctx, *upgradeID)
		if err != nil {
			return nil, fmt.Errorf("get upgrade: %w", err)
		}
		if upgrade == nil || !upgrade.IsAvailable {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Upgrade %d", *upgradeID))
		}
		sel.Upgrade = &pos.Option{ID: upgrade.ID, Name: upgrade.Name, Price: upgrade.Price}
	}

	return sel, nil
}

// ImportResult reports a product import
type ImportResult struct {
	Created int      `json:"created"`
	Skipped []string `json:"skipped"`
}

// ImportProducts creates products from the first sheet of an .xlsx workbook.
// Columns are name, category, price and description_type, either in that
// order or named by a header row. Prices that are not numbers import as 0.
func (s *CatalogService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := export.ReadRows(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("Could not read workbook: " + err.Error())
	}

	cols := map[string]int{"name": 0, "category": 1, "price": 2, "description_type": 3}
	if header := export.HeaderIndex(rows[0]); hasColumn(header, "name") {
		for k := range cols {
			if i, ok := header[k]; ok {
				cols[k] = i
			} else {
				cols[k] = -1
			}
		}
		if i, ok := header["description type"]; ok {
			cols["description_type"] = i
		}
		rows = rows[1:]
	}

	result := &ImportResult{Skipped: []string{}}
	products := make([]entity.Product, 0, len(rows))
	for n, row := range rows {
		name := export.Cell(row, cols["name"])
		if name == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: missing name", n+1))
			continue
		}
		products = append(products, entity.Product{
			Name:            name,
			Category:        export.Cell(row, cols["category"]),
			Price:           pos.CoercePrice(export.Cell(row, cols["price"])),
			DescriptionType: strings.ToLower(export.Cell(row, cols["description_type"])),
			IsAvailable:     true,
		})
	}

	if len(products) > 0 {
		if err := s.productRepo.CreateBatch(ctx, products); err != nil {
			return nil, fmt.Errorf("import products: %w", err)
		}
	}
	result.Created = len(products)

	logger.L().WithFields(logrus.Fields{
		"created": result.Created,
		"skipped": len(result.Skipped),
	}).Info("Products imported")
	return result, nil
}

func hasColumn(header map[string]int, name string) bool {
	_, ok := header[name]
	return ok
}
