package request

import "github.com/shopspring/decimal"

// ProductRequest creates or replaces a menu item
type ProductRequest struct {
	Name            string          `json:"name" binding:"required,max=255"`
	Category        string          `json:"category" binding:"max=100"`
	Price           decimal.Decimal `json:"price" binding:"gte=0"`
	DescriptionType string          `json:"description_type" binding:"max=100"`
	IsAvailable     *bool           `json:"is_available"`
}

// OptionRequest creates or replaces an add-on or upgrade
type OptionRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	IsAvailable *bool           `json:"is_available"`
}
