package request

import "github.com/sangkips/cafepos-api/internal/domain/enum"

// OrderItemRequest is one line of a cart submitted in a single request
type OrderItemRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1,max=99"`
	AddonIDs     []uint `json:"addon_ids" binding:"omitempty,dive,required"`
	UpgradeID    *uint  `json:"upgrade_id"`
	Instructions string `json:"instructions" binding:"max=255"`
}

// CreateOrderRequest represents a create order request
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Discounts     DiscountsRequest   `json:"discounts"`
	PaymentMethod enum.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
	Tendered      Amount             `json:"tendered"`
}

// VoidOrderRequest represents a void request
type VoidOrderRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}
