package entity

import (
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Order is a completed sale. Line items are stored as an immutable JSON snapshot.
type Order struct {
	ID                uint               `gorm:"primaryKey" json:"id"`
	InvoiceNo         string             `gorm:"size:100;uniqueIndex;not null" json:"invoice_no"`
	Items             []OrderItem        `gorm:"type:text;serializer:json" json:"items"`
	Subtotal          decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	SeniorPWDDiscount bool               `gorm:"not null;default:false" json:"senior_pwd_discount"`
	EmployeeDiscount  bool               `gorm:"not null;default:false" json:"employee_discount"`
	DiscountAmount    decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	Total             decimal.Decimal    `gorm:"type:decimal(12,2);not null;index" json:"total"`
	Tendered          decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tendered"`
	Change            decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"change"`
	PaymentMethod     enum.PaymentMethod `gorm:"size:20;not null;index" json:"payment_method"`
	UserID            uint               `gorm:"not null;index" json:"user_id"`
	CashierEmail      string             `gorm:"size:255" json:"cashier_email"`
	Branch            string             `gorm:"size:100;index" json:"branch"`
	IsVoid            bool               `gorm:"not null;default:false;index" json:"is_void"`
	VoidReason        *string            `gorm:"type:text" json:"void_reason,omitempty"`
	VoidedBy          *uint              `json:"voided_by,omitempty"`
	VoidedAt          *time.Time         `json:"voided_at,omitempty"`
	CreatedAt         time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ItemCount returns the number of units sold on the order
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// OrderItem is the snapshot of one cart line at checkout
type OrderItem struct {
	LineID       string            `json:"line_id"`
	ProductID    uint              `json:"product_id"`
	ProductName  string            `json:"product_name"`
	ProductPrice decimal.Decimal   `json:"product_price"`
	Quantity     int               `json:"quantity"`
	Addons       []OrderItemOption `json:"addons"`
	Upgrade      *OrderItemOption  `json:"upgrade,omitempty"`
	Instructions string            `json:"instructions,omitempty"`
	FinalPrice   decimal.Decimal   `json:"final_price"`
	LineTotal    decimal.Decimal   `json:"line_total"`
}

// OrderItemOption is a priced add-on or upgrade captured on an order item
type OrderItemOption struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
