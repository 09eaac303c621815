package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Branch    string `json:"branch,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem is one printed line.
type ReceiptItem struct {
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Total        decimal.Decimal `json:"total"`
	Modifiers    []string        `json:"modifiers,omitempty"` // upgrade and add-on names
	Instructions string          `json:"instructions,omitempty"`
}

// Receipt is a printable value object composed from an order. It is not persisted.
type Receipt struct {
	Header         ReceiptHeader   `json:"header"`
	InvoiceNo      string          `json:"invoice_no"`
	Date           string          `json:"date"`
	Cashier        string          `json:"cashier,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	Items          []ReceiptItem   `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discounts      []string        `json:"discounts,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	Tendered       decimal.Decimal `json:"tendered"`
	Change         decimal.Decimal `json:"change"`
	Void           bool            `json:"void"`
}
