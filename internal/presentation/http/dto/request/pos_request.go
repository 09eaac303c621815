package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sangkips/cafepos-api/internal/domain/enum"
)

// Amount is a tendered amount as typed by the cashier. Both JSON strings and
// numbers are accepted; parsing and range checks happen at checkout.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or string: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// AddItemRequest adds a product configuration to the cart
type AddItemRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	AddonIDs     []uint `json:"addon_ids" binding:"omitempty,dive,required"`
	UpgradeID    *uint  `json:"upgrade_id"`
	Instructions string `json:"instructions" binding:"max=255"`
	Quantity     int    `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// UpdateQuantityRequest sets a line's quantity. Zero removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=99"`
}

// DiscountsRequest toggles the order discounts
type DiscountsRequest struct {
	SeniorPWD bool `json:"senior_pwd"`
	Employee  bool `json:"employee"`
}

// PaymentRequest sets how the cart will be settled
type PaymentRequest struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
	Tendered      Amount             `json:"tendered"`
}
