package pos

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CartLine is one distinct product configuration and its quantity.
type CartLine struct {
	LineID       string          `json:"line_id"`
	Product      Option          `json:"product"`
	Quantity     int             `json:"quantity"`
	Addons       []Option        `json:"addons"`
	Upgrade      *Option         `json:"upgrade,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	FinalPrice   decimal.Decimal `json:"final_price"` // fixed at add time
}

// LineTotal is final price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.FinalPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) sameConfiguration(productID uint, addons []Option, upgrade *Option, instructions string) bool {
	if l.Product.ID != productID || l.Instructions != instructions {
		return false
	}
	if (l.Upgrade == nil) != (upgrade == nil) {
		return false
	}
	if l.Upgrade != nil && l.Upgrade.ID != upgrade.ID {
		return false
	}
	if len(l.Addons) != len(addons) {
		return false
	}
	// both sides are sorted by ID and deduplicated
	for i := range addons {
		if l.Addons[i].ID != addons[i].ID {
			return false
		}
	}
	return true
}

// OrderItem snapshots the line for persistence.
func (l CartLine) OrderItem() entity.OrderItem {
	item := entity.OrderItem{
		LineID:       l.LineID,
		ProductID:    l.Product.ID,
		ProductName:  l.Product.Name,
		ProductPrice: l.Product.Price,
		Quantity:     l.Quantity,
		Addons:       make([]entity.OrderItemOption, 0, len(l.Addons)),
		Instructions: l.Instructions,
		FinalPrice:   l.FinalPrice,
		LineTotal:    l.LineTotal(),
	}
	for _, a := range l.Addons {
		item.Addons = append(item.Addons, entity.OrderItemOption{ID: a.ID, Name: a.Name, Price: a.Price})
	}
	if l.Upgrade != nil {
		item.Upgrade = &entity.OrderItemOption{ID: l.Upgrade.ID, Name: l.Upgrade.Name, Price: l.Upgrade.Price}
	}
	return item
}

// Cart is the order being built at a terminal.
type Cart struct {
	Lines         []CartLine         `json:"lines"`
	Discounts     Discounts          `json:"discounts"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Tendered      string             `json:"tendered"` // raw input, validated at checkout
}

// NewCart returns an empty cart with default payment settings.
func NewCart() *Cart {
	c := &Cart{}
	c.Clear()
	return c
}

// AddToCart adds one unit of the configuration. An identical configuration
// already in the cart has its quantity incremented instead.
func (c *Cart) AddToCart(product Option, addons []Option, upgrade *Option, instructions string) CartLine {
	return c.AddQuantity(product, addons, upgrade, instructions, 1)
}

// AddQuantity is AddToCart for qty units.
func (c *Cart) AddQuantity(product Option, addons []Option, upgrade *Option, instructions string, qty int) CartLine {
	if qty < 1 {
		qty = 1
	}
	addons = normalizeAddons(addons)

	for i := range c.Lines {
		if c.Lines[i].sameConfiguration(product.ID, addons, upgrade, instructions) {
			c.Lines[i].Quantity += qty
			return c.Lines[i]
		}
	}

	var up *Option
	if upgrade != nil {
		u := *upgrade
		up = &u
	}
	line := CartLine{
		LineID:       uuid.NewString(),
		Product:      product,
		Quantity:     qty,
		Addons:       addons,
		Upgrade:      up,
		Instructions: instructions,
		FinalPrice:   UnitPrice(product, upgrade, addons),
	}
	c.Lines = append(c.Lines, line)
	return line
}

// UpdateQuantity sets a line's quantity; anything below 1 removes the line.
// It reports whether the line exists.
func (c *Cart) UpdateQuantity(lineID string, qty int) bool {
	for i := range c.Lines {
		if c.Lines[i].LineID != lineID {
			continue
		}
		if qty < 1 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = qty
		}
		return true
	}
	return false
}

// RemoveLine drops a line. It reports whether the line existed.
func (c *Cart) RemoveLine(lineID string) bool {
	return c.UpdateQuantity(lineID, 0)
}

// Clear resets lines, tendered amount, discounts and payment method together.
func (c *Cart) Clear() {
	*c = Cart{
		Lines:         []CartLine{},
		PaymentMethod: enum.PaymentCash,
	}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Quote prices the cart.
func (c *Cart) Quote() Quote {
	return Price(c.Lines, c.Discounts)
}

// OrderItems snapshots every line.
func (c *Cart) OrderItems() []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, l.OrderItem())
	}
	return items
}

// Clone returns a deep copy safe to hand out of the terminal lock.
func (c *Cart) Clone() Cart {
	out := *c
	out.Lines = make([]CartLine, len(c.Lines))
	for i, l := range c.Lines {
		l.Addons = append([]Option(nil), l.Addons...)
		if l.Upgrade != nil {
			u := *l.Upgrade
			l.Upgrade = &u
		}
		out.Lines[i] = l
	}
	return out
}

// normalizeAddons deduplicates by ID and sorts so add-on sets compare order-independently.
func normalizeAddons(addons []Option) []Option {
	seen := make(map[uint]bool, len(addons))
	out := make([]Option, 0, len(addons))
	for _, a := range addons {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
