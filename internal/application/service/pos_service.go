package service

import (
	"context"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/store"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// PosService runs the cart of each signed-in cashier's terminal
type PosService struct {
	terminals *pos.Registry
	catalog   *CatalogService
	orders    *OrderService
	gate      *store.Gate
}

// NewPosService creates a new POS service
func NewPosService(terminals *pos.Registry, catalog *CatalogService, orders *OrderService, gate *store.Gate) *PosService {
	return &PosService{
		terminals: terminals,
		catalog:   catalog,
		orders:    orders,
		gate:      gate,
	}
}

// CartView is a cart together with its current pricing
type CartView struct {
	pos.Cart
	pos.Quote
	Change decimal.Decimal `json:"change"`
}

func newCartView(c pos.Cart) *CartView {
	q := c.Quote()
	return &CartView{
		Cart:   c,
		Quote:  q,
		Change: pos.Change(pos.CoercePrice(c.Tendered), q.Total),
	}
}

// GetCart returns the caller's cart
func (s *PosService) GetCart(actor Actor) *CartView {
	return newCartView(s.terminals.Get(actor.UserID).Snapshot())
}

// AddItemInput represents a product configuration added to the cart
type AddItemInput struct {
	ProductID    uint
	AddonIDs     []uint
	UpgradeID    *uint
	Instructions string
	Quantity     int
}

// AddItem adds a product configuration to the cart. The store must be open.
func (s *PosService) AddItem(ctx context.Context, actor Actor, input *AddItemInput) (*CartView, error) {
	if err := s.gate.RequireOpen(ctx, actor.Branch); err != nil {
		return nil, err
	}

	sel, err := s.catalog.ResolveSelection(ctx, input.ProductID, input.AddonIDs, input.UpgradeID)
	if err != nil {
		return nil, err
	}

	t := s.terminals.Get(actor.UserID)
	_ = t.Do(func(c *pos.Cart) error {
		c.AddQuantity(sel.Product, sel.Addons, sel.Upgrade, input.Instructions, input.Quantity)
		return nil
	})
	return newCartView(t.Snapshot()), nil
}

// UpdateQuantity sets a line's quantity; below 1 removes the line.
func (s *PosService) UpdateQuantity(actor Actor, lineID string, qty int) (*CartView, error) {
	t := s.terminals.Get(actor.UserID)
	err := t.Do(func(c *pos.Cart) error {
		if !c.UpdateQuantity(lineID, qty) {
			return apperror.NewNotFoundError("Cart line")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCartView(t.Snapshot()), nil
}

// RemoveLine drops a line from the cart
func (s *PosService) RemoveLine(actor Actor, lineID string) (*CartView, error) {
	return s.UpdateQuantity(actor, lineID, 0)
}

// SetDiscounts toggles the order discounts
func (s *PosService) SetDiscounts(actor Actor, d pos.Discounts) *CartView {
	t := s.terminals.Get(actor.UserID)
	_ = t.Do(func(c *pos.Cart) error {
		c.Discounts = d
		return nil
	})
	return newCartView(t.Snapshot())
}

// SetPayment records the payment method and the raw tendered amount.
// The amount is only validated at checkout.
func (s *PosService) SetPayment(actor Actor, method enum.PaymentMethod, tendered string) (*CartView, error) {
	if method != "" && !method.IsValid() {
		return nil, apperror.NewFieldError("payment_method", "Payment method must be one of cash, gcash, maya, card")
	}

	t := s.terminals.Get(actor.UserID)
	_ = t.Do(func(c *pos.Cart) error {
		if method != "" {
			c.PaymentMethod = method
		}
		c.Tendered = tendered
		return nil
	})
	return newCartView(t.Snapshot()), nil
}

// ClearCart resets the cart
func (s *PosService) ClearCart(actor Actor) *CartView {
	t := s.terminals.Get(actor.UserID)
	_ = t.Do(func(c *pos.Cart) error {
		c.Clear()
		return nil
	})
	return newCartView(t.Snapshot())
}

// CheckoutResult is a completed sale and the fresh cart left behind
type CheckoutResult struct {
	Order *entity.Order `json:"order"`
	Cart  *CartView     `json:"cart"`
}

// Checkout turns the cart into an order and clears it. On any failure the
// cart is kept as it was.
func (s *PosService) Checkout(ctx context.Context, actor Actor) (*CheckoutResult, error) {
	t := s.terminals.Get(actor.UserID)

	var order *entity.Order
	err := t.Do(func(c *pos.Cart) error {
		o, err := s.orders.place(ctx, actor, c)
		if err != nil {
			return err
		}
		order = o
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: order, Cart: newCartView(t.Snapshot())}, nil
}
