package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/domain/store"
	"github.com/sangkips/cafepos-api/internal/logger"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"github.com/sangkips/cafepos-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo     repository.OrderRepository
	catalog       *CatalogService
	gate          *store.Gate
	printer       *PrinterService
	invoicePrefix string
	now           func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	catalog *CatalogService,
	gate *store.Gate,
	printer *PrinterService,
	invoicePrefix string,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		catalog:       catalog,
		gate:          gate,
		printer:       printer,
		invoicePrefix: invoicePrefix,
		now:           time.Now,
	}
}

// OrderItemInput represents one line of a client-side cart
type OrderItemInput struct {
	ProductID    uint
	Quantity     int
	AddonIDs     []uint
	UpgradeID    *uint
	Instructions string
}

// CreateOrderInput represents a cart submitted in one request
type CreateOrderInput struct {
	Items         []OrderItemInput
	Discounts     pos.Discounts
	PaymentMethod enum.PaymentMethod
	Tendered      string
}

// CreateOrder re-prices a client-side cart from the catalog and records the sale.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, input *CreateOrderInput) (*entity.Order, error) {
	if err := s.gate.RequireOpen(ctx, actor.Branch); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	cart := pos.NewCart()
	for _, item := range input.Items {
		sel, err := s.catalog.ResolveSelection(ctx, item.ProductID, item.AddonIDs, item.UpgradeID)
		if err != nil {
			return nil, err
		}
		cart.AddQuantity(sel.Product, sel.Addons, sel.Upgrade, item.Instructions, item.Quantity)
	}
	cart.Discounts = input.Discounts
	if input.PaymentMethod != "" {
		cart.PaymentMethod = input.PaymentMethod
	}
	cart.Tendered = input.Tendered

	return s.place(ctx, actor, cart)
}

// place validates payment for cart and persists it as an order. The receipt is
// printed best-effort. The cart itself is left untouched.
func (s *OrderService) place(ctx context.Context, actor Actor, cart *pos.Cart) (*entity.Order, error) {
	if err := s.gate.RequireOpen(ctx, actor.Branch); err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}
	if !cart.PaymentMethod.IsValid() {
		return nil, apperror.NewFieldError("payment_method", "Payment method must be one of cash, gcash, maya, card")
	}

	quote := cart.Quote()
	tendered, err := pos.ValidatePayment(cart.Tendered, quote.Total)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &entity.Order{
		InvoiceNo:         utils.GenerateInvoiceNo(s.invoicePrefix, now),
		Items:             cart.OrderItems(),
		Subtotal:          quote.Subtotal,
		SeniorPWDDiscount: cart.Discounts.SeniorPWD,
		EmployeeDiscount:  cart.Discounts.Employee,
		DiscountAmount:    quote.DiscountAmount,
		Total:             quote.Total,
		Tendered:          tendered,
		Change:            pos.Change(tendered, quote.Total),
		PaymentMethod:     cart.PaymentMethod,
		UserID:            actor.UserID,
		CashierEmail:      actor.Email,
		Branch:            actor.Branch,
		CreatedAt:         now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	logger.L().WithFields(logrus.Fields{
		"invoice_no": order.InvoiceNo,
		"total":      order.Total.StringFixed(2),
		"user_id":    actor.UserID,
		"branch":     actor.Branch,
	}).Info("Order created")

	s.printer.printAfterCheckout(ctx, order)
	return order, nil
}

// ListOrdersInput represents the input for listing orders
type ListOrdersInput struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Branch        string
	UserID        *uint
	IsVoid        *bool
	PaymentMethod *enum.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
	SortOrder     string
}

// ListOrders returns a paginated list of orders. Cashiers only see their own.
func (s *OrderService) ListOrders(ctx context.Context, actor Actor, input *ListOrdersInput) (*pagination.PaginatedResult[entity.Order], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	params := &repository.OrderFilterParams{
		Pagination:    input.Pagination,
		Search:        input.Search,
		Branch:        input.Branch,
		UserID:        input.UserID,
		IsVoid:        input.IsVoid,
		PaymentMethod: input.PaymentMethod,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		SortOrder:     input.SortOrder,
	}
	if !actor.Role.CanManage() {
		params.UserID = &actor.UserID
	}

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return pagination.NewPaginatedResult(orders, pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)), nil
}

// GetOrder returns an order by ID. Cashiers cannot read other cashiers' orders.
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, id uint) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || (!actor.Role.CanManage() && order.UserID != actor.UserID) {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// VoidOrder flags an order as void. Voiding is one-way.
func (s *OrderService) VoidOrder(ctx context.Context, actor Actor, id uint, reason string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.IsVoid {
		return nil, apperror.NewConflictError("Order is already void")
	}

	at := s.now()
	ok, err := s.orderRepo.Void(ctx, id, reason, actor.UserID, at)
	if err != nil {
		return nil, fmt.Errorf("void order: %w", err)
	}
	if !ok {
		return nil, apperror.NewConflictError("Order is already void")
	}

	order.IsVoid = true
	order.VoidReason = &reason
	order.VoidedBy = &actor.UserID
	order.VoidedAt = &at

	logger.L().WithFields(logrus.Fields{
		"invoice_no": order.InvoiceNo,
		"voided_by":  actor.UserID,
	}).Info("Order voided")
	return order, nil
}
