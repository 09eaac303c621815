package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cafepos-api/pkg/apperror"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService   *service.OrderService
	printerService *service.PrinterService
	loc            *time.Location
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, printerService *service.PrinterService, loc *time.Location) *OrderHandler {
	return &OrderHandler{orderService: orderService, printerService: printerService, loc: loc}
}

// List handles listing orders
// @Summary List Orders
// @Tags orders
// @Security BearerAuth
// @Param search query string false "Invoice number"
// @Param user_id query int false "Cashier"
// @Param payment_method query string false "cash, gcash, maya or card"
// @Param is_void query bool false "Void flag"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD, inclusive"
// @Param sort query string false "asc or desc"
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}

	input := &service.ListOrdersInput{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
		Branch:     c.Query("branch"),
		SortOrder:  c.Query("sort"),
	}

	var err error
	if input.StartDate, input.EndDate, err = dateRange(c, h.loc); err != nil {
		response.Error(c, err)
		return
	}
	if input.UserID, err = queryUint(c, "user_id"); err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("is_void"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, apperror.NewFieldError("is_void", "Must be true or false"))
			return
		}
		input.IsVoid = &v
	}
	if raw := c.Query("payment_method"); raw != "" {
		m := enum.PaymentMethod(raw)
		if !m.IsValid() {
			response.Error(c, apperror.NewFieldError("payment_method", "Unknown payment method"))
			return
		}
		input.PaymentMethod = &m
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Create re-prices a client-side cart and records it in one request
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	var req request.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.OrderItemInput{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			AddonIDs:     it.AddonIDs,
			UpgradeID:    it.UpgradeID,
			Instructions: it.Instructions,
		}
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actor, &service.CreateOrderInput{
		Items:         items,
		Discounts:     pos.Discounts{SeniorPWD: req.Discounts.SeniorPWD, Employee: req.Discounts.Employee},
		PaymentMethod: req.PaymentMethod,
		Tendered:      string(req.Tendered),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order created successfully", order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order retrieved successfully", order)
}

// Void flags an order as cancelled. Voiding is irreversible.
func (h *OrderHandler) Void(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req request.VoidOrderRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.VoidOrder(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order voided", order)
}

// Receipt returns the receipt of an order as JSON without printing it
func (h *OrderHandler) Receipt(c *gin.Context) {
	order, ok := h.visibleOrder(c)
	if !ok {
		return
	}
	receipt, err := h.printerService.Receipt(c.Request.Context(), order)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved", receipt)
}

// Print reprints an order's receipt. When the printer fails the receipt is
// still returned with a warning.
func (h *OrderHandler) Print(c *gin.Context) {
	order, ok := h.visibleOrder(c)
	if !ok {
		return
	}
	receipt, err := h.printerService.PrintOrderReceipt(c.Request.Context(), order)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed", gin.H{"receipt": receipt})
}

// visibleOrder resolves the :id the caller may see
func (h *OrderHandler) visibleOrder(c *gin.Context) (uint, bool) {
	actor, ok := GetActor(c)
	if !ok {
		return 0, false
	}
	id, ok := parseID(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := h.orderService.GetOrder(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return 0, false
	}
	return id, true
}
