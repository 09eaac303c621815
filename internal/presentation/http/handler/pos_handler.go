package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/response"
)

// PosHandler drives the caller's terminal cart
type PosHandler struct {
	posService *service.PosService
}

// NewPosHandler creates a new POS handler
func NewPosHandler(posService *service.PosService) *PosHandler {
	return &PosHandler{posService: posService}
}

func (h *PosHandler) GetCart(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	response.OK(c, "Cart retrieved", h.posService.GetCart(actor))
}

// AddItem adds a product configuration, merging it into an identical line
func (h *PosHandler) AddItem(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.posService.AddItem(c.Request.Context(), actor, &service.AddItemInput{
		ProductID:    req.ProductID,
		AddonIDs:     req.AddonIDs,
		UpgradeID:    req.UpgradeID,
		Instructions: req.Instructions,
		Quantity:     req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added to cart", cart)
}

func (h *PosHandler) UpdateQuantity(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	var req request.UpdateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.posService.UpdateQuantity(actor, c.Param("line_id"), *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart updated", cart)
}

func (h *PosHandler) RemoveLine(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	cart, err := h.posService.RemoveLine(actor, c.Param("line_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed from cart", cart)
}

func (h *PosHandler) SetDiscounts(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	var req request.DiscountsRequest
	if !bindJSON(c, &req) {
		return
	}
	cart := h.posService.SetDiscounts(actor, pos.Discounts{SeniorPWD: req.SeniorPWD, Employee: req.Employee})
	response.OK(c, "Discounts updated", cart)
}

func (h *PosHandler) SetPayment(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.posService.SetPayment(actor, req.PaymentMethod, string(req.Tendered))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated", cart)
}

func (h *PosHandler) ClearCart(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	response.OK(c, "Cart cleared", h.posService.ClearCart(actor))
}

// Checkout records the cart as an order. The cart is kept when checkout fails.
func (h *PosHandler) Checkout(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	result, err := h.posService.Checkout(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order placed", result)
}
