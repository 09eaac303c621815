package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/response"
)

// StoreHandler opens and closes the caller's branch
type StoreHandler struct {
	storeService *service.StoreService
	loc          *time.Location
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *service.StoreService, loc *time.Location) *StoreHandler {
	return &StoreHandler{storeService: storeService, loc: loc}
}

func (h *StoreHandler) Status(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	status, err := h.storeService.Status(c.Request.Context(), branchOf(c, actor))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Store status retrieved", status)
}

func (h *StoreHandler) Open(c *gin.Context) {
	h.transition(c, "Store opened", h.storeService.Open)
}

func (h *StoreHandler) Close(c *gin.Context) {
	h.transition(c, "Store closed", h.storeService.Close)
}

func (h *StoreHandler) Toggle(c *gin.Context) {
	h.transition(c, "Store status changed", h.storeService.Toggle)
}

func (h *StoreHandler) transition(c *gin.Context, message string, fn func(ctx context.Context, actor service.Actor) (*service.StoreStatus, error)) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	status, err := fn(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, status)
}

// Logs lists the open/close history, filtered by ?from= and ?to= (inclusive dates)
func (h *StoreHandler) Logs(c *gin.Context) {
	actor, ok := GetActor(c)
	if !ok {
		return
	}
	from, to, err := dateRange(c, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.storeService.Logs(c.Request.Context(), branchOf(c, actor), from, to, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Store logs retrieved", result)
}
