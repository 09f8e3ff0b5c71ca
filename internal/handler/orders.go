package handler

import (
	"net/http"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/middleware"
	"github.com/nb2912/inventory/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Purchase orders ───────────────────────────────────────────────────────────

type PurchaseOrdersHandler struct{ svc service.PurchaseOrderService }

func NewPurchaseOrdersHandler(svc service.PurchaseOrderService) *PurchaseOrdersHandler {
	return &PurchaseOrdersHandler{svc: svc}
}

func (h *PurchaseOrdersHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Purchase order created successfully", resp)
}

func (h *PurchaseOrdersHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(orders), orders)
}

func (h *PurchaseOrdersHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", resp)
}

// UpdateStatus godoc
// @Summary      Change a purchase order's status
// @Description  Moving to "Received" adds every line to stock in one transaction. A received order is final (409).
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                                true "Purchase order UUID"
// @Param        body body dto.UpdatePurchaseOrderStatusRequest true "New status"
// @Success      200  {object} dto.Envelope{data=dto.PurchaseOrderResponse}
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/purchase-orders/{id}/status [patch]
func (h *PurchaseOrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePurchaseOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), middleware.ActorID(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Purchase order status updated to "+req.Status, resp)
}

// ── Sales orders ──────────────────────────────────────────────────────────────

type SalesOrdersHandler struct{ svc service.SalesOrderService }

func NewSalesOrdersHandler(svc service.SalesOrderService) *SalesOrdersHandler {
	return &SalesOrdersHandler{svc: svc}
}

// Create godoc
// @Summary      Create a sales order
// @Description  Locks every item, checks stock, then records the order and decrements stock atomically.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSalesOrderRequest true "Order"
// @Success      201  {object} dto.Envelope{data=dto.CreatedResponse}
// @Failure      400  {object} apierror.APIError
// @Router       /api/sales-orders [post]
func (h *SalesOrdersHandler) Create(c *gin.Context) {
	var req dto.CreateSalesOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Sales order created successfully", resp)
}

func (h *SalesOrdersHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(orders), orders)
}

func (h *SalesOrdersHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", resp)
}
