package handler

import (
	"net/http"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/middleware"
	"github.com/nb2912/inventory/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct{ svc service.ItemService }

func NewItemsHandler(svc service.ItemService) *ItemsHandler { return &ItemsHandler{svc: svc} }

// Create godoc
// @Summary      Create an item
// @Description  Adds an item. quantity 0 is accepted; a duplicate serial_no is rejected with 409.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateItemRequest true "Item"
// @Success      201  {object} dto.Envelope{data=dto.ItemResponse}
// @Failure      400  {object} apierror.ValidationError
// @Failure      409  {object} apierror.APIError
// @Router       /api/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Item added successfully!", resp)
}

// List godoc
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        q            query string false "Substring of name, serial_no or description"
// @Param        category     query string false "Exact category"
// @Param        supplier_id  query string false "Supplier UUID"
// @Param        min_quantity query int    false "Minimum quantity"
// @Param        max_quantity query int    false "Maximum quantity"
// @Param        min_price    query number false "Minimum price"
// @Param        max_price    query number false "Maximum price"
// @Param        sort         query string false "name | serial_no | quantity | price | category | created_at | updated_at"
// @Param        order        query string false "asc | desc"
// @Param        page         query int    false "Page (default 1)"
// @Param        limit        query int    false "Page size (default 20, max 100)"
// @Success      200  {object} dto.Envelope{data=dto.ItemListResponse}
// @Router       /api/items [get]
func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(resp.Items), resp)
}

func (h *ItemsHandler) Get(c *gin.Context) {
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

func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Item updated successfully.", resp)
}

// ── Barcodes ──────────────────────────────────────────────────────────────────

type BarcodesHandler struct{ svc service.ItemService }

func NewBarcodesHandler(svc service.ItemService) *BarcodesHandler { return &BarcodesHandler{svc: svc} }

func (h *BarcodesHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetBySerial(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", resp)
}

// UpdateQuantity godoc
// @Summary      Change an item's quantity by barcode
// @Description  add, subtract (clamped at 0) or set the quantity inside a row-locked transaction.
// @Tags         barcodes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        barcode path string                    true "Serial number"
// @Param        body    body dto.UpdateQuantityRequest true "Operation"
// @Success      200  {object} dto.Envelope{data=dto.QuantityChangeResponse}
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /api/barcodes/{barcode}/quantity [patch]
func (h *BarcodesHandler) UpdateQuantity(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.ActorID(c), c.Param("barcode"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Item quantity updated successfully.", resp)
}

// ── Categories ────────────────────────────────────────────────────────────────

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(categories), categories)
}

func (h *CategoriesHandler) Items(c *gin.Context) {
	items, err := h.svc.Items(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(items), items)
}
