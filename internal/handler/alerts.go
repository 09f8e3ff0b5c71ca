package handler

import (
	"net/http"
	"strconv"

	"github.com/nb2912/inventory/internal/apierror"
	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertsHandler struct{ svc service.AlertService }

func NewAlertsHandler(svc service.AlertService) *AlertsHandler { return &AlertsHandler{svc: svc} }

func (h *AlertsHandler) LowStock(c *gin.Context) {
	var threshold *int
	if raw, present := c.GetQuery("threshold"); present {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("threshold must be a non-negative integer."))
			return
		}
		threshold = &n
	}
	items, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(items), items)
}

func (h *AlertsHandler) Custom(c *gin.Context) {
	items, err := h.svc.Custom(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(items), items)
}

// SetThreshold godoc
// @Summary      Set or clear an item's alert threshold
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId path string                  true "Item UUID"
// @Param        body   body dto.SetThresholdRequest true "threshold >= 0, or null to clear"
// @Success      200  {object} dto.Envelope{data=dto.ItemResponse}
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /api/alerts/threshold/{itemId} [patch]
func (h *AlertsHandler) SetThreshold(c *gin.Context) {
	id, ok := paramUUID(c, "itemId")
	if !ok {
		return
	}
	var req dto.SetThresholdRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !req.Threshold.Set {
		c.JSON(http.StatusBadRequest, apierror.New("Valid threshold value is required."))
		return
	}
	resp, err := h.svc.SetThreshold(c.Request.Context(), id, req.Threshold.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Alert threshold updated.", resp)
}
