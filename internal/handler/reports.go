package handler

import (
	"fmt"
	"net/http"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler { return &ReportsHandler{svc: svc} }

func (h *ReportsHandler) Value(c *gin.Context) {
	resp, err := h.svc.Value(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", resp)
}

func (h *ReportsHandler) Movement(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	movements, err := h.svc.Movement(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(movements), movements)
}

func (h *ReportsHandler) Categories(c *gin.Context) {
	rows, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, len(rows), rows)
}

// Export godoc
// @Summary      Export the items table
// @Tags         reports
// @Produce      text/csv
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        format query string false "csv (default) | pdf"
// @Success      200
// @Failure      400  {object} apierror.APIError
// @Router       /api/reports/export [get]
func (h *ReportsHandler) Export(c *gin.Context) {
	file, err := h.svc.Export(c.Request.Context(), c.DefaultQuery("format", service.ExportCSV))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
