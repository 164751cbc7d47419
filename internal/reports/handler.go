package reports

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/event-scheduler-backend/middleware"
	"github.com/sharath018/event-scheduler-backend/utils"
)

type Handler struct {
	service ReportService
}

func NewHandler(service ReportService) *Handler {
	return &Handler{service: service}
}

// ExportEvents handles GET /api/events/export
// @Summary Export events
// @Description Download the filtered event listing (newest first) as csv, xlsx, pdf or ics
// @Tags Events
// @Produce octet-stream
// @Param format query string false "csv (default), xlsx, pdf or ics"
// @Param search query string false "Name contains"
// @Param date_range query string false "daily, weekly, monthly, yearly or custom"
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Router /api/events/export [get]
func (h *Handler) ExportEvents(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("invalid query: "+err.Error()))
		return
	}

	data, fname, mime, err := h.service.ExportEvents(c.Request.Context(), req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fname))
	c.Data(http.StatusOK, mime, data)
}
