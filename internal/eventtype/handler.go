package eventtype

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/event-scheduler-backend/middleware"
	"github.com/sharath018/event-scheduler-backend/utils"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📄 List - GET /api/event-types
// @Summary List event types
// @Tags EventTypes
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/event-types [get]
func (h *Handler) List(c *gin.Context) {
	types, err := h.Service.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"eventTypes": types})
}

// ===========================
// 🎯 Create - POST /api/event-types
// @Summary Create event type
// @Tags EventTypes
// @Accept json
// @Produce json
// @Param body body CreateEventTypeRequest true "name and label"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/event-types [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateEventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest(msgRequired))
		return
	}

	t, err := h.Service.Create(c.Request.Context(), req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"eventType": t})
}

// ===========================
// ✏️ Update - PATCH /api/event-types?id=
// @Summary Update event type label
// @Tags EventTypes
// @Accept json
// @Produce json
// @Param id query string true "Event type ID"
// @Param body body UpdateEventTypeRequest true "label"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/event-types [patch]
func (h *Handler) Update(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		utils.RespondError(c, utils.BadRequest("ID is required"))
		return
	}

	var req UpdateEventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("Label is required."))
		return
	}

	t, err := h.Service.UpdateLabel(c.Request.Context(), id, req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"eventType": t})
}

// ===========================
// 🗑️ Delete - DELETE /api/event-types?id=
// @Summary Delete event type
// @Tags EventTypes
// @Produce json
// @Param id query string true "Event type ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/event-types [delete]
func (h *Handler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		utils.RespondError(c, utils.BadRequest("ID is required"))
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, middleware.GetIPFromContext(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, nil)
}
