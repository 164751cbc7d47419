package event

import (
	"net/http"
	"strconv"

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

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

// ===========================
// 📄 List Events - GET /api/events?page=&limit=&search=
// @Summary List events
// @Description Case-insensitive name search, newest date first
// @Tags Events
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 5, max 100)"
// @Param search query string false "Name contains"
// @Success 200 {object} map[string]interface{}
// @Router /api/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	res, err := h.Service.List(c.Request.Context(), ListQuery{
		Page:   queryInt(c, "page", DefaultPage),
		Limit:  queryInt(c, "limit", DefaultLimit),
		Search: c.Query("search"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{
		"events":     res.Events,
		"totalPages": res.TotalPages,
		"total":      res.Total,
		"page":       res.Page,
		"limit":      res.Limit,
	})
}

// ===========================
// 🔍 Get Event - GET /api/events/:id
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/events/{id} [get]
func (h *Handler) GetEventByID(c *gin.Context) {
	e, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"event": e})
}

// ===========================
// 🎯 Create Event - POST /api/events
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "event"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest(msgMissingFields))
		return
	}

	e, err := h.Service.Create(c.Request.Context(), req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"event": e})
}

// ===========================
// 🔄 Reassign Event - PATCH /api/events?id=
// @Summary Reassign responsible user or event type
// @Tags Events
// @Accept json
// @Produce json
// @Param id query string true "Event ID"
// @Param body body ReassignEventRequest true "userId or eventTypeId"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/events [patch]
func (h *Handler) ReassignEvent(c *gin.Context) {
	var req ReassignEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("Invalid request body."))
		return
	}

	e, err := h.Service.Reassign(c.Request.Context(), c.Query("id"), req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"event": e})
}

// ===========================
// 🗑️ Delete Event - DELETE /api/events {id}
// @Summary Delete event
// @Tags Events
// @Accept json
// @Produce json
// @Param body body DeleteEventRequest true "event id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/events [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	var req DeleteEventRequest
	_ = c.ShouldBindJSON(&req)
	if req.ID == "" {
		req.ID = c.Query("id")
	}

	e, err := h.Service.Delete(c.Request.Context(), req.ID, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"event": e})
}
