package user

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
// 📄 List - GET /api/users
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/users [get]
func (h *Handler) List(c *gin.Context) {
	users, err := h.Service.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"users": users})
}

// ===========================
// 🔍 Get - GET /api/users/:id
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	u, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"user": u})
}

// ===========================
// 🎯 Create - POST /api/users
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "user"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/users [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest(msgRequired))
		return
	}

	u, err := h.Service.Create(c.Request.Context(), req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"user": u})
}

// ===========================
// ✏️ Update - PATCH /api/users?id= and /api/users/:id
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body UpdateUserRequest true "fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.Query("id")
	}
	if id == "" {
		utils.RespondError(c, utils.BadRequest("ID is required"))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BadRequest("Invalid request body."))
		return
	}

	u, err := h.Service.Update(c.Request.Context(), id, req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"user": u})
}

// ===========================
// 🗑️ Delete - DELETE /api/users?id=
// @Summary Delete user
// @Description Refused while the user is responsible for any event
// @Tags Users
// @Produce json
// @Param id query string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users [delete]
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
