package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portlink/terminal-booking/internal/application"
	"github.com/portlink/terminal-booking/pkg/auth"
	"github.com/portlink/terminal-booking/pkg/middleware"
	"github.com/portlink/terminal-booking/pkg/response"
)

// AdminHandler handles administrative account and booking oversight routes.
type AdminHandler struct {
	accounts *application.AccountService
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accounts *application.AccountService, bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{accounts: accounts, bookings: bookings}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.PATCH("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.GET("/carriers", h.ListCarriers)
		admin.GET("/bookings", h.ListAllBookings)
	}

	// Carrier approval is shared between admins and operators.
	approval := r.Group("/api/v1/admin/carriers")
	approval.Use(authMW, middleware.RequireRole(auth.RoleAdmin, auth.RoleOperator))
	{
		approval.POST("/approve", h.ApproveCarrier)
	}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	users, total, err := h.accounts.ListUsers(c.Request.Context(), c.Query("role"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, users, total, page, limit)
}

// UpdateUser handles PATCH /api/v1/admin/users/:id.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	var req application.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.accounts.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	if err := h.accounts.DeleteUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": userID})
}

// ListCarriers handles GET /api/v1/admin/carriers.
func (h *AdminHandler) ListCarriers(c *gin.Context) {
	page, limit := parsePagination(c)

	carriers, total, err := h.accounts.ListCarriers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, carriers, total, page, limit)
}

// ApproveCarrier handles POST /api/v1/admin/carriers/approve.
func (h *AdminHandler) ApproveCarrier(c *gin.Context) {
	var req application.ApproveCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.accounts.SetCarrierStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAllBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListAllBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}
