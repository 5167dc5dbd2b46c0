package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portlink/terminal-booking/internal/application"
	"github.com/portlink/terminal-booking/pkg/auth"
	"github.com/portlink/terminal-booking/pkg/middleware"
	"github.com/portlink/terminal-booking/pkg/response"
)

// BookingHandler handles HTTP requests for the booking lifecycle. Routes are
// grouped per role; the role middleware is only the first gate, ownership is
// re-checked inside the domain.
type BookingHandler struct {
	bookings *application.BookingService
	accounts *application.AccountService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *application.BookingService, accounts *application.AccountService) *BookingHandler {
	return &BookingHandler{bookings: bookings, accounts: accounts}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	carrier := r.Group("/api/v1/carrier")
	carrier.Use(authMW, middleware.RequireRole(auth.RoleCarrier))
	{
		carrier.POST("/bookings", h.CreateBooking)
		carrier.GET("/bookings", h.ListCarrierBookings)
		carrier.GET("/bookings/:id", h.GetBooking)
		carrier.POST("/bookings/:id/cancel", h.CancelBooking)
		carrier.GET("/drivers", h.ListCarrierDrivers)
	}

	operator := r.Group("/api/v1/operator")
	operator.Use(authMW, middleware.RequireRole(auth.RoleOperator))
	{
		operator.GET("/bookings", h.ListTerminalBookings)
		operator.GET("/bookings/:id", h.GetBooking)
		operator.POST("/bookings/:id/decide", h.DecideBooking)
	}

	driver := r.Group("/api/v1/driver")
	driver.Use(authMW, middleware.RequireRole(auth.RoleDriver))
	{
		driver.GET("/bookings", h.ListDriverBookings)
		driver.GET("/bookings/:id", h.GetBooking)
		driver.GET("/available-bookings", h.ListAssignableBookings)
		driver.POST("/bookings/:id/assign", h.AssignDriver)
		driver.POST("/bookings/:id/consume", h.ConsumeBooking)
	}
}

// CreateBooking handles POST /api/v1/carrier/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBooking handles GET /api/v1/{carrier,operator,driver}/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListCarrierBookings handles GET /api/v1/carrier/bookings.
func (h *BookingHandler) ListCarrierBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.bookings.ListCarrierBookings(c.Request.Context(), userID, bookingFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/carrier/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.CancelBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListCarrierDrivers handles GET /api/v1/carrier/drivers.
func (h *BookingHandler) ListCarrierDrivers(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.accounts.ListCarrierDrivers(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListTerminalBookings handles GET /api/v1/operator/bookings.
func (h *BookingHandler) ListTerminalBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.bookings.ListTerminalBookings(c.Request.Context(), userID, bookingFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DecideBooking handles POST /api/v1/operator/bookings/:id/decide.
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req application.DecideBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.DecideBooking(c.Request.Context(), userID, bookingID, req.Approve)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListDriverBookings handles GET /api/v1/driver/bookings.
func (h *BookingHandler) ListDriverBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.bookings.ListDriverBookings(c.Request.Context(), userID, bookingFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAssignableBookings handles GET /api/v1/driver/available-bookings.
func (h *BookingHandler) ListAssignableBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.bookings.ListAssignableBookings(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AssignDriver handles POST /api/v1/driver/bookings/:id/assign.
func (h *BookingHandler) AssignDriver(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.AssignDriver(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConsumeBooking handles POST /api/v1/driver/bookings/:id/consume.
func (h *BookingHandler) ConsumeBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.ConsumeBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// bookingFilter extracts the status and date query parameters.
func bookingFilter(c *gin.Context) application.BookingFilter {
	return application.BookingFilter{
		Status: c.Query("status"),
		Date:   c.Query("date"),
	}
}
