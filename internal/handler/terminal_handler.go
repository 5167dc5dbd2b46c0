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

// TerminalHandler handles terminal lookup and administration routes.
type TerminalHandler struct {
	service *application.TerminalService
}

// NewTerminalHandler creates a new TerminalHandler.
func NewTerminalHandler(service *application.TerminalService) *TerminalHandler {
	return &TerminalHandler{service: service}
}

// RegisterRoutes registers all terminal routes on the given router group.
func (h *TerminalHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	terminals := r.Group("/api/v1/terminals")
	terminals.Use(authMW)
	{
		terminals.GET("", h.ListTerminals)
		terminals.GET("/:id", h.GetTerminal)
		terminals.POST("", middleware.RequireRole(auth.RoleAdmin), h.CreateTerminal)
		terminals.PATCH("/:id", middleware.RequireRole(auth.RoleAdmin), h.UpdateTerminal)
	}

	operator := r.Group("/api/v1/operator")
	operator.Use(authMW, middleware.RequireRole(auth.RoleOperator))
	{
		operator.GET("/terminal", h.GetOperatorTerminal)
	}
}

// ListTerminals handles GET /api/v1/terminals.
func (h *TerminalHandler) ListTerminals(c *gin.Context) {
	page, limit := parsePagination(c)

	result, total, err := h.service.ListTerminals(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result, total, page, limit)
}

// GetTerminal handles GET /api/v1/terminals/:id.
func (h *TerminalHandler) GetTerminal(c *gin.Context) {
	terminalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid terminal ID")
		return
	}

	result, err := h.service.GetTerminal(c.Request.Context(), terminalID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetOperatorTerminal handles GET /api/v1/operator/terminal.
func (h *TerminalHandler) GetOperatorTerminal(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetOperatorTerminal(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateTerminal handles POST /api/v1/terminals.
func (h *TerminalHandler) CreateTerminal(c *gin.Context) {
	var req application.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateTerminal(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateTerminal handles PATCH /api/v1/terminals/:id.
func (h *TerminalHandler) UpdateTerminal(c *gin.Context) {
	terminalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid terminal ID")
		return
	}

	var req application.UpdateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateTerminal(c.Request.Context(), terminalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
