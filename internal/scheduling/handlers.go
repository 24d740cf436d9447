package scheduling

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khallude/Healthify-Solutions-sub001/internal/auth"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/httputil"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Handler provides HTTP handlers for appointment management
type Handler struct {
	service interfaces.AppointmentService
	tokens  interfaces.TokenService
	logger  *logger.Logger
}

// NewHandler creates a new appointment handler
func NewHandler(service interfaces.AppointmentService, tokens interfaces.TokenService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		logger:  log,
	}
}

// RegisterRoutes registers appointment routes. All routes require a session.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	appointments := router.Group("/appointments")
	appointments.Use(auth.Authenticate(h.tokens, h.logger))
	{
		appointments.POST("", h.Book)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.PATCH("/:id/status", auth.RequireRoles(types.RoleDoctor, types.RoleAdmin, types.RoleSuperAdmin), h.UpdateStatus)
		appointments.DELETE("/:id", h.Cancel)
	}
}

// Book creates an appointment for the authenticated patient
func (h *Handler) Book(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	var req types.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, h.logger, types.NewValidationError(types.ErrCodeInvalidInput, err.Error()))
		return
	}

	apt, err := h.service.Book(c.Request.Context(), claims.AccountID, &req)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": apt})
}

// List returns the caller's own appointments
func (h *Handler) List(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	appointments, err := h.service.ListForAccount(c.Request.Context(), claims)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments, "count": len(appointments)})
}

// Get returns a single appointment
func (h *Handler) Get(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	apt, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointment": apt})
}

// UpdateStatus transitions an appointment's status
func (h *Handler) UpdateStatus(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	var req types.AppointmentStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteError(c, h.logger, types.NewValidationError(types.ErrCodeInvalidInput, err.Error()))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, claims); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated"})
}

// Cancel cancels an appointment
func (h *Handler) Cancel(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), c.Param("id"), claims); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}
