package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/httputil"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Handler provides HTTP handlers for authentication and account management
type Handler struct {
	service interfaces.AuthService
	tokens  interfaces.TokenService
	logger  *logger.Logger
}

// NewHandler creates a new authentication handler
func NewHandler(service interfaces.AuthService, tokens interfaces.TokenService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		logger:  log,
	}
}

// RegisterRoutes registers authentication and account routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.RegisterPatient)
		auth.POST("/doctor/register", h.RegisterDoctor)
		auth.POST("/login", h.Login)
		auth.POST("/admin/login", h.AdminLogin)
		auth.POST("/admin/verify-otp", h.VerifyAdminOTP)
		auth.POST("/password", Authenticate(h.tokens, h.logger), h.ChangePassword)
		auth.POST("/password/forgot", h.ForgotPassword)
		auth.POST("/password/verify-reset", h.VerifyResetCode)
		auth.POST("/password/reset", h.ResetPassword)
	}

	router.GET("/profile", Authenticate(h.tokens, h.logger), h.GetProfile)

	admin := router.Group("")
	admin.Use(Authenticate(h.tokens, h.logger), RequireRoles(types.RoleAdmin, types.RoleSuperAdmin))
	{
		admin.POST("/admins", h.CreateAdmin)
		admin.GET("/admins", h.ListAdmins)
		admin.DELETE("/admins/:id", h.DeleteAdmin)
		admin.GET("/accounts", h.ListAccounts)
		admin.POST("/accounts/:id/ban", h.BanAccount)
		admin.POST("/accounts/:id/unban", h.UnbanAccount)
		admin.POST("/doctors/:id/approve", h.ApproveDoctor)
	}
}

// RegisterPatient handles patient registration
func (h *Handler) RegisterPatient(c *gin.Context) {
	var req types.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	account, err := h.service.RegisterPatient(c.Request.Context(), &req)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// RegisterDoctor handles doctor registration
func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req types.DoctorRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	account, err := h.service.RegisterDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account": account,
		"message": "Registration received. Your account is pending approval.",
	})
}

// Login handles patient and doctor login
func (h *Handler) Login(c *gin.Context) {
	var credentials types.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	token, err := h.service.Login(c.Request.Context(), &credentials)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// AdminLogin handles the first step of the admin login flow
func (h *Handler) AdminLogin(c *gin.Context) {
	var credentials types.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	result, err := h.service.AdminLogin(c.Request.Context(), &credentials)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// VerifyAdminOTP handles the second step of the admin login flow
func (h *Handler) VerifyAdminOTP(c *gin.Context) {
	var submission types.OTPSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	token, err := h.service.VerifyAdminOTP(c.Request.Context(), &submission)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// GetProfile returns the authenticated account
func (h *Handler) GetProfile(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), claims.AccountID)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// ChangePassword changes the authenticated account's password
func (h *Handler) ChangePassword(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	var req types.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), claims.AccountID, &req); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// ForgotPassword dispatches a password reset code to the given email
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req types.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset code sent to your email"})
}

// VerifyResetCode checks a reset code without consuming it
func (h *Handler) VerifyResetCode(c *gin.Context) {
	var req types.ResetCodeSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	if err := h.service.VerifyResetCode(c.Request.Context(), req.Code); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset code is valid"})
}

// ResetPassword completes the password reset flow
func (h *Handler) ResetPassword(c *gin.Context) {
	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// CreateAdmin creates a new admin account
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req types.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	account, err := h.service.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAdmins lists admin accounts
func (h *Handler) ListAdmins(c *gin.Context) {
	criteria := &types.AccountSearchCriteria{Role: types.RoleAdmin}
	accounts, err := h.service.ListAccounts(c.Request.Context(), criteria)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "count": len(accounts)})
}

// DeleteAdmin removes an admin account
func (h *Handler) DeleteAdmin(c *gin.Context) {
	if err := h.service.DeleteAdmin(c.Request.Context(), c.Param("id")); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

// ListAccounts lists accounts matching query filters
func (h *Handler) ListAccounts(c *gin.Context) {
	var criteria types.AccountSearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), &criteria)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "count": len(accounts)})
}

// BanAccount suspends an account
func (h *Handler) BanAccount(c *gin.Context) {
	if err := h.service.BanAccount(c.Request.Context(), c.Param("id")); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account banned"})
}

// UnbanAccount restores a suspended account
func (h *Handler) UnbanAccount(c *gin.Context) {
	if err := h.service.UnbanAccount(c.Request.Context(), c.Param("id")); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account restored"})
}

// ApproveDoctor approves a pending doctor registration
func (h *Handler) ApproveDoctor(c *gin.Context) {
	if err := h.service.ApproveDoctor(c.Request.Context(), c.Param("id")); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor approved"})
}
