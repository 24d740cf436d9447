package blog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khallude/Healthify-Solutions-sub001/internal/auth"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/httputil"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Handler provides HTTP handlers for blog content
type Handler struct {
	service interfaces.BlogService
	tokens  interfaces.TokenService
	logger  *logger.Logger
}

// NewHandler creates a new blog handler
func NewHandler(service interfaces.BlogService, tokens interfaces.TokenService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		logger:  log,
	}
}

// RegisterRoutes registers blog routes. Reads are public; writes require a
// doctor or admin session.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	posts := router.Group("/blog")
	{
		posts.GET("", h.List)
		posts.GET("/:id", h.Get)

		writers := posts.Group("")
		writers.Use(auth.Authenticate(h.tokens, h.logger), auth.RequireRoles(types.RoleDoctor, types.RoleAdmin, types.RoleSuperAdmin))
		{
			writers.POST("", h.Create)
			writers.PUT("/:id", h.Update)
			writers.DELETE("/:id", h.Delete)
		}
	}
}

// List returns published posts
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.service.ListPublished(c.Request.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// Get returns a single post
func (h *Handler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Create publishes a new post
func (h *Handler) Create(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	var req types.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	post, err := h.service.Create(c.Request.Context(), claims.AccountID, &req)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// Update edits a post
func (h *Handler) Update(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	var req types.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.WriteBadRequest(c, err)
		return
	}

	post, err := h.service.Update(c.Request.Context(), c.Param("id"), &req, claims)
	if err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete removes a post
func (h *Handler) Delete(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		httputil.WriteError(c, h.logger, types.NewAuthenticationError(types.ErrCodeMissingToken, "Authorization token required"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		httputil.WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
