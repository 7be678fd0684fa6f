package v1

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yys/user-service/internal/core/domain"
	"github.com/yys/user-service/internal/logger"
	"github.com/yys/user-service/middleware"
)

// UserLogic defines the business operations the handler depends on.
// Satisfied by *logicv1.UserService; narrowed to an interface so handler
// tests can substitute a mock.
type UserLogic interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Profile, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id int64) (*domain.Profile, error)
	GetUserPage(ctx context.Context, req domain.PageRequest) (*domain.PageResult, error)
	UpdateUser(ctx context.Context, req domain.UpdateRequest) (*domain.Profile, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Handler groups the HTTP handlers for the user API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	users UserLogic
}

// NewHandler creates a new Handler with the given user logic.
func NewHandler(users UserLogic) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes registers all user API v1 routes on the given router group,
// which is expected to be rooted at /api/v1/users.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/hello", h.Hello)
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/page", h.GetUserPage)
	rg.GET("/:userId", h.GetUserInfo)
	rg.PUT("", h.UpdateUser)
	rg.DELETE("/:userId", h.DeleteUser)
}

func (h *Handler) startSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), name, trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
}

// Hello is a plain liveness probe for the API group. It returns a bare
// string, not the envelope.
func (h *Handler) Hello(c *gin.Context) {
	c.String(200, "hello")
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := h.startSpan(c, "http.register")
	defer span.End()

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		respondBindError(c, err)
		return
	}

	profile, err := h.users.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Str("username", req.Username).Msg("Registration failed")
		respondServiceError(c, err)
		return
	}

	respondOK(c, profile)
}

// Login handles POST /login. The success payload is the session token.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := h.startSpan(c, "http.login")
	defer span.End()

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		respondBindError(c, err)
		return
	}

	token, err := h.users.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		respondServiceError(c, err)
		return
	}

	respondOK(c, token)
}

// Logout handles POST /logout. The token travels in the Authorization
// header; logging out an unknown token succeeds silently.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := h.startSpan(c, "http.logout")
	defer span.End()

	token := c.GetHeader("Authorization")
	if token == "" {
		respondError(c, codeBadRequest, "Authorization header required")
		return
	}

	if err := h.users.Logout(ctx, token); err != nil {
		span.RecordError(err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, nil)
}

// GetUserInfo handles GET /:userId.
func (h *Handler) GetUserInfo(c *gin.Context) {
	ctx, span := h.startSpan(c, "http.get_user")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		respondError(c, codeBadRequest, "invalid user id")
		return
	}

	profile, err := h.users.GetUserInfo(ctx, id)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, profile)
}

// GetUserPage handles GET /page?pageNum=&pageSize=.
func (h *Handler) GetUserPage(c *gin.Context) {
	ctx, span := h.startSpan(c, "http.get_user_page")
	defer span.End()

	var req domain.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		span.RecordError(err)
		respondBindError(c, err)
		return
	}

	page, err := h.users.GetUserPage(ctx, req)
	if err != nil {
		span.RecordError(err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

// UpdateUser handles PUT /.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := h.startSpan(c, "http.update_user")
	defer span.End()

	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		respondBindError(c, err)
		return
	}

	profile, err := h.users.UpdateUser(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Int64("user_id", req.ID).Msg("Update failed")
		respondServiceError(c, err)
		return
	}

	respondOK(c, profile)
}

// DeleteUser handles DELETE /:userId. Deleting an unknown id succeeds
// silently.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := h.startSpan(c, "http.delete_user")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		respondError(c, codeBadRequest, "invalid user id")
		return
	}

	if err := h.users.DeleteUser(ctx, id); err != nil {
		span.RecordError(err)
		respondServiceError(c, err)
		return
	}

	respondOK(c, nil)
}
