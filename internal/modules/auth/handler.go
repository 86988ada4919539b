package auth

import (
	"errors"
	"net/http"

	"russify/internal/pkg/response"
	"russify/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts POST /auth for every credential action and
// GET /auth/me behind requireAuth.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	api.POST("/auth", h.Dispatch)
	api.GET("/auth/me", requireAuth, h.GetMe)
}

// Dispatch selects the operation from the body's action field.
func (h *Handler) Dispatch(c *gin.Context) {
	var env actionEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		response.Invalid(c, "Invalid request body", validator.Fields(err))
		return
	}

	switch env.Action {
	case ActionLogin:
		h.login(c)
	case ActionRegister:
		h.register(c)
	case ActionResetPassword:
		h.resetPassword(c)
	default:
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action")
	}
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "Phone or email and password are required", validator.Fields(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"token": res.Token, "user": res.User})
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "Name, phone, password and confirmation are required", validator.Fields(err))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{"token": res.Token, "user": res.User})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "Phone, email and the new password are required", validator.Fields(err))
		return
	}

	res, err := h.service.ResetPassword(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"token": res.Token, "user": res.User})
}

// GetMe returns the current account refreshed from the store.
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Invalid(c, err.Error(), validator.Fields(err))
	case errors.Is(err, ErrPasswordTooShort):
		response.Error(c, http.StatusBadRequest, "PASSWORD_TOO_SHORT", err.Error())
	case errors.Is(err, ErrPasswordMismatch):
		response.Error(c, http.StatusBadRequest, "PASSWORD_MISMATCH", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid phone/email or password")
	case errors.Is(err, ErrAccountExists):
		response.Error(c, http.StatusConflict, "ACCOUNT_EXISTS", err.Error())
	case errors.Is(err, ErrResetMismatch):
		response.Error(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
	}
}
