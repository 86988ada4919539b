package partner

import (
	"errors"
	"net/http"

	"russify/internal/modules/messaging"
	"russify/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	threads *messaging.Handler
}

func NewHandler(service *Service, threads *messaging.Handler) *Handler {
	return &Handler{service: service, threads: threads}
}

// RegisterRoutes mounts /partner. mw must authenticate and restrict to
// partners.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw ...gin.HandlerFunc) {
	g := api.Group("/partner", mw...)
	g.GET("", h.Get)
	g.POST("", h.Post)
}

// Get serves the dashboard, or the thread when action=messages.
func (h *Handler) Get(c *gin.Context) {
	switch c.Query("action") {
	case "":
		h.dashboard(c)
	case "messages":
		h.threads.LoadThread(c)
	default:
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action")
	}
}

// Post creates a request, or sends a message when action=send_message.
func (h *Handler) Post(c *gin.Context) {
	switch c.Query("action") {
	case "":
		h.createRequest(c)
	case "send_message":
		h.threads.SendMessage(c)
	default:
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action")
	}
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"requests":     d.Requests,
		"works":        d.Works,
		"bonusHistory": d.BonusHistory,
		"user":         d.User,
	})
}

func (h *Handler) createRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Client name, phone, car and service type are required")
		return
	}

	created, err := h.service.CreateRequest(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{"request": created})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidServiceType):
		response.Error(c, http.StatusBadRequest, "INVALID_SERVICE_TYPE", err.Error())
	case errors.Is(err, ErrInvalidCarYear):
		response.Error(c, http.StatusBadRequest, "INVALID_CAR_YEAR", err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
	}
}
