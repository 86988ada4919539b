package admin

import (
	"errors"
	"net/http"

	"russify/internal/modules/messaging"
	"russify/internal/pkg/response"
	"russify/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type Handler struct {
	service *Service
	threads *messaging.Handler
}

func NewHandler(service *Service, threads *messaging.Handler) *Handler {
	return &Handler{service: service, threads: threads}
}

// RegisterRoutes mounts /admin. mw must authenticate and restrict to admins.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw ...gin.HandlerFunc) {
	g := api.Group("/admin", mw...)
	g.GET("", h.Get)
	g.POST("", h.Post)
}

// Get serves the aggregate, or a thread when action=messages.
func (h *Handler) Get(c *gin.Context) {
	switch c.Query("action") {
	case "":
		agg, err := h.service.Aggregate(c.Request.Context(), c.GetInt64("user_id"))
		if err != nil {
			h.fail(c, err)
			return
		}
		response.OK(c, http.StatusOK, gin.H{
			"requests": agg.Requests,
			"users":    agg.Users,
			"works":    agg.Works,
		})
	case "messages":
		h.threads.LoadThread(c)
	default:
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action")
	}
}

// Post handles ?action=send_message, otherwise the body's action.
func (h *Handler) Post(c *gin.Context) {
	if c.Query("action") == "send_message" {
		h.threads.SendMessage(c)
		return
	}

	var env actionEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		response.Invalid(c, "Invalid request body", validator.Fields(err))
		return
	}

	switch env.Action {
	case ActionUpdateStatus:
		h.updateStatus(c)
	case ActionCompleteWork:
		h.completeWork(c)
	case ActionPayBonus:
		h.payBonus(c)
	case ActionDeleteRequest:
		h.deleteRequest(c)
	case ActionMarkForDeletion:
		h.markForDeletion(c)
	default:
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action")
	}
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "request_id and status are required", validator.Fields(err))
		return
	}

	sr, err := h.service.SetStatus(c.Request.Context(), req.RequestID, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"request": sr})
}

func (h *Handler) completeWork(c *gin.Context) {
	var req CompleteWorkRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "request_id, work_cost and bonus_earned are required", validator.Fields(err))
		return
	}

	work, err := h.service.CompleteWork(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{"work": work})
}

func (h *Handler) payBonus(c *gin.Context) {
	var req PayBonusRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "work_id is required", validator.Fields(err))
		return
	}

	work, err := h.service.PayBonus(c.Request.Context(), req.WorkID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"work": work})
}

func (h *Handler) deleteRequest(c *gin.Context) {
	var req RequestIDRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "request_id is required", validator.Fields(err))
		return
	}

	if err := h.service.DeleteRequest(c.Request.Context(), req.RequestID); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}

func (h *Handler) markForDeletion(c *gin.Context) {
	var req RequestIDRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "request_id is required", validator.Fields(err))
		return
	}

	sr, err := h.service.MarkForDeletion(c.Request.Context(), req.RequestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"request": sr})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		response.Error(c, http.StatusNotFound, "REQUEST_NOT_FOUND", err.Error())
	case errors.Is(err, ErrWorkNotFound):
		response.Error(c, http.StatusNotFound, "WORK_NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, ErrMissingWorkFields), errors.Is(err, ErrNegativeAmount):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition), errors.Is(err, ErrNotInProgress):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrWorkExists):
		response.Error(c, http.StatusConflict, "WORK_EXISTS", err.Error())
	case errors.Is(err, ErrBonusAlreadyPaid):
		response.Error(c, http.StatusConflict, "BONUS_ALREADY_PAID", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
	}
}
