package contact

import (
	"errors"
	"net/http"

	"russify/internal/pkg/response"
	"russify/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/contact", h.Submit)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, "Invalid request body", validator.Fields(err))
		return
	}

	lead, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Invalid(c, err.Error(), validator.Fields(err))
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
		return
	}

	response.OK(c, http.StatusCreated, gin.H{"id": lead.ID, "relayed": lead.Relayed})
}
