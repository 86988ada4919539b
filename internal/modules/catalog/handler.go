package catalog

import (
	"errors"
	"net/http"

	"russify/internal/domain"
	"russify/internal/pkg/response"
	"russify/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /content. optionalAuth identifies admins on reads;
// adminOnly guards writes.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, optionalAuth gin.HandlerFunc, adminOnly ...gin.HandlerFunc) {
	api.GET("/content", optionalAuth, h.List)
	api.POST("/content", append(adminOnly, h.Post)...)
}

// List handles GET ?action=content&type=... Admins also get inactive items.
func (h *Handler) List(c *gin.Context) {
	if action := c.Query("action"); action != "" && action != "content" {
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action")
		return
	}

	includeInactive := domain.UserRole(c.GetString("role")) == domain.RoleAdmin
	items, err := h.service.List(c.Request.Context(), domain.CatalogType(c.Query("type")), includeInactive)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Post(c *gin.Context) {
	var env actionEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		response.Invalid(c, "Invalid request body", validator.Fields(err))
		return
	}

	switch env.Action {
	case ActionCreate, ActionUpdate:
		h.save(c, env.Action)
	case ActionDelete:
		h.delete(c)
	case ActionUploadImage:
		h.uploadImage(c)
	default:
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action")
	}
}

func (h *Handler) save(c *gin.Context, action string) {
	var req ContentRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "Invalid request body", validator.Fields(err))
		return
	}

	adminID := c.GetInt64("user_id")
	if action == ActionCreate {
		item, err := h.service.Create(c.Request.Context(), adminID, req)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.OK(c, http.StatusCreated, gin.H{"item": item})
		return
	}

	if req.ID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "id is required")
		return
	}
	item, err := h.service.Update(c.Request.Context(), adminID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"item": item})
}

func (h *Handler) delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "type and id are required", validator.Fields(err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.Type, req.ID); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}

func (h *Handler) uploadImage(c *gin.Context) {
	var req UploadImageRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, "image_base64 is required", validator.Fields(err))
		return
	}

	url, err := h.service.UploadImage(c.Request.Context(), c.GetInt64("user_id"), req.ImageBase64, req.ImageName)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{"image_url": url})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidType):
		response.Error(c, http.StatusBadRequest, "INVALID_TYPE", err.Error())
	case errors.Is(err, ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrPriceRequired),
		errors.Is(err, ErrNegativeNumber),
		errors.Is(err, ErrFieldNotAllowed),
		errors.Is(err, ErrImageRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotAnImage):
		response.Error(c, http.StatusUnsupportedMediaType, "NOT_AN_IMAGE", err.Error())
	case errors.Is(err, ErrImageTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
	}
}
