package messaging

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"russify/internal/domain"
	"russify/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 10 * time.Second
)

type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler builds the thread handler. allowOrigin decides websocket
// upgrades; nil accepts every origin.
func NewHandler(service *Service, hub *Hub, allowOrigin func(origin string) bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
		log: log,
	}
}

// RegisterRoutes mounts GET /ws. auth must read the token from the query.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.GET("/ws", auth, h.ServeWS)
}

// LoadThread handles GET ?action=messages&request_id=N for either role.
func (h *Handler) LoadThread(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	msgs, err := h.service.LoadThread(c.Request.Context(), viewerFrom(c), requestID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"messages": msgs})
}

// SendMessage handles POST ?action=send_message&request_id=N.
func (h *Handler) SendMessage(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), viewerFrom(c), requestID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{"message_id": msg.ID})
}

// ServeWS upgrades and holds the connection until the peer goes away. The
// socket is push-only; anything the client sends is discarded.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	userID := c.GetInt64("user_id")
	if h.hub.IsOnline(userID) {
		h.log.Debug("websocket replaces previous connection", zap.Int64("user_id", userID))
	}
	h.hub.Register(userID, domain.UserRole(c.GetString("role")), conn)
	defer h.hub.Unregister(userID, conn)

	done := make(chan struct{})
	defer close(done)
	go h.ping(conn, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Handler) ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		response.Error(c, http.StatusBadRequest, "EMPTY_MESSAGE", err.Error())
	case errors.Is(err, ErrMessageTooLong):
		response.Error(c, http.StatusBadRequest, "MESSAGE_TOO_LONG", err.Error())
	case errors.Is(err, ErrInvalidFile):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ErrRequestNotFound):
		response.Error(c, http.StatusNotFound, "REQUEST_NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotParticipant):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrRequestLocked):
		response.Error(c, http.StatusConflict, "REQUEST_LOCKED", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process message")
	}
}

func viewerFrom(c *gin.Context) Viewer {
	return Viewer{
		UserID: c.GetInt64("user_id"),
		Role:   domain.UserRole(c.GetString("role")),
	}
}

func requestIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("request_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST_ID", "request_id must be a positive integer")
		return 0, false
	}
	return id, true
}
