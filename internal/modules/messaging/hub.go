package messaging

import (
	"sync"

	"russify/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client serializes writes; gorilla connections allow one writer at a time.
type client struct {
	conn    *websocket.Conn
	role    domain.UserRole
	writeMu sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub keeps one live connection per user and fans thread events out to the
// owning partner and every connected admin.
type Hub struct {
	connections map[int64]*client
	mutex       sync.RWMutex
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		connections: make(map[int64]*client),
		log:         log,
	}
}

// Register replaces any previous connection of the same user.
func (h *Hub) Register(userID int64, role domain.UserRole, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists && old.conn != conn {
		_ = old.conn.Close()
	}
	h.connections[userID] = &client{conn: conn, role: role}
}

// Unregister drops conn if it is still the user's current connection.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.connections[userID]; exists && c.conn == conn {
		_ = c.conn.Close()
		delete(h.connections, userID)
	}
}

func (h *Hub) SendToUser(userID int64, message any) bool {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists {
		return false
	}

	if err := c.writeJSON(message); err != nil {
		h.log.Debug("websocket write failed", zap.Int64("user_id", userID), zap.Error(err))
		h.Unregister(userID, c.conn)
		return false
	}
	return true
}

// NotifyThread pushes thread_updated to the partner and all admins.
func (h *Hub) NotifyThread(partnerID, requestID int64) {
	event := ThreadEvent{Type: EventThreadUpdated, RequestID: requestID}

	h.mutex.RLock()
	targets := make([]int64, 0, len(h.connections))
	for userID, c := range h.connections {
		if userID == partnerID || c.role == domain.RoleAdmin {
			targets = append(targets, userID)
		}
	}
	h.mutex.RUnlock()

	for _, userID := range targets {
		h.SendToUser(userID, event)
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		_ = c.conn.Close()
		delete(h.connections, userID)
	}
}
