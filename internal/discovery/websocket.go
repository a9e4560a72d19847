package discovery

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logging"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
)

const (
	MessageNewMatch = "new_match"

	writeWait = 10 * time.Second
	sendQueue = 256
)

// Hub pushes match events to connected users. One connection per user;
// a newer connection replaces the older one.
type Hub struct {
	clients    map[int64]*Client
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	upgrader   websocket.Upgrader
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	userID int64
}

type Message struct {
	Type   string      `json:"type"`
	UserID int64       `json:"user_id"`
	Data   interface{} `json:"data"`
}

// NewHub accepts upgrades from the given browser origins. With no origins
// every origin is accepted.
func NewHub(allowedOrigins ...string) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		broadcast:  make(chan Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader:   websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

// originChecker matches the Origin header against allowed, ignoring case
// and a trailing slash. Requests without an Origin header are not from a
// browser and pass.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[normalizeOrigin(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[normalizeOrigin(origin)]
		return ok
	}
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}

// Run owns the client map until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			if old, ok := h.clients[client.userID]; ok {
				close(old.send)
			}
			h.clients[client.userID] = client
			logging.Debug().Int64("user_id", client.userID).Msg("websocket connected")

		case client := <-h.unregister:
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
				logging.Debug().Int64("user_id", client.userID).Msg("websocket disconnected")
			}

		case message := <-h.broadcast:
			if client, ok := h.clients[message.UserID]; ok {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client.userID)
				}
			}

		case <-ctx.Done():
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			return
		}
	}
}

// NotifyMatch sends new_match to both participants.
func (h *Hub) NotifyMatch(ctx context.Context, m *Match) error {
	for _, userID := range []int64{m.User1ID, m.User2ID} {
		message := Message{Type: MessageNewMatch, UserID: userID, Data: m}
		select {
		case h.broadcast <- message:
		case <-h.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan Message, sendQueue),
		userID: userID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
