package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"yourspace/internal/middleware"
	"yourspace/internal/observability"

	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// Max connections per user
	maxConnsPerUser = 12
	// Max total connections
	maxTotalConns = 10000
)

var (
	ErrServerFull = errors.New("server connection limit reached")
	ErrUserFull   = errors.New("user connection limit reached")
)

// Hub maps userID -> set of Clients and routes live events to them.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
	presence   *Presence
	notifier   *Notifier
	closeOnce  sync.Once
}

// NewHub creates a Hub. rdb may be nil, in which case presence is local only.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		conns:    make(map[uint]map[*Client]struct{}),
		presence: NewPresence(rdb),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "notification hub" }

// Register a connection for a given userID. Returns the Client or error if limits exceeded.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	if h.totalConns >= maxTotalConns {
		h.mu.Unlock()
		return nil, ErrServerFull
	}
	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		h.mu.Unlock()
		return nil, ErrUserFull
	}

	client := NewClient(h, conn, userID)
	client.IncomingHandler = h.handleIncoming
	client.OnActivity = func(uid uint) { h.presence.Touch(context.Background(), uid) }

	m[client] = struct{}{}
	h.totalConns++
	h.mu.Unlock()

	observability.WebSocketConnections.Inc()
	h.presence.Connect(context.Background(), userID)
	return client, nil
}

func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	removed := false
	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
			removed = true
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
	h.mu.Unlock()

	if removed {
		observability.WebSocketConnections.Dec()
		h.presence.Disconnect(context.Background(), client.UserID)
	}
}

// Broadcast writes message to every local connection of userID.
func (h *Hub) Broadcast(userID uint, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.conns[userID]; ok {
		data := []byte(message)
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// Deliver pushes an event to every session of userID, wherever it is held.
// Once wired to Redis the event goes through the user channel, which also
// feeds this instance; otherwise it is written locally. Failures are logged
// and swallowed: an offline user simply misses the event.
func (h *Hub) Deliver(ctx context.Context, userID uint, event Event) {
	message, err := event.encode()
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode live event", slog.String("error", err.Error()))
		return
	}
	observability.LiveEventsTotal.WithLabelValues(event.Type).Inc()

	h.mu.RLock()
	n := h.notifier
	h.mu.RUnlock()

	if n.Enabled() {
		err := n.PublishUser(ctx, userID, message)
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "failed to publish live event, delivering locally",
			slog.String("event_type", event.Type),
			slog.Uint64("target_user_id", uint64(userID)),
			slog.String("error", err.Error()))
	}
	h.Broadcast(userID, message)
}

// IsOnline reports whether a user has at least one active socket on any instance.
func (h *Hub) IsOnline(userID uint) bool {
	return h.presence.IsOnline(context.Background(), userID)
}

// StartWiring subscribes to the Redis user channels and forwards payloads
// to local connections.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	if err := n.StartPatternSubscriber(ctx, h.Broadcast); err != nil {
		return err
	}
	h.mu.Lock()
	h.notifier = n
	h.mu.Unlock()
	return nil
}

func (h *Hub) handleIncoming(c *Client, data []byte) {
	var msg incoming
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	switch msg.Type {
	case "typing":
		if msg.ReceiverID == 0 || msg.ReceiverID == c.UserID {
			return
		}
		h.Deliver(context.Background(), msg.ReceiverID, Event{
			Type:    EventTyping,
			Payload: TypingPayload{SenderID: c.UserID, IsTyping: msg.IsTyping},
		})
	case "ping":
		if pong, err := (Event{Type: EventPong}).encode(); err == nil {
			c.TrySend([]byte(pong))
		}
	}
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for userID, userConns := range h.conns {
			for client := range userConns {
				if client.Conn == nil {
					continue
				}
				if err := client.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
					middleware.Logger.Debug("failed to write close frame",
						slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
				}
				_ = client.Conn.Close()
			}
			observability.WebSocketConnections.Sub(float64(len(userConns)))
		}
		h.conns = make(map[uint]map[*Client]struct{})
		h.totalConns = 0
	})
	return nil
}
