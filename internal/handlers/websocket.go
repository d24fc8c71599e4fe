package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/IMMINJU/mario-chat/internal/hub"
	"github.com/IMMINJU/mario-chat/internal/metrics"
)

const (
	maxMessageSize = 4 * 1024
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	sendBufferSize = 64
)

// WebSocketHandler upgrades connections and bridges them to the hub.
type WebSocketHandler struct {
	hub      *hub.Hub
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a WebSocketHandler. allowedOrigins empty
// means any origin is accepted; browser demo clients connect from
// anywhere.
func NewWebSocketHandler(h *hub.Hub, logger zerolog.Logger, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub:    h,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// session is one WebSocket connection. Outbound events go through a
// buffered channel so the hub never blocks on a slow consumer; the
// write pump is the only goroutine writing to the connection.
type session struct {
	conn   *websocket.Conn
	send   chan hub.Event
	closed sync.Once
	logger zerolog.Logger
}

func newSession(conn *websocket.Conn, logger zerolog.Logger) *session {
	return &session{
		conn:   conn,
		send:   make(chan hub.Event, sendBufferSize),
		logger: logger,
	}
}

// Send queues an event for delivery. Events are dropped when the
// buffer is full; delivery is at-most-once, best-effort.
func (s *session) Send(ev hub.Event) {
	select {
	case s.send <- ev:
	default:
		metrics.EventsDropped.Inc()
	}
}

// close stops the write pump after the queued events have been
// flushed. Safe to call more than once.
func (s *session) close() {
	s.closed.Do(func() { close(s.send) })
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (s *session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				s.logger.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleWebSocket processes one client connection: upgrade, register
// with the hub (the implicit join), then the read loop until the
// client disconnects.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	username := sanitizeUsername(r.URL.Query().Get("username"))
	character := r.URL.Query().Get("character")
	room := r.URL.Query().Get("room")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sess := newSession(conn, h.logger)
	go sess.writePump()

	// The connection outlives the HTTP request; hub operations use a
	// background context.
	ctx := context.Background()

	p, err := h.hub.Connect(ctx, sess, username, character, room)
	if err != nil {
		// room:full (or the defensive duplicate error) is already
		// queued; let the pump flush it, then close.
		sess.close()
		return
	}

	defer func() {
		h.hub.Disconnect(ctx, p.ID)
		sess.close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev hub.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Str("id", p.ID).Msg("websocket read error")
			}
			return
		}
		h.dispatch(ctx, p.ID, ev)
	}
}

// dispatch decodes the payload for one inbound event and routes it to
// the hub. Malformed payloads are dropped.
func (h *WebSocketHandler) dispatch(ctx context.Context, id string, ev hub.Event) {
	switch ev.Type {
	case hub.EventSendMessage:
		var payload hub.SendMessagePayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			h.logger.Debug().Err(err).Str("type", ev.Type).Msg("dropping malformed payload")
			return
		}
		h.hub.SendMessage(ctx, id, payload.Text, payload.Character)

	case hub.EventPrivateMessage:
		var payload hub.PrivateMessagePayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			h.logger.Debug().Err(err).Str("type", ev.Type).Msg("dropping malformed payload")
			return
		}
		h.hub.SendPrivate(ctx, id, payload.To, payload.Text)

	case hub.EventTyping:
		var payload hub.TypingPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			h.logger.Debug().Err(err).Str("type", ev.Type).Msg("dropping malformed payload")
			return
		}
		h.hub.SetTyping(id, payload.IsTyping)

	case hub.EventJoinRoom:
		var payload hub.JoinRoomPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			h.logger.Debug().Err(err).Str("type", ev.Type).Msg("dropping malformed payload")
			return
		}
		h.hub.JoinRoom(ctx, id, payload.Room)

	case hub.EventPing:
		h.hub.Pong(id)

	default:
		h.logger.Debug().Str("type", ev.Type).Msg("unknown event type")
	}
}
