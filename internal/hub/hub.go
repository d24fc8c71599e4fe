// Package hub is the dispatch layer between inbound client intents and
// outbound fan-out. It owns the presence registry, the typing tracker
// and the room store, and is the only writer to any of them: every
// event runs to completion under a single mutex, preserving the
// one-event-at-a-time processing model.
package hub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/IMMINJU/mario-chat/internal/metrics"
	"github.com/IMMINJU/mario-chat/internal/models"
	"github.com/IMMINJU/mario-chat/internal/presence"
	"github.com/IMMINJU/mario-chat/internal/store"
	"github.com/IMMINJU/mario-chat/internal/typing"
)

// ErrServerFull is returned by Connect when the connection cap is
// reached. The refused client has already been sent a room:full event.
var ErrServerFull = errors.New("server full")

// Sender delivers outbound events to one connected client. Delivery is
// fire-and-forget: implementations must not block the caller.
type Sender interface {
	Send(ev Event)
}

// Config holds hub tuning knobs.
type Config struct {
	// HistoryLimit caps the catch-up payload sent on join and room
	// change. Defaults to 50.
	HistoryLimit int

	// MaxConnections refuses connections beyond the cap when > 0.
	MaxConnections int

	// TypingTimeout is how long a typing flag survives without an
	// explicit stop. Defaults to typing.DefaultTimeout.
	TypingTimeout time.Duration
}

const defaultHistoryLimit = 50

// Hub routes inbound events to registry/store mutations and outbound
// fan-out.
type Hub struct {
	cfg      Config
	registry *presence.Registry
	tracker  *typing.Tracker
	store    store.MessageStore
	senders  map[string]Sender
	logger   zerolog.Logger
	mu       sync.Mutex
}

// New creates a hub around the given message store.
func New(cfg Config, msgStore store.MessageStore, logger zerolog.Logger) *Hub {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}

	h := &Hub{
		cfg:      cfg,
		registry: presence.NewRegistry(),
		store:    msgStore,
		senders:  make(map[string]Sender),
		logger:   logger,
	}
	h.tracker = typing.NewTracker(cfg.TypingTimeout, h.expireTyping)
	return h
}

// Connect registers a new participant and runs the join sequence:
// capacity check, system join message, history replay to the joiner,
// then a user list update for the room.
func (h *Hub) Connect(ctx context.Context, sender Sender, username, character, room string) (*models.Participant, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cfg.MaxConnections > 0 && h.registry.Count() >= h.cfg.MaxConnections {
		sender.Send(NewEvent(EventRoomFull, RoomFullPayload{
			Message: fmt.Sprintf("chat is full (%d participants max)", h.cfg.MaxConnections),
		}))
		metrics.ConnectionsRefused.Inc()
		return nil, ErrServerFull
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "anonymous"
	}
	if !h.store.RoomExists(ctx, room) {
		room = models.DefaultRoom
	}

	id := uuid.NewString()
	p, err := h.registry.Register(id, username, models.NormalizeCharacter(character), room)
	if err != nil {
		return nil, err
	}
	h.senders[id] = sender
	metrics.ConnectionsActive.Inc()

	h.systemMessage(ctx, room, fmt.Sprintf("%s has joined the chat!", username))
	h.replayHistory(ctx, room, sender)
	h.broadcastUserList(room)

	if h.cfg.MaxConnections > 0 {
		h.broadcastAll(NewEvent(EventRoomStatus, RoomStatusPayload{
			Connections: h.registry.Count(),
			Max:         h.cfg.MaxConnections,
		}))
	}

	h.logger.Info().
		Str("id", id).
		Str("username", username).
		Str("room", room).
		Msg("participant connected")

	return p, nil
}

// Disconnect runs the leave sequence for a connection. Idempotent.
func (h *Hub) Disconnect(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.registry.Lookup(id)
	if !ok {
		return
	}

	h.systemMessage(ctx, p.Room, fmt.Sprintf("%s has left the chat.", p.Username))
	h.tracker.Clear(id)
	h.registry.Unregister(id)
	delete(h.senders, id)
	metrics.ConnectionsActive.Dec()

	h.broadcastUserList(p.Room)

	if h.cfg.MaxConnections > 0 {
		h.broadcastAll(NewEvent(EventRoomStatus, RoomStatusPayload{
			Connections: h.registry.Count(),
			Max:         h.cfg.MaxConnections,
		}))
	}

	h.logger.Info().
		Str("id", id).
		Str("username", p.Username).
		Msg("participant disconnected")
}

// SendMessage appends a chat message to the sender's room and fans it
// out to the room, sender included. Empty text after trimming and
// unregistered senders are dropped silently.
func (h *Hub) SendMessage(ctx context.Context, id, text, character string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.registry.Lookup(id)
	if !ok {
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	ch := p.Character
	if character != "" {
		ch = models.NormalizeCharacter(character)
	}

	msg := &models.Message{
		ID:        ulid.Make().String(),
		Text:      text,
		Sender:    p.Username,
		Character: ch,
		Room:      p.Room,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := h.store.Append(ctx, msg); err != nil {
		h.logger.Warn().Err(err).Str("room", p.Room).Msg("failed to append message")
		return
	}
	metrics.MessagesRelayed.WithLabelValues("room").Inc()

	h.deliver(h.audience(p.Room, ""), NewEvent(EventMessage, msg))
}

// SendPrivate delivers a message to exactly the sender and the resolved
// recipient, bypassing room logs entirely. The recipient is addressed
// by participant ID; a display name resolves to the first match.
// Unknown recipients and empty text are dropped silently.
func (h *Hub) SendPrivate(ctx context.Context, id, to, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.registry.Lookup(id)
	if !ok {
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	recipient, ok := h.registry.Lookup(to)
	if !ok {
		recipient, ok = h.registry.FindByUsername(to)
	}
	if !ok {
		h.logger.Debug().Str("to", to).Msg("dropping private message to unknown recipient")
		return
	}

	msg := &models.Message{
		ID:        ulid.Make().String(),
		Text:      text,
		Sender:    p.Username,
		Character: p.Character,
		Recipient: recipient.Username,
		Timestamp: time.Now().UnixMilli(),
		IsPrivate: true,
	}
	metrics.MessagesRelayed.WithLabelValues("private").Inc()

	ev := NewEvent(EventPrivateDelivery, msg)
	audience := []*models.Participant{recipient}
	if recipient.ID != p.ID {
		audience = append(audience, p)
	}
	h.deliver(audience, ev)
}

// SetTyping records typing state and notifies the rest of the sender's
// room (never the sender). A true flag auto-expires after the typing
// timeout unless an explicit stop arrives first.
func (h *Hub) SetTyping(id string, isTyping bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.registry.Lookup(id)
	if !ok {
		return
	}

	h.tracker.Set(id, isTyping)
	metrics.TypingEvents.Inc()

	eventType := EventUserTyping
	if !isTyping {
		eventType = EventUserStoppedTyping
	}
	notice := TypingNotice{UserID: id, Username: p.Username}
	h.deliver(h.audience(p.Room, id), NewEvent(eventType, notice))
}

// JoinRoom moves a participant to another room: leave notice to the
// old room, join notice to the new one, history replay to the mover,
// and user list updates to both rooms. Unknown target rooms and no-op
// moves are dropped.
func (h *Hub) JoinRoom(ctx context.Context, id, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.registry.Lookup(id)
	if !ok {
		return
	}
	if !h.store.RoomExists(ctx, room) {
		h.logger.Debug().Str("room", room).Msg("dropping join for unknown room")
		return
	}
	if p.Room == room {
		return
	}

	oldRoom := p.Room

	h.systemMessage(ctx, oldRoom, fmt.Sprintf("%s has left the chat.", p.Username))

	if err := h.registry.ChangeRoom(id, room); err != nil {
		return
	}
	h.tracker.Clear(id)

	h.systemMessage(ctx, room, fmt.Sprintf("%s has joined the chat!", p.Username))

	if sender, ok := h.senders[id]; ok {
		h.replayHistory(ctx, room, sender)
	}

	h.broadcastUserList(oldRoom)
	h.broadcastUserList(room)

	h.logger.Info().
		Str("id", id).
		Str("from", oldRoom).
		Str("to", room).
		Msg("participant changed room")
}

// Pong answers a client keepalive.
func (h *Hub) Pong(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sender, ok := h.senders[id]; ok {
		sender.Send(Event{Type: EventPong})
	}
}

// Shutdown stops typing timers. Connected sessions are closed by the
// transport layer.
func (h *Hub) Shutdown() {
	h.tracker.Stop()
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	return h.registry.Count()
}

// Participants returns all connected participants in join order.
func (h *Hub) Participants() []*models.Participant {
	return h.registry.List()
}

// RoomOccupancy returns the number of participants in a room.
func (h *Hub) RoomOccupancy(room string) int {
	return len(h.registry.ListByRoom(room))
}

// expireTyping is the tracker's timeout callback: the client never sent
// an explicit stop, so the hub synthesizes one.
func (h *Hub) expireTyping(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.registry.Lookup(id)
	if !ok {
		return
	}

	notice := TypingNotice{UserID: id, Username: p.Username}
	h.deliver(h.audience(p.Room, id), NewEvent(EventUserStoppedTyping, notice))
}

// systemMessage appends a synthetic notice to a room's log and fans it
// out room-wide.
func (h *Hub) systemMessage(ctx context.Context, room, text string) {
	msg := &models.Message{
		ID:        ulid.Make().String(),
		Text:      text,
		Sender:    models.SystemSender,
		Room:      room,
		Timestamp: time.Now().UnixMilli(),
		IsSystem:  true,
	}

	if err := h.store.Append(ctx, msg); err != nil {
		h.logger.Warn().Err(err).Str("room", room).Msg("failed to append system message")
		return
	}
	metrics.MessagesRelayed.WithLabelValues("system").Inc()

	h.deliver(h.audience(room, ""), NewEvent(EventMessage, msg))
}

// replayHistory sends the room's recent log to one client as a
// one-time catch-up payload.
func (h *Hub) replayHistory(ctx context.Context, room string, sender Sender) {
	history, err := h.store.History(ctx, room, h.cfg.HistoryLimit)
	if err != nil {
		h.logger.Warn().Err(err).Str("room", room).Msg("failed to load history")
		return
	}
	metrics.HistoryReplays.Inc()
	sender.Send(NewEvent(EventMessageHistory, history))
}

// broadcastUserList sends the room's participant summaries to all of
// its members.
func (h *Hub) broadcastUserList(room string) {
	members := h.registry.ListByRoom(room)
	summaries := make([]models.Summary, len(members))
	for i, m := range members {
		summaries[i] = m.Summarize()
	}
	h.deliver(members, NewEvent(EventUserList, summaries))
}

// broadcastAll sends an event to every connected participant.
func (h *Hub) broadcastAll(ev Event) {
	h.deliver(h.registry.List(), ev)
}

// audience resolves the fan-out target for a room-scoped event before
// dispatch. exclude drops one participant (typing notices skip the
// sender).
func (h *Hub) audience(room, exclude string) []*models.Participant {
	members := h.registry.ListByRoom(room)
	if exclude == "" {
		return members
	}
	out := members[:0]
	for _, m := range members {
		if m.ID != exclude {
			out = append(out, m)
		}
	}
	return out
}

// deliver fans an event out to the resolved audience. Fire-and-forget;
// senders that fell off the registry between resolution and dispatch
// are skipped.
func (h *Hub) deliver(audience []*models.Participant, ev Event) {
	for _, p := range audience {
		if sender, ok := h.senders[p.ID]; ok {
			sender.Send(ev)
		}
	}
}
