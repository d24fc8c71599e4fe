package hub

import "encoding/json"

// Inbound event types (client → server).
const (
	EventSendMessage    = "sendMessage"
	EventPrivateMessage = "privateMessage"
	EventTyping         = "typing"
	EventJoinRoom       = "joinRoom"
	EventPing           = "ping"
)

// Outbound event types (server → client).
const (
	EventMessage           = "message"
	EventPrivateDelivery   = "privateMessage"
	EventMessageHistory    = "messageHistory"
	EventUserList          = "userList"
	EventUserTyping        = "userTyping"
	EventUserStoppedTyping = "userStoppedTyping"
	EventRoomFull          = "room:full"
	EventRoomStatus        = "room:status"
	EventPong              = "pong"
)

// Event is the wire envelope. Inbound payloads stay raw until the
// handler for the specific type decodes them into their own struct;
// nothing is merged dynamically into stored messages.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals payload into an outbound envelope. Marshaling
// failures are impossible for our own payload types; the error is
// swallowed and an empty payload sent instead.
func NewEvent(eventType string, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{Type: eventType}
	}
	return Event{Type: eventType, Payload: data}
}

// SendMessagePayload is the body of a sendMessage event.
type SendMessagePayload struct {
	Text      string `json:"text"`
	Character string `json:"character,omitempty"`
}

// PrivateMessagePayload is the body of a privateMessage event. To is
// the recipient's participant ID; display names are accepted as a
// cosmetic fallback and resolve to the first match.
type PrivateMessagePayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// TypingPayload is the body of a typing event.
type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}

// JoinRoomPayload is the body of a joinRoom event.
type JoinRoomPayload struct {
	Room string `json:"room"`
}

// TypingNotice is broadcast for userTyping / userStoppedTyping.
type TypingNotice struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// RoomFullPayload tells a refused client why it was disconnected.
type RoomFullPayload struct {
	Message string `json:"message"`
}

// RoomStatusPayload reports current occupancy against the cap.
type RoomStatusPayload struct {
	Connections int `json:"connections"`
	Max         int `json:"max"`
}
