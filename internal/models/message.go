package models

// SystemSender is the sender label on synthetic join/leave notices.
// It is a sentinel, not a participant identity.
const SystemSender = "system"

// Message represents a chat event relayed to clients and, for room-scoped
// messages, appended to the owning room's bounded log.
type Message struct {
	ID        string    `json:"id"` // ULID
	Text      string    `json:"text"`
	Sender    string    `json:"sender"` // display name, or SystemSender
	Character Character `json:"character,omitempty"`
	Room      string    `json:"room,omitempty"`
	Recipient string    `json:"recipient,omitempty"` // private messages only
	Timestamp int64     `json:"timestamp"`           // Unix ms
	IsSystem  bool      `json:"isSystem,omitempty"`
	IsPrivate bool      `json:"isPrivate,omitempty"`
}
