package store

import (
	"context"
	"errors"

	"github.com/IMMINJU/mario-chat/internal/models"
)

// ErrUnknownRoom is returned when an operation names a room that was
// not part of the seeded room list.
var ErrUnknownRoom = errors.New("unknown room")

// DefaultRoomLogCapacity bounds each room's message log. Eviction is
// strictly FIFO once the capacity is exceeded.
const DefaultRoomLogCapacity = 100

// MessageStore defines the interface for bounded per-room message history.
// Both MemoryStore and RedisStore implement this interface. Private
// messages never pass through a MessageStore.
type MessageStore interface {
	// Append adds a message to its room's log, evicting the oldest
	// entry once the log is at capacity.
	Append(ctx context.Context, msg *models.Message) error

	// History returns the most recent limit messages for a room in
	// chronological order. limit <= 0 means the full retained log.
	History(ctx context.Context, room string, limit int) ([]models.Message, error)

	// RoomExists reports whether a room is part of the seeded set.
	RoomExists(ctx context.Context, room string) bool

	// Rooms lists the seeded rooms in seed order.
	Rooms(ctx context.Context) []models.Room

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
