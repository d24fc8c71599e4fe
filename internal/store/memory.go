package store

import (
	"context"
	"sync"

	"github.com/IMMINJU/mario-chat/internal/models"
)

// MemoryStore keeps room history in process memory. It is the default
// backend; all state is lost on restart.
type MemoryStore struct {
	rooms    []models.Room
	logs     map[string][]models.Message
	capacity int
	mu       sync.RWMutex
}

// NewMemoryStore creates a memory store seeded with the given rooms.
// capacity <= 0 falls back to DefaultRoomLogCapacity.
func NewMemoryStore(rooms []models.Room, capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultRoomLogCapacity
	}

	logs := make(map[string][]models.Message, len(rooms))
	for _, r := range rooms {
		logs[r.ID] = make([]models.Message, 0, capacity)
	}

	return &MemoryStore{
		rooms:    rooms,
		logs:     logs,
		capacity: capacity,
	}
}

// Append adds a message to its room's log, evicting the oldest entry
// once the log is at capacity.
func (s *MemoryStore) Append(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[msg.Room]
	if !ok {
		return ErrUnknownRoom
	}

	log = append(log, *msg)
	if len(log) > s.capacity {
		log = log[len(log)-s.capacity:]
	}
	s.logs[msg.Room] = log

	return nil
}

// History returns the most recent limit messages in chronological order.
func (s *MemoryStore) History(_ context.Context, room string, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[room]
	if !ok {
		return nil, ErrUnknownRoom
	}

	if limit <= 0 || limit > len(log) {
		limit = len(log)
	}

	tail := log[len(log)-limit:]
	out := make([]models.Message, len(tail))
	copy(out, tail)
	return out, nil
}

// RoomExists reports whether a room is part of the seeded set.
func (s *MemoryStore) RoomExists(_ context.Context, room string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.logs[room]
	return ok
}

// Rooms lists the seeded rooms in seed order.
func (s *MemoryStore) Rooms(_ context.Context) []models.Room {
	out := make([]models.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Ping always succeeds for the in-memory backend.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
