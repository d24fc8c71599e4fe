package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/IMMINJU/mario-chat/internal/models"
)

// RedisStore keeps room history in Redis sorted sets, one per room,
// scored by message timestamp. History survives server restarts but is
// still trimmed to the room log capacity.
type RedisStore struct {
	client   *redis.Client
	rooms    []models.Room
	roomSet  map[string]bool
	capacity int
}

// NewRedisStore connects to Redis and seeds the fixed room set.
// capacity <= 0 falls back to DefaultRoomLogCapacity.
func NewRedisStore(ctx context.Context, redisURL string, rooms []models.Room, capacity int) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	if capacity <= 0 {
		capacity = DefaultRoomLogCapacity
	}

	roomSet := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		roomSet[r.ID] = true
	}

	return &RedisStore{
		client:   client,
		rooms:    rooms,
		roomSet:  roomSet,
		capacity: capacity,
	}, nil
}

// roomMessagesKey returns the key for a room's message sorted set.
func roomMessagesKey(room string) string {
	return fmt.Sprintf("room:%s:messages", room)
}

// Append stores a message in the room's sorted set and trims it to
// the log capacity (FIFO by insertion rank).
func (s *RedisStore) Append(ctx context.Context, msg *models.Message) error {
	if !s.roomSet[msg.Room] {
		return ErrUnknownRoom
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := roomMessagesKey(msg.Room)

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(msg.Timestamp),
		Member: string(data),
	})
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-(s.capacity + 1)))
	_, err = pipe.Exec(ctx)
	return err
}

// History returns the most recent limit messages in chronological order.
func (s *RedisStore) History(ctx context.Context, room string, limit int) ([]models.Message, error) {
	if !s.roomSet[room] {
		return nil, ErrUnknownRoom
	}

	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	key := roomMessagesKey(room)

	// Newest first, then reverse into chronological order.
	results, err := s.client.ZRevRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		var msg models.Message
		if err := json.Unmarshal([]byte(results[i]), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// RoomExists reports whether a room is part of the seeded set.
func (s *RedisStore) RoomExists(_ context.Context, room string) bool {
	return s.roomSet[room]
}

// Rooms lists the seeded rooms in seed order.
func (s *RedisStore) Rooms(_ context.Context) []models.Room {
	out := make([]models.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
