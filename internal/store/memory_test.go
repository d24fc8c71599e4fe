package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/IMMINJU/mario-chat/internal/models"
)

func newTestStore(capacity int) *MemoryStore {
	return NewMemoryStore(models.SeedRooms(), capacity)
}

func appendN(t *testing.T, s *MemoryStore, room string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		msg := &models.Message{
			ID:        fmt.Sprintf("msg-%03d", i),
			Text:      fmt.Sprintf("message %d", i),
			Sender:    "mario",
			Room:      room,
			Timestamp: int64(1000 + i),
		}
		if err := s.Append(context.Background(), msg); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}
}

func TestMemoryStore_AppendUnknownRoom(t *testing.T) {
	s := newTestStore(10)

	err := s.Append(context.Background(), &models.Message{ID: "x", Room: "bowser-dungeon"})
	if err != ErrUnknownRoom {
		t.Fatalf("Append() error = %v, want ErrUnknownRoom", err)
	}
}

func TestMemoryStore_HistoryUnknownRoom(t *testing.T) {
	s := newTestStore(10)

	if _, err := s.History(context.Background(), "bowser-dungeon", 10); err != ErrUnknownRoom {
		t.Fatalf("History() error = %v, want ErrUnknownRoom", err)
	}
}

func TestMemoryStore_CapacityEvictionFIFO(t *testing.T) {
	const capacity = 5
	s := newTestStore(capacity)

	appendN(t, s, models.DefaultRoom, capacity+3)

	history, err := s.History(context.Background(), models.DefaultRoom, 0)
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}

	if len(history) != capacity {
		t.Fatalf("History() returned %d messages, want %d", len(history), capacity)
	}

	// Oldest three evicted; log starts at msg-003.
	if history[0].ID != "msg-003" {
		t.Errorf("oldest retained message = %s, want msg-003", history[0].ID)
	}
	if history[len(history)-1].ID != "msg-007" {
		t.Errorf("newest retained message = %s, want msg-007", history[len(history)-1].ID)
	}
}

func TestMemoryStore_HistoryLimitAndOrder(t *testing.T) {
	s := newTestStore(20)
	appendN(t, s, models.DefaultRoom, 10)

	tests := []struct {
		name      string
		limit     int
		wantLen   int
		wantFirst string
	}{
		{"limit smaller than log", 3, 3, "msg-007"},
		{"limit equals log", 10, 10, "msg-000"},
		{"limit larger than log", 50, 10, "msg-000"},
		{"zero limit means all", 0, 10, "msg-000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := s.History(context.Background(), models.DefaultRoom, tt.limit)
			if err != nil {
				t.Fatalf("History() unexpected error: %v", err)
			}
			if len(history) != tt.wantLen {
				t.Fatalf("History() returned %d messages, want %d", len(history), tt.wantLen)
			}
			if history[0].ID != tt.wantFirst {
				t.Errorf("first message = %s, want %s", history[0].ID, tt.wantFirst)
			}
			for i := 1; i < len(history); i++ {
				if history[i].Timestamp < history[i-1].Timestamp {
					t.Errorf("history out of chronological order at index %d", i)
				}
			}
		})
	}
}

func TestMemoryStore_HistoryIsCopy(t *testing.T) {
	s := newTestStore(10)
	appendN(t, s, models.DefaultRoom, 3)

	history, _ := s.History(context.Background(), models.DefaultRoom, 0)
	history[0].Text = "mutated"

	again, _ := s.History(context.Background(), models.DefaultRoom, 0)
	if again[0].Text == "mutated" {
		t.Fatal("History() must return a copy, not the internal slice")
	}
}

func TestMemoryStore_RoomExists(t *testing.T) {
	s := newTestStore(10)

	if !s.RoomExists(context.Background(), models.DefaultRoom) {
		t.Errorf("RoomExists(%q) = false, want true", models.DefaultRoom)
	}
	if s.RoomExists(context.Background(), "bowser-dungeon") {
		t.Error("RoomExists(\"bowser-dungeon\") = true, want false")
	}
}

func TestMemoryStore_RoomsSeedOrder(t *testing.T) {
	s := newTestStore(10)

	rooms := s.Rooms(context.Background())
	seed := models.SeedRooms()
	if len(rooms) != len(seed) {
		t.Fatalf("Rooms() returned %d rooms, want %d", len(rooms), len(seed))
	}
	for i := range seed {
		if rooms[i].ID != seed[i].ID {
			t.Errorf("Rooms()[%d] = %s, want %s", i, rooms[i].ID, seed[i].ID)
		}
	}
}

func TestMemoryStore_RoomsIsolated(t *testing.T) {
	s := newTestStore(10)
	appendN(t, s, models.DefaultRoom, 4)
	appendN(t, s, "castle", 2)

	general, _ := s.History(context.Background(), models.DefaultRoom, 0)
	castle, _ := s.History(context.Background(), "castle", 0)

	if len(general) != 4 {
		t.Errorf("general log length = %d, want 4", len(general))
	}
	if len(castle) != 2 {
		t.Errorf("castle log length = %d, want 2", len(castle))
	}
}
