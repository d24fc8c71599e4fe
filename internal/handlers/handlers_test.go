package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/IMMINJU/mario-chat/internal/hub"
	"github.com/IMMINJU/mario-chat/internal/models"
	"github.com/IMMINJU/mario-chat/internal/store"
)

// nopSender discards events; HTTP surface tests only need registry
// side effects.
type nopSender struct{}

func (nopSender) Send(hub.Event) {}

func newTestHandler(t *testing.T) (*Handler, *hub.Hub, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore(models.SeedRooms(), 0)
	h := hub.New(hub.Config{}, ms, zerolog.Nop())
	t.Cleanup(h.Shutdown)
	return NewHandler(h, ms), h, ms
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestStatus(t *testing.T) {
	h, chatHub, _ := newTestHandler(t)

	if _, err := chatHub.Connect(context.Background(), nopSender{}, "mario", "mario", ""); err != nil {
		t.Fatalf("Connect() unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}

	var resp StatusResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "online" {
		t.Errorf("status = %q, want online", resp.Status)
	}
	if resp.Connections != 1 {
		t.Errorf("connections = %d, want 1", resp.Connections)
	}
	if resp.Uptime < 0 {
		t.Errorf("uptime = %f, want >= 0", resp.Uptime)
	}
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "healthy" {
		t.Errorf("health status = %q, want healthy", resp.Status)
	}
	if resp.Checks["store"].Status != "pass" {
		t.Errorf("store check = %+v, want pass", resp.Checks["store"])
	}
}

func TestGetMessages(t *testing.T) {
	h, _, ms := newTestHandler(t)
	ctx := context.Background()

	for i, text := range []string{"first", "second", "third"} {
		msg := &models.Message{
			ID:        string(rune('a' + i)),
			Text:      text,
			Sender:    "mario",
			Room:      models.DefaultRoom,
			Timestamp: int64(1000 + i),
		}
		if err := ms.Append(ctx, msg); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantLen  int
	}{
		{"default room", "/api/messages", http.StatusOK, 3},
		{"explicit room", "/api/messages?room=general", http.StatusOK, 3},
		{"with limit", "/api/messages?room=general&limit=2", http.StatusOK, 2},
		{"empty room", "/api/messages?room=castle", http.StatusOK, 0},
		{"unknown room", "/api/messages?room=bowser-dungeon", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetMessages(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp RoomMessagesResponse
			decodeBody(t, rec, &resp)
			if len(resp.Messages) != tt.wantLen {
				t.Errorf("returned %d messages, want %d", len(resp.Messages), tt.wantLen)
			}
		})
	}

	// Limit returns the most recent entries in order.
	rec := httptest.NewRecorder()
	h.GetMessages(rec, httptest.NewRequest(http.MethodGet, "/api/messages?limit=2", nil))
	var resp RoomMessagesResponse
	decodeBody(t, rec, &resp)
	if resp.Messages[0].Text != "second" || resp.Messages[1].Text != "third" {
		t.Errorf("limited history = %+v, want [second third]", resp.Messages)
	}
	if resp.Room.ID != models.DefaultRoom {
		t.Errorf("room info = %+v, want %s", resp.Room, models.DefaultRoom)
	}
}

func TestListRooms(t *testing.T) {
	h, chatHub, _ := newTestHandler(t)
	ctx := context.Background()

	if _, err := chatHub.Connect(ctx, nopSender{}, "mario", "mario", ""); err != nil {
		t.Fatalf("Connect() unexpected error: %v", err)
	}
	if _, err := chatHub.Connect(ctx, nopSender{}, "peach", "peach", "castle"); err != nil {
		t.Fatalf("Connect() unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ListRooms(rec, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	var resp RoomListResponse
	decodeBody(t, rec, &resp)

	if resp.Total != len(models.SeedRooms()) {
		t.Fatalf("total = %d, want %d", resp.Total, len(models.SeedRooms()))
	}

	occupancy := make(map[string]int)
	for _, room := range resp.Rooms {
		occupancy[room.ID] = room.Occupancy
	}
	if occupancy[models.DefaultRoom] != 1 {
		t.Errorf("general occupancy = %d, want 1", occupancy[models.DefaultRoom])
	}
	if occupancy["castle"] != 1 {
		t.Errorf("castle occupancy = %d, want 1", occupancy["castle"])
	}
	if occupancy["warp-zone"] != 0 {
		t.Errorf("warp-zone occupancy = %d, want 0", occupancy["warp-zone"])
	}
}

func TestListUsers(t *testing.T) {
	h, chatHub, _ := newTestHandler(t)
	ctx := context.Background()

	for _, name := range []string{"mario", "luigi"} {
		if _, err := chatHub.Connect(ctx, nopSender{}, name, name, ""); err != nil {
			t.Fatalf("Connect(%s) unexpected error: %v", name, err)
		}
	}

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	var resp UserListResponse
	decodeBody(t, rec, &resp)

	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	// Join order preserved.
	if resp.Users[0].Username != "mario" || resp.Users[1].Username != "luigi" {
		t.Errorf("users = %+v, want [mario luigi]", resp.Users)
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "mario", "mario"},
		{"trimmed", "  mario  ", "mario"},
		{"control characters stripped", "ma\x00rio\n", "mario"},
		{"long names clipped", strings.Repeat("a", 60), strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeUsername(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
