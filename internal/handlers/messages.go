package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/IMMINJU/mario-chat/internal/models"
	"github.com/IMMINJU/mario-chat/internal/store"
)

// RoomMessagesResponse represents the room history response.
type RoomMessagesResponse struct {
	Room     models.Room      `json:"room"`
	Messages []models.Message `json:"messages"`
}

// GetMessages returns the bounded history for a room. The room query
// parameter defaults to the default room.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room == "" {
		room = models.DefaultRoom
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > store.DefaultRoomLogCapacity {
		limit = store.DefaultRoomLogCapacity
	}

	messages, err := h.store.History(r.Context(), room, limit)
	if err != nil {
		if errors.Is(err, store.ErrUnknownRoom) {
			h.Error(w, http.StatusNotFound, "room not found")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	var roomInfo models.Room
	for _, rm := range h.store.Rooms(r.Context()) {
		if rm.ID == room {
			roomInfo = rm
			break
		}
	}

	h.JSON(w, http.StatusOK, RoomMessagesResponse{
		Room:     roomInfo,
		Messages: messages,
	})
}
