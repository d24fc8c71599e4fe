package handlers

import "net/http"

// RoomInfo represents a room in the list response.
type RoomInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Occupancy int    `json:"occupancy"`
}

// RoomListResponse represents the rooms list response.
type RoomListResponse struct {
	Rooms []RoomInfo `json:"rooms"`
	Total int        `json:"total"`
}

// ListRooms lists the seeded rooms with their current occupancy.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	seeded := h.store.Rooms(r.Context())

	rooms := make([]RoomInfo, len(seeded))
	for i, room := range seeded {
		rooms[i] = RoomInfo{
			ID:        room.ID,
			Name:      room.Name,
			Occupancy: h.hub.RoomOccupancy(room.ID),
		}
	}

	h.JSON(w, http.StatusOK, RoomListResponse{
		Rooms: rooms,
		Total: len(rooms),
	})
}
