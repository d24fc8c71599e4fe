package models

// DefaultRoom is where participants land when they connect without
// requesting a room, or request one that does not exist.
const DefaultRoom = "general"

// Room is a named channel. Rooms are seeded at startup from a fixed
// list; there is no runtime creation or deletion.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SeedRooms returns the fixed room list the server starts with.
func SeedRooms() []Room {
	return []Room{
		{ID: DefaultRoom, Name: "General"},
		{ID: "warp-zone", Name: "Warp Zone"},
		{ID: "castle", Name: "Peach's Castle"},
		{ID: "rainbow-road", Name: "Rainbow Road"},
	}
}
