package handlers

import (
	"net/http"

	"github.com/IMMINJU/mario-chat/internal/models"
)

// UserListResponse represents the active users response.
type UserListResponse struct {
	Users []models.Summary `json:"users"`
	Total int              `json:"total"`
}

// ListUsers lists all connected participants in join order.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	participants := h.hub.Participants()

	users := make([]models.Summary, len(participants))
	for i, p := range participants {
		users[i] = p.Summarize()
	}

	h.JSON(w, http.StatusOK, UserListResponse{
		Users: users,
		Total: len(users),
	})
}
