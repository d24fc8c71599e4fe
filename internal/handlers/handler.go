package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/IMMINJU/mario-chat/internal/hub"
	"github.com/IMMINJU/mario-chat/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	hub     *hub.Hub
	store   store.MessageStore
	started time.Time
}

// NewHandler creates a new Handler with the given hub and store.
func NewHandler(h *hub.Hub, msgStore store.MessageStore) *Handler {
	return &Handler{
		hub:     h,
		store:   msgStore,
		started: time.Now(),
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// sanitizeUsername trims and limits a display name to 50 characters,
// removing control characters.
func sanitizeUsername(name string) string {
	name = strings.TrimSpace(name)

	// Remove control characters
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	// Limit to 50 characters
	if len(name) > 50 {
		name = name[:50]
	}

	return name
}
