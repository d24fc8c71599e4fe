// Package presence tracks which participant is behind each live
// connection and which room they are in. It is pure bookkeeping: it
// never triggers broadcasts itself, so registry state and fan-out stay
// independently testable.
package presence

import (
	"errors"
	"sync"
	"time"

	"github.com/IMMINJU/mario-chat/internal/models"
)

var (
	// ErrDuplicateConnection is defensive; a connection handle should
	// never be registered twice in normal operation.
	ErrDuplicateConnection = errors.New("connection already registered")

	// ErrNotRegistered is returned when an operation names a
	// connection the registry does not know.
	ErrNotRegistered = errors.New("connection not registered")
)

type entry struct {
	participant *models.Participant
	seq         uint64
}

// Registry maps connection IDs to participants.
type Registry struct {
	entries map[string]*entry
	nextSeq uint64
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register records a new connection and returns its participant.
func (r *Registry) Register(id, username string, character models.Character, room string) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return nil, ErrDuplicateConnection
	}

	p := &models.Participant{
		ID:        id,
		Username:  username,
		Character: character,
		Room:      room,
		JoinedAt:  time.Now().UnixMilli(),
	}

	r.entries[id] = &entry{participant: p, seq: r.nextSeq}
	r.nextSeq++

	return p, nil
}

// Lookup returns the participant behind a connection ID.
func (r *Registry) Lookup(id string) (*models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.participant, true
}

// ChangeRoom updates the stored room for a connection.
func (r *Registry) ChangeRoom(id, newRoom string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return ErrNotRegistered
	}
	e.participant.Room = newRoom
	return nil
}

// Unregister removes a connection. Unknown IDs are a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// ListByRoom returns the participants in a room in registration order.
func (r *Registry) ListByRoom(room string) []*models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.collect(func(p *models.Participant) bool { return p.Room == room })
	return out
}

// List returns all participants in registration order.
func (r *Registry) List() []*models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(*models.Participant) bool { return true })
}

// FindByUsername returns the earliest-registered participant with the
// given display name. Display names are not unique; first match wins.
func (r *Registry) FindByUsername(username string) (*models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.collect(func(p *models.Participant) bool { return p.Username == username })
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// collect gathers matching participants sorted by registration sequence.
// Callers must hold at least the read lock.
func (r *Registry) collect(match func(*models.Participant) bool) []*models.Participant {
	type seqEntry struct {
		p   *models.Participant
		seq uint64
	}

	matched := make([]seqEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if match(e.participant) {
			matched = append(matched, seqEntry{e.participant, e.seq})
		}
	}

	// Insertion sort; registries are small.
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j].seq < matched[j-1].seq; j-- {
			matched[j], matched[j-1] = matched[j-1], matched[j]
		}
	}

	out := make([]*models.Participant, len(matched))
	for i, m := range matched {
		out[i] = m.p
	}
	return out
}
