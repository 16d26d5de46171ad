package dochub

import (
	"sync"

	"collabdocs/backend/internal/models"

	"github.com/samber/lo"
)

// PresenceRegistry maps a room (document) id to the ordered list of
// participants currently connected to it. Rooms exist exactly while their
// participant list is non-empty; empty rooms are pruned on removal.
//
// The broker goroutine is the only writer, but the registry carries its own
// lock so snapshots can be taken from anywhere.
type PresenceRegistry struct {
	mu    sync.RWMutex
	rooms map[string][]models.Participant
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		rooms: make(map[string][]models.Participant),
	}
}

// Add appends a participant to the room, creating the room on first join.
// Join order is preserved.
func (r *PresenceRegistry) Add(roomID string, p models.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[roomID] = append(r.rooms[roomID], p)
}

// Remove drops every entry for the connection from the room. Removing an
// absent participant is a no-op.
func (r *PresenceRegistry) Remove(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(roomID, connID)
}

// RemoveEverywhere drops the connection from every room it belongs to and
// returns the affected room ids, so the caller can re-broadcast presence for
// each.
func (r *PresenceRegistry) RemoveEverywhere(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected []string
	for roomID, participants := range r.rooms {
		if lo.ContainsBy(participants, func(p models.Participant) bool { return p.ConnID == connID }) {
			affected = append(affected, roomID)
		}
	}
	for _, roomID := range affected {
		r.removeLocked(roomID, connID)
	}
	return affected
}

// Snapshot returns a copy of the room's participant list in join order. An
// unknown room yields an empty list.
func (r *PresenceRegistry) Snapshot(roomID string) []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	participants := r.rooms[roomID]
	snapshot := make([]models.Participant, len(participants))
	copy(snapshot, participants)
	return snapshot
}

func (r *PresenceRegistry) removeLocked(roomID, connID string) {
	remaining := lo.Filter(r.rooms[roomID], func(p models.Participant, _ int) bool {
		return p.ConnID != connID
	})
	if len(remaining) == 0 {
		delete(r.rooms, roomID)
		return
	}
	r.rooms[roomID] = remaining
}
