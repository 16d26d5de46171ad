package dochub

import (
	"errors"
	"log"
	"time"

	"collabdocs/backend/internal/models"
	"collabdocs/backend/internal/storage"

	"github.com/samber/lo"
)

type persistedDoc struct {
	roomID  string
	content string
	version int
}

// BrokerService orchestrates the live editing sessions: it owns the client
// set, the presence registry and the change coalescer, and processes every
// connection event on a single goroutine so per-room ordering needs no
// further locking.
type BrokerService struct {
	Clients map[string]Client

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan models.ClientEvent
	// BackplaneCh receives room events echoed back from the shared redis
	// channel; the broker delivers them to its local room members.
	BackplaneCh chan models.ServerEvent

	Storage  storage.Storage
	Gate     *IdentityGate
	Presence *PresenceRegistry

	coalescer   *Coalescer
	persistedCh chan persistedDoc
}

func NewBrokerService(s storage.Storage, gate *IdentityGate, coalesceWindow time.Duration) *BrokerService {
	b := &BrokerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan models.ClientEvent),
		BackplaneCh:  make(chan models.ServerEvent, 256),
		Storage:      s,
		Gate:         gate,
		Presence:     NewPresenceRegistry(),
		persistedCh:  make(chan persistedDoc, 64),
	}
	b.coalescer = NewCoalescer(s, coalesceWindow, func(roomID, content string, version int) {
		b.persistedCh <- persistedDoc{roomID: roomID, content: content, version: version}
	})
	return b
}

// Run is the broker's event loop. All session state transitions happen here.
func (b *BrokerService) Run() {
	for {
		select {
		case client := <-b.RegisterCh:
			b.Clients[client.GetConnID()] = client
			log.Printf("Connection %s established", client.GetConnID())

		case client := <-b.UnregisterCh:
			b.handleDisconnect(client)

		case ev := <-b.IncomingCh:
			b.handleEvent(ev)

		case p := <-b.persistedCh:
			b.broadcast(models.ServerEvent{
				Type:    models.EventDocumentUpdate,
				RoomID:  p.roomID,
				Content: p.content,
				Version: p.version,
			})

		case ev := <-b.BackplaneCh:
			b.deliver(ev)
		}
	}
}

func (b *BrokerService) handleEvent(ev models.ClientEvent) {
	switch ev.Type {
	case models.EventJoin:
		b.handleJoin(ev)
	case models.EventLeave:
		b.handleLeave(ev)
	case models.EventEditNotification:
		b.coalescer.Notify(ev.RoomID, ev.Content, b.displayName(ev.RoomID, ev.ConnID))
	default:
		log.Printf("WARNING: Unknown event %q from connection %s", ev.Type, ev.ConnID)
	}
}

func (b *BrokerService) handleJoin(ev models.ClientEvent) {
	identity, err := b.Gate.Authenticate(ev.Token)
	if errors.Is(err, ErrUnauthorized) {
		log.Printf("Join rejected for connection %s on room %s: %v", ev.ConnID, ev.RoomID, err)
		b.notifyError(ev.ConnID, ev.RoomID, "unauthorized")
		return
	}
	if err != nil {
		// A directory outage, not a credential problem.
		log.Printf("ERROR: Failed to authenticate connection %s for room %s: %v", ev.ConnID, ev.RoomID, err)
		b.notifyError(ev.ConnID, ev.RoomID, "internal error")
		return
	}

	// The connection may have dropped while the gate was resolving; a
	// dangling registry entry would never be cleaned up.
	if _, ok := b.Clients[ev.ConnID]; !ok {
		log.Printf("WARNING: Connection %s disconnected mid-join for room %s", ev.ConnID, ev.RoomID)
		return
	}

	// Rooms exist implicitly, but a room without a backing document will
	// drop every coalesced write, which is worth a trace.
	if exists, err := b.Storage.DocumentExists(ev.RoomID); err == nil && !exists {
		log.Printf("WARNING: Room %s has no backing document", ev.RoomID)
	}

	b.Presence.Add(ev.RoomID, models.Participant{ConnID: ev.ConnID, DisplayName: identity.DisplayName})
	log.Printf("User %s joined room %s (connection %s)", identity.DisplayName, ev.RoomID, ev.ConnID)
	b.broadcastPresence(ev.RoomID)
}

func (b *BrokerService) handleLeave(ev models.ClientEvent) {
	b.Presence.Remove(ev.RoomID, ev.ConnID)
	log.Printf("Connection %s left room %s", ev.ConnID, ev.RoomID)
	b.broadcastPresence(ev.RoomID)
}

func (b *BrokerService) handleDisconnect(client Client) {
	connID := client.GetConnID()
	if _, ok := b.Clients[connID]; !ok {
		return
	}
	delete(b.Clients, connID)
	client.Close()

	affected := b.Presence.RemoveEverywhere(connID)
	for _, roomID := range affected {
		b.broadcastPresence(roomID)
	}
	log.Printf("Connection %s disconnected (left %d rooms)", connID, len(affected))
}

// broadcast publishes a room event on the backplane. Each process, this one
// included, delivers it to its local members when it arrives on BackplaneCh,
// so cross-process and local fan-out follow the same ordered path.
func (b *BrokerService) broadcast(ev models.ServerEvent) {
	if err := b.Storage.PublishEvent(ev); err != nil {
		log.Printf("ERROR: Failed to publish %s for room %s: %v", ev.Type, ev.RoomID, err)
	}
}

func (b *BrokerService) broadcastPresence(roomID string) {
	b.broadcast(models.ServerEvent{
		Type:         models.EventPresenceUpdate,
		RoomID:       roomID,
		Participants: b.Presence.Snapshot(roomID),
	})
}

// deliver fans a room event out to the local members of the room. Sends are
// non-blocking: a client whose buffer is full misses the event rather than
// stalling the whole room.
func (b *BrokerService) deliver(ev models.ServerEvent) {
	for _, p := range b.Presence.Snapshot(ev.RoomID) {
		client, ok := b.Clients[p.ConnID]
		if !ok {
			// Participant registered on another process.
			continue
		}
		select {
		case client.GetSendChannel() <- ev:
		default:
			log.Printf("WARNING: Dropping %s for slow connection %s", ev.Type, p.ConnID)
		}
	}
}

// notifyError sends an error event to a single connection, bypassing the
// backplane.
func (b *BrokerService) notifyError(connID, roomID, message string) {
	client, ok := b.Clients[connID]
	if !ok {
		return
	}
	select {
	case client.GetSendChannel() <- models.ServerEvent{Type: models.EventError, RoomID: roomID, Message: message}:
	default:
	}
}

func (b *BrokerService) displayName(roomID, connID string) string {
	p, ok := lo.Find(b.Presence.Snapshot(roomID), func(p models.Participant) bool {
		return p.ConnID == connID
	})
	if !ok {
		return ""
	}
	return p.DisplayName
}
