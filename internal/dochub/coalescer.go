package dochub

import (
	"errors"
	"log"
	"sync"
	"time"

	"collabdocs/backend/internal/storage"
)

// PersistedFunc receives the canonical state of a document after a coalesced
// write succeeded.
type PersistedFunc func(roomID, content string, version int)

type pendingWrite struct {
	content string
	editor  string
	gen     uint64
}

// Coalescer absorbs bursts of edit notifications into a single delayed save
// per room. Each room owns an independent timer and pending value; a new
// notification within the window replaces the pending content and restarts
// the delay (trailing-edge debounce).
type Coalescer struct {
	store     storage.Storage
	window    time.Duration
	onPersist PersistedFunc

	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingWrite
	timers  map[string]*time.Timer
}

func NewCoalescer(store storage.Storage, window time.Duration, onPersist PersistedFunc) *Coalescer {
	return &Coalescer{
		store:     store,
		window:    window,
		onPersist: onPersist,
		pending:   make(map[string]pendingWrite),
		timers:    make(map[string]*time.Timer),
	}
}

// Notify records content as the latest pending value for the room and
// (re)starts its delay timer. editor is the display name to attribute the
// save to, empty if unknown.
func (c *Coalescer) Notify(roomID, content, editor string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	gen := c.gen
	c.pending[roomID] = pendingWrite{content: content, editor: editor, gen: gen}

	if t, ok := c.timers[roomID]; ok {
		t.Stop()
	}
	c.timers[roomID] = time.AfterFunc(c.window, func() {
		c.flush(roomID, gen)
	})
}

// flush persists the room's pending content, unless a newer notification
// already superseded this timer.
func (c *Coalescer) flush(roomID string, gen uint64) {
	c.mu.Lock()
	pw, ok := c.pending[roomID]
	if !ok || pw.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.pending, roomID)
	delete(c.timers, roomID)
	c.mu.Unlock()

	doc, err := c.store.SaveDocumentContent(roomID, pw.content, pw.editor)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		// The backing document was deleted while edits were pending.
		log.Printf("WARNING: Dropping pending write for room %s: document no longer exists", roomID)
		return
	}
	if err != nil {
		log.Printf("ERROR: Failed to persist room %s: %v", roomID, err)
		// Park the content so it is not lost; the next notification
		// re-arms the timer and retries with the freshest content.
		c.mu.Lock()
		if _, exists := c.pending[roomID]; !exists {
			c.pending[roomID] = pw
		}
		c.mu.Unlock()
		return
	}

	c.onPersist(roomID, doc.Content, doc.Version)
}
