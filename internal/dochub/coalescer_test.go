package dochub_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"collabdocs/backend/internal/dochub"
	"collabdocs/backend/internal/models"
	"collabdocs/backend/internal/storage"

	"github.com/stretchr/testify/assert"
)

const testWindow = 30 * time.Millisecond

type persistRecorder struct {
	mu      sync.Mutex
	records []models.ServerEvent
}

func (r *persistRecorder) record(roomID, content string, version int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, models.ServerEvent{RoomID: roomID, Content: content, Version: version})
}

func (r *persistRecorder) all() []models.ServerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ServerEvent(nil), r.records...)
}

func TestCoalescer_BurstProducesSingleSaveWithLastContent(t *testing.T) {
	storageMock := new(MockStorage)
	rec := &persistRecorder{}
	c := dochub.NewCoalescer(storageMock, testWindow, rec.record)

	storageMock.On("SaveDocumentContent", "doc1", "hello world", "alice").
		Return(&models.Document{ID: "doc1", Content: "hello world", Version: 2}, nil)

	c.Notify("doc1", "h", "alice")
	c.Notify("doc1", "hello", "alice")
	time.Sleep(10 * time.Millisecond)
	c.Notify("doc1", "hello world", "alice")

	time.Sleep(4 * testWindow)

	storageMock.AssertNumberOfCalls(t, "SaveDocumentContent", 1)
	records := rec.all()
	assert.Len(t, records, 1)
	assert.Equal(t, "hello world", records[0].Content)
	assert.Equal(t, 2, records[0].Version)
}

// Every room must own its own timer: edits to one document must never delay
// or overwrite edits to another.
func TestCoalescer_RoomsCoalesceIndependently(t *testing.T) {
	storageMock := new(MockStorage)
	rec := &persistRecorder{}
	c := dochub.NewCoalescer(storageMock, testWindow, rec.record)

	storageMock.On("SaveDocumentContent", "doc1", "first document", "alice").
		Return(&models.Document{ID: "doc1", Content: "first document", Version: 2}, nil)
	storageMock.On("SaveDocumentContent", "doc2", "second document", "bob").
		Return(&models.Document{ID: "doc2", Content: "second document", Version: 5}, nil)

	c.Notify("doc1", "first document", "alice")
	c.Notify("doc2", "second document", "bob")

	time.Sleep(4 * testWindow)

	storageMock.AssertCalled(t, "SaveDocumentContent", "doc1", "first document", "alice")
	storageMock.AssertCalled(t, "SaveDocumentContent", "doc2", "second document", "bob")
	storageMock.AssertNumberOfCalls(t, "SaveDocumentContent", 2)
	assert.Len(t, rec.all(), 2)
}

func TestCoalescer_NotifyDuringWindowRestartsDelay(t *testing.T) {
	window := 150 * time.Millisecond
	storageMock := new(MockStorage)
	rec := &persistRecorder{}
	c := dochub.NewCoalescer(storageMock, window, rec.record)

	storageMock.On("SaveDocumentContent", "doc1", "final", "alice").
		Return(&models.Document{ID: "doc1", Content: "final", Version: 3}, nil)

	c.Notify("doc1", "draft", "alice")
	// Keep poking well inside the window so the timer keeps restarting.
	for i := 0; i < 4; i++ {
		time.Sleep(window / 5)
		c.Notify("doc1", "final", "alice")
	}

	// Nothing persisted while notifications kept arriving.
	assert.Empty(t, rec.all())

	time.Sleep(3 * window)
	storageMock.AssertNumberOfCalls(t, "SaveDocumentContent", 1)
	storageMock.AssertCalled(t, "SaveDocumentContent", "doc1", "final", "alice")
}

func TestCoalescer_DeletedDocumentDropsWrite(t *testing.T) {
	storageMock := new(MockStorage)
	rec := &persistRecorder{}
	c := dochub.NewCoalescer(storageMock, testWindow, rec.record)

	storageMock.On("SaveDocumentContent", "gone", "content", "alice").
		Return(nil, storage.ErrDocumentNotFound)

	c.Notify("gone", "content", "alice")
	time.Sleep(4 * testWindow)

	storageMock.AssertNumberOfCalls(t, "SaveDocumentContent", 1)
	assert.Empty(t, rec.all())
}

func TestCoalescer_TransientFailureRetriesOnNextNotify(t *testing.T) {
	storageMock := new(MockStorage)
	rec := &persistRecorder{}
	c := dochub.NewCoalescer(storageMock, testWindow, rec.record)

	storageMock.On("SaveDocumentContent", "doc1", "v1", "alice").
		Return(nil, errors.New("connection refused")).Once()
	storageMock.On("SaveDocumentContent", "doc1", "v2", "alice").
		Return(&models.Document{ID: "doc1", Content: "v2", Version: 2}, nil)

	c.Notify("doc1", "v1", "alice")
	time.Sleep(4 * testWindow)

	// The failed write is not retried on its own and nothing was broadcast.
	storageMock.AssertNumberOfCalls(t, "SaveDocumentContent", 1)
	assert.Empty(t, rec.all())

	// The next notification re-arms the window and the latest content wins.
	c.Notify("doc1", "v2", "alice")
	time.Sleep(4 * testWindow)

	storageMock.AssertNumberOfCalls(t, "SaveDocumentContent", 2)
	records := rec.all()
	assert.Len(t, records, 1)
	assert.Equal(t, "v2", records[0].Content)
}
