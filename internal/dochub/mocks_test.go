package dochub_test

import (
	"collabdocs/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) LoadDocument(id string) (*models.Document, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockStorage) SaveDocumentContent(id, content, modifiedBy string) (*models.Document, error) {
	args := m.Called(id, content, modifiedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockStorage) DocumentExists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) CreateDocument(doc *models.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockStorage) ListDocuments() ([]models.Document, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockStorage) DeleteDocument(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) PublishEvent(ev models.ServerEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

// MockClient is a test double for the dochub.Client interface. Events the
// broker sends land in RecvChannel.
type MockClient struct {
	connID      string
	RecvChannel chan models.ServerEvent
}

func newMockClient(connID string) *MockClient {
	return &MockClient{
		connID:      connID,
		RecvChannel: make(chan models.ServerEvent, 32),
	}
}

func (c *MockClient) GetConnID() string                         { return c.connID }
func (c *MockClient) GetSendChannel() chan<- models.ServerEvent { return c.RecvChannel }
func (c *MockClient) Run()                                      {}
func (c *MockClient) Close()                                    {}

// Received drains everything buffered so far.
func (c *MockClient) Received() []models.ServerEvent {
	var events []models.ServerEvent
	for {
		select {
		case ev := <-c.RecvChannel:
			events = append(events, ev)
		default:
			return events
		}
	}
}
