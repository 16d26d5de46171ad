package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"collabdocs/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BroadcastChannel is the redis pub/sub channel shared by all server
// processes. Every room-wide event is published here and delivered by each
// process to its local room members.
const BroadcastChannel = "collab:broadcast"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrUserNotFound     = errors.New("user not found")
)

type Storage interface {
	LoadDocument(id string) (*models.Document, error)
	SaveDocumentContent(id, content, modifiedBy string) (*models.Document, error)
	DocumentExists(id string) (bool, error)
	CreateDocument(doc *models.Document) error
	ListDocuments() ([]models.Document, error)
	DeleteDocument(id string) error

	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)

	PublishEvent(ev models.ServerEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// LoadDocument fetches a document by id.
func (s *Service) LoadDocument(id string) (*models.Document, error) {
	var doc models.Document
	err := s.DB.First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to load document %s: %v", id, err)
		return nil, err
	}
	return &doc, nil
}

// SaveDocumentContent replaces the document's content and bumps its version.
// The row is locked for the duration of the transaction so concurrent saves
// serialize and each successful save gets its own version. modifiedBy may be
// empty when the editor is unknown.
func (s *Service) SaveDocumentContent(id, content, modifiedBy string) (*models.Document, error) {
	var doc models.Document
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockDocument(tx, id).First(&doc).Error; err != nil {
			return err
		}
		doc.Content = content
		doc.Version++
		if modifiedBy != "" {
			doc.LastModifiedBy = modifiedBy
			if !lo.Contains(doc.Collaborators, modifiedBy) {
				doc.Collaborators = append(doc.Collaborators, modifiedBy)
			}
		}
		return tx.Save(&doc).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to save document %s: %v", id, err)
		return nil, err
	}
	return &doc, nil
}

// lockDocument scopes a query to one document row, locked FOR UPDATE against
// concurrent writers.
func lockDocument(tx *gorm.DB, id string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
}

// DocumentExists reports whether a document with the given id is stored.
func (s *Service) DocumentExists(id string) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.Document{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateDocument stores a new document. The BeforeCreate hook assigns the id
// and initial version.
func (s *Service) CreateDocument(doc *models.Document) error {
	if err := s.DB.Create(doc).Error; err != nil {
		log.Printf("ERROR: Failed to create document: %v", err)
		return err
	}
	return nil
}

// ListDocuments returns all stored documents, newest first.
func (s *Service) ListDocuments() ([]models.Document, error) {
	var docs []models.Document
	if err := s.DB.Order("created_at desc").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document by id.
func (s *Service) DeleteDocument(id string) error {
	result := s.DB.Delete(&models.Document{}, "id = ?", id)
	if result.Error != nil {
		log.Printf("ERROR: Failed to delete document %s: %v", id, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// CreateUser stores a new user account.
func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByID resolves a user id to the stored account.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername looks an account up by its unique username.
func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PublishEvent publishes a room event on the shared broadcast channel.
func (s *Service) PublishEvent(ev models.ServerEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, BroadcastChannel, payload).Err()
}

// SubscribeEvents subscribes to the shared broadcast channel.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, BroadcastChannel)
}
