package models_test

import (
	"testing"

	"collabdocs/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestDocumentBeforeCreate_GeneratesDefaults verifies that the hook assigns
// a UUID and the initial version.
func TestDocumentBeforeCreate_GeneratesDefaults(t *testing.T) {
	doc := &models.Document{Content: "hello"}

	err := doc.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, 1, doc.Version)

	_, parseErr := uuid.Parse(doc.ID)
	assert.NoError(t, parseErr, "Document ID must be a valid UUID string")
}

// TestDocumentBeforeCreate_PreservesExistingValues verifies the hook does
// not overwrite caller-provided fields.
func TestDocumentBeforeCreate_PreservesExistingValues(t *testing.T) {
	existingID := uuid.New().String()
	doc := &models.Document{ID: existingID, Content: "hello", Version: 7}

	err := doc.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, doc.ID)
	assert.Equal(t, 7, doc.Version)
}

func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{Username: "alice", PasswordHash: "x"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr)
}
