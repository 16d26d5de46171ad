package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Document is a collaboratively edited text document stored in PostgreSQL.
// Version starts at 1 and is incremented on every successful save, so clients
// can detect stale content optimistically.
type Document struct {
	// ID is the document's unique identifier (UUID). It doubles as the
	// room id for the live editing session.
	ID string `gorm:"primaryKey" json:"id"`
	// Content is the full text of the document (last-write-wins).
	Content string `gorm:"type:text" json:"content"`
	// Version is incremented on each successful save.
	Version int `gorm:"not null;default:1" json:"version"`
	// LastModifiedBy is the display name of the user whose edit was
	// persisted most recently.
	LastModifiedBy string `gorm:"index" json:"lastModifiedBy"`
	// Collaborators accumulates the distinct display names that have ever
	// modified the document.
	Collaborators pq.StringArray `gorm:"type:text[]" json:"collaborators"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates a UUID and seeds the version if the caller left
// them empty.
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	return
}
