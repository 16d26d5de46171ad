package handler

import (
	"errors"
	"net/http"

	"collabdocs/backend/internal/models"
	"collabdocs/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type documentRequest struct {
	Content string `json:"content"`
}

// CreateDocument stores a new document owned by the authenticated user.
func (h *Handler) CreateDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := &models.Document{
		Content:        req.Content,
		LastModifiedBy: h.displayName(c),
	}
	if err := h.Storage.CreateDocument(doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments returns all documents.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.Storage.ListDocuments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// GetDocument returns a single document by id.
func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.Storage.LoadDocument(c.Param("id"))
	if errors.Is(err, storage.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UpdateDocument replaces a document's content, bumping its version.
func (h *Handler) UpdateDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.Storage.SaveDocumentContent(c.Param("id"), req.Content, h.displayName(c))
	if errors.Is(err, storage.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocument removes a document by id.
func (h *Handler) DeleteDocument(c *gin.Context) {
	err := h.Storage.DeleteDocument(c.Param("id"))
	if errors.Is(err, storage.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// displayName resolves the authenticated user's username from the context
// set by RequireAuth. Empty when the user cannot be resolved.
func (h *Handler) displayName(c *gin.Context) string {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		return ""
	}
	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		return ""
	}
	return user.Username
}
