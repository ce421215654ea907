package interfaces

import (
	"github.com/ternarybob/hansard/internal/models"
)

// ListOptions contains filtering and pagination options for list queries
type ListOptions struct {
	SourceType string
	Limit      int
	Offset     int
}

// DocumentStorage defines persistence operations for documents
type DocumentStorage interface {
	SaveDocument(doc *models.Document) error
	GetDocument(id string) (*models.Document, error)
	GetDocumentBySource(sourceType, sourceID string) (*models.Document, error)
	ListDocuments(opts *ListOptions) ([]*models.Document, error)
	DeleteDocument(id string) error
	CountDocuments() (int, error)
	CountDocumentsBySource(sourceType string) (int, error)
}

// StorageManager provides access to all storage backends and owns the
// underlying database connection
type StorageManager interface {
	DocumentStorage() DocumentStorage
	Close() error
}
