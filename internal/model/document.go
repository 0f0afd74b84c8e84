package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DocumentStore defines persistence operations for document metadata.
// The store never inspects document content; content lives in blob storage
// under Document.StorageKey.
type DocumentStore interface {
	// CreateWithOwner inserts the document and its owner permission row in
	// one transaction. The document must not be left ownerless.
	CreateWithOwner(ctx context.Context, document Document) (Document, error)
	GetByID(ctx context.Context, fileID int64) (Document, error)
	GetByOwnerAndName(ctx context.Context, ownerID int64, filename string) (Document, error)
	// Delete removes the document row together with its permission,
	// change-log and version rows in one transaction.
	Delete(ctx context.Context, fileID int64) error
}

// Document represents document metadata. (OwnerID, Filename) is unique.
type Document struct {
	FileID     int64
	Filename   string
	OwnerID    int64
	StorageKey uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DocumentRef is a document listing entry for a user.
type DocumentRef struct {
	FileID   int64
	Filename string
}
