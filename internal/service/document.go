package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// Document is the registry service owning document identity and lifecycle.
type Document struct {
	documents   model.DocumentStore
	permissions model.PermissionStore
	storage     model.Storage
	logger      *logger.Logger
}

func NewDocument(
	documents model.DocumentStore,
	permissions model.PermissionStore,
	storage model.Storage,
	logger *logger.Logger,
) *Document {
	return &Document{
		documents:   documents,
		permissions: permissions,
		storage:     storage,
		logger:      logger,
	}
}

// Create registers a new document for ownerID. The (owner, filename) pair
// must be unique; the owner role row is inserted in the same transaction as
// the document row. An empty content blob is written up front so the first
// load never has to special-case a missing object.
func (s *Document) Create(ctx context.Context, ownerID int64, filename string) (model.Document, error) {
	if filename == "" {
		return model.Document{}, model.NewValidationError("filename must not be empty")
	}

	_, err := s.documents.GetByOwnerAndName(ctx, ownerID, filename)
	if err == nil {
		return model.Document{}, model.ErrConflict
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Document{}, fmt.Errorf("failed to check document existence: %w", err)
	}

	document := model.Document{
		Filename:   filename,
		OwnerID:    ownerID,
		StorageKey: uuid.New(),
	}

	document, err = s.documents.CreateWithOwner(ctx, document)
	if err != nil {
		return model.Document{}, err
	}

	if err := s.storage.Upload(ctx, contentKey(document), bytes.NewReader(nil)); err != nil {
		s.logger.Error("failed to initialize document content", "fileID", document.FileID, "error", err)
	}

	return document, nil
}

// Resolve returns document metadata for fileID.
func (s *Document) Resolve(ctx context.Context, fileID int64) (model.Document, error) {
	return s.documents.GetByID(ctx, fileID)
}

// Exists reports whether a document with fileID is registered.
func (s *Document) Exists(ctx context.Context, fileID int64) (bool, error) {
	_, err := s.documents.GetByID(ctx, fileID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsOwner reports whether userID owns the document.
func (s *Document) IsOwner(ctx context.Context, fileID, userID int64) (bool, error) {
	document, err := s.documents.GetByID(ctx, fileID)
	if err != nil {
		return false, err
	}
	return document.OwnerID == userID, nil
}

// Delete removes the document, its permission, change-log and version rows,
// and its content blob. Only the owner may delete.
func (s *Document) Delete(ctx context.Context, fileID, callerID int64) (string, error) {
	document, err := s.documents.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	if document.OwnerID != callerID {
		return "", model.ErrPermissionDenied
	}

	if err := s.documents.Delete(ctx, fileID); err != nil {
		return "", err
	}

	// The metadata rows are gone; a leftover blob is unreachable and only
	// costs space, so a failed blob delete is logged, not surfaced.
	if err := s.storage.Delete(ctx, contentKey(document)); err != nil {
		s.logger.Error("failed to delete document content", "fileID", fileID, "error", err)
	}

	return document.Filename, nil
}

// ListForUser returns every document userID has any role on.
func (s *Document) ListForUser(ctx context.Context, userID int64) ([]model.DocumentRef, error) {
	refs, err := s.permissions.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return refs, nil
}

func contentKey(document model.Document) string {
	return "documents/" + document.StorageKey.String()
}
