package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/HilaBluman/CEOS/internal/editor"
	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// Editor applies positional edits to document content. The whole
// read-mutate-rewrite cycle for one document runs under that document's
// exclusive lock; change-log appends additionally serialize on a coarse
// table-level lock so "insert, then return new ModID" is atomic.
type Editor struct {
	documents   model.DocumentStore
	permissions model.PermissionStore
	changes     model.ChangeLogStore
	storage     model.Storage
	logger      *logger.Logger

	locks    *documentLocks
	appendMu sync.Mutex
}

func NewEditor(
	documents model.DocumentStore,
	permissions model.PermissionStore,
	changes model.ChangeLogStore,
	storage model.Storage,
	logger *logger.Logger,
) *Editor {
	return &Editor{
		documents:   documents,
		permissions: permissions,
		changes:     changes,
		storage:     storage,
		logger:      logger,
		locks:       newDocumentLocks(),
	}
}

// LoadResult is a document's full content plus the client's starting poll
// cursor.
type LoadResult struct {
	FullContent string `json:"fullContent"`
	LastModID   int64  `json:"lastModID"`
}

// Apply canonicalizes and applies one edit operation on behalf of userID,
// persists the rewritten buffer, and logs the canonical action. The change
// log is appended only after the rewrite succeeds, so consumers never see
// an edit that was not applied.
func (s *Editor) Apply(ctx context.Context, fileID, userID int64, op model.Operation) (model.Action, error) {
	document, err := s.documents.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}

	if err := s.requireEditor(ctx, fileID, userID); err != nil {
		return "", err
	}

	lock := s.locks.get(fileID)
	lock.Lock()
	defer lock.Unlock()

	content, err := s.readContent(ctx, document)
	if err != nil {
		return "", err
	}

	buffer := editor.NewBuffer(content)
	canonical, err := buffer.Apply(op)
	if err != nil {
		return "", err
	}

	if err := s.storage.Upload(ctx, contentKey(document), strings.NewReader(buffer.Content())); err != nil {
		return "", fmt.Errorf("failed to rewrite document content: %w", err)
	}

	canonicalOp := op
	canonicalOp.Action = canonical

	s.appendMu.Lock()
	modID, err := s.changes.Append(ctx, model.Change{
		FileID:    fileID,
		UserID:    userID,
		Operation: canonicalOp,
	})
	s.appendMu.Unlock()
	if err != nil {
		// The rewrite is already durable; a lost log entry means other
		// clients will recover it on their next full load.
		s.logger.Error("failed to log change", "fileID", fileID, "error", err)
		return "", fmt.Errorf("failed to log change: %w", err)
	}

	s.logger.Debug("mutation applied",
		"fileID", fileID, "userID", userID, "action", canonical, "modID", modID)

	return canonical, nil
}

// Load returns the full document content together with the newest ModID so
// the client can start polling from the right cursor. Any role on the
// document suffices.
func (s *Editor) Load(ctx context.Context, fileID, userID int64) (LoadResult, error) {
	document, err := s.documents.GetByID(ctx, fileID)
	if err != nil {
		return LoadResult{}, err
	}

	if _, err := s.permissions.GetRole(ctx, fileID, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return LoadResult{}, model.ErrPermissionDenied
		}
		return LoadResult{}, err
	}

	content, err := s.readContent(ctx, document)
	if err != nil {
		return LoadResult{}, err
	}

	lastModID, err := s.changes.LastModID(ctx, fileID)
	if err != nil {
		return LoadResult{}, err
	}

	return LoadResult{FullContent: content, LastModID: lastModID}, nil
}

// CurrentContent reads the persisted buffer; used by version saves that
// snapshot server-side state.
func (s *Editor) CurrentContent(ctx context.Context, fileID int64) (string, error) {
	document, err := s.documents.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.readContent(ctx, document)
}

func (s *Editor) requireEditor(ctx context.Context, fileID, userID int64) error {
	role, err := s.permissions.GetRole(ctx, fileID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrPermissionDenied
	}
	if err != nil {
		return err
	}
	if !role.CanEdit() {
		return model.ErrPermissionDenied
	}
	return nil
}

// readContent treats a missing blob as an empty document: a freshly created
// document may not have been written yet.
func (s *Editor) readContent(ctx context.Context, document model.Document) (string, error) {
	reader, err := s.storage.Download(ctx, contentKey(document))
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document content: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read document content: %w", err)
	}

	return string(raw), nil
}
