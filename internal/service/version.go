package service

import (
	"context"
	"errors"
	"sync"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// Version manages full-content snapshots. Version numbers for a document
// form a contiguous 1..N sequence at creation time; the read-max-then-insert
// pair runs under a coarse allocation lock shared by all documents, which is
// what makes concurrent saves on one document collision-free. Deletion may
// leave gaps.
type Version struct {
	documents   model.DocumentStore
	permissions model.PermissionStore
	versions    model.VersionStore
	logger      *logger.Logger

	allocMu sync.Mutex
}

func NewVersion(
	documents model.DocumentStore,
	permissions model.PermissionStore,
	versions model.VersionStore,
	logger *logger.Logger,
) *Version {
	return &Version{
		documents:   documents,
		permissions: permissions,
		versions:    versions,
		logger:      logger,
	}
}

// Save snapshots content under the next version number and returns it.
// Editor or owner role required.
func (s *Version) Save(ctx context.Context, fileID, userID int64, content string) (int, error) {
	if _, err := s.documents.GetByID(ctx, fileID); err != nil {
		return 0, err
	}
	if err := s.requireEditor(ctx, fileID, userID); err != nil {
		return 0, err
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	max, err := s.versions.MaxVersion(ctx, fileID)
	if err != nil {
		return 0, err
	}
	next := max + 1

	if err := s.versions.Create(ctx, model.Version{
		FileID:  fileID,
		Number:  next,
		Content: content,
	}); err != nil {
		return 0, err
	}

	s.logger.Info("version saved", "fileID", fileID, "version", next)
	return next, nil
}

// Get returns a snapshot's content.
func (s *Version) Get(ctx context.Context, fileID int64, number int) (string, error) {
	version, err := s.versions.Get(ctx, fileID, number)
	if err != nil {
		return "", err
	}
	return version.Content, nil
}

// Delete removes one snapshot. Editor or owner role required.
func (s *Version) Delete(ctx context.Context, fileID, userID int64, number int) error {
	if err := s.requireEditor(ctx, fileID, userID); err != nil {
		return err
	}
	return s.versions.Delete(ctx, fileID, number)
}

// List returns (version, date, time) entries ascending by version.
func (s *Version) List(ctx context.Context, fileID int64) ([]model.VersionInfo, error) {
	versions, err := s.versions.List(ctx, fileID)
	if err != nil {
		return nil, err
	}

	infos := make([]model.VersionInfo, 0, len(versions))
	for _, version := range versions {
		infos = append(infos, version.Info())
	}
	return infos, nil
}

func (s *Version) requireEditor(ctx context.Context, fileID, userID int64) error {
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
