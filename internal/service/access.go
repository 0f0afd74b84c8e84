package service

import (
	"context"
	"errors"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// Access is the role-management service over the (fileID, userID) -> role
// relation. Grant and revoke are owner-only operations.
type Access struct {
	documents   model.DocumentStore
	permissions model.PermissionStore
	users       model.UserStore
	logger      *logger.Logger
}

func NewAccess(
	documents model.DocumentStore,
	permissions model.PermissionStore,
	users model.UserStore,
	logger *logger.Logger,
) *Access {
	return &Access{
		documents:   documents,
		permissions: permissions,
		users:       users,
		logger:      logger,
	}
}

// Grant gives targetUsername the role on fileID. The caller must own the
// document; the owner role itself is only ever created with the document.
func (s *Access) Grant(ctx context.Context, fileID, callerID int64, targetUsername string, role model.Role) error {
	if role == model.RoleOwner {
		return model.NewValidationError("owner role cannot be granted")
	}

	if err := s.requireOwner(ctx, fileID, callerID); err != nil {
		return err
	}

	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	if err := s.permissions.Grant(ctx, fileID, target.ID, role); err != nil {
		return err
	}

	s.logger.Info("role granted", "fileID", fileID, "userID", target.ID, "role", role)
	return nil
}

// Revoke removes targetUserID's role on fileID. The owner row is not
// revocable through this path.
func (s *Access) Revoke(ctx context.Context, fileID, callerID, targetUserID int64) error {
	if err := s.requireOwner(ctx, fileID, callerID); err != nil {
		return err
	}

	role, err := s.permissions.GetRole(ctx, fileID, targetUserID)
	if err != nil {
		return err
	}
	if role == model.RoleOwner {
		return model.ErrPermissionDenied
	}

	if err := s.permissions.Revoke(ctx, fileID, targetUserID); err != nil {
		return err
	}

	s.logger.Info("role revoked", "fileID", fileID, "userID", targetUserID)
	return nil
}

// RoleOf returns userID's role on fileID, ErrNotFound if none.
func (s *Access) RoleOf(ctx context.Context, fileID, userID int64) (model.Role, error) {
	return s.permissions.GetRole(ctx, fileID, userID)
}

// IsEditorOrOwner reports whether userID may mutate and version fileID.
func (s *Access) IsEditorOrOwner(ctx context.Context, fileID, userID int64) (bool, error) {
	role, err := s.permissions.GetRole(ctx, fileID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role.CanEdit(), nil
}

// IsViewer reports whether userID holds exactly the viewer role on fileID.
func (s *Access) IsViewer(ctx context.Context, fileID, userID int64) (bool, error) {
	role, err := s.permissions.GetRole(ctx, fileID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role == model.RoleViewer, nil
}

// ListAccess returns every collaborator of fileID with their role. Any
// collaborator may list.
func (s *Access) ListAccess(ctx context.Context, fileID, callerID int64) ([]model.AccessEntry, error) {
	if _, err := s.permissions.GetRole(ctx, fileID, callerID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrPermissionDenied
		}
		return nil, err
	}

	return s.permissions.ListForFile(ctx, fileID)
}

func (s *Access) requireOwner(ctx context.Context, fileID, callerID int64) error {
	document, err := s.documents.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if document.OwnerID != callerID {
		return model.ErrPermissionDenied
	}
	return nil
}
