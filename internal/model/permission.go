package model

import "context"

// Role grades a user's access to a document.
type Role string

const (
	// RoleOwner is assigned at document creation and cannot be revoked.
	RoleOwner Role = "owner"
	// RoleEditor may mutate content and manage versions.
	RoleEditor Role = "editor"
	// RoleViewer may only read and poll.
	RoleViewer Role = "viewer"
)

// ParseRole validates a role string received from a client.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleEditor, RoleViewer:
		return Role(s), nil
	default:
		return "", NewValidationError("unknown role %q", s)
	}
}

// CanEdit reports whether the role allows mutation and versioning.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// PermissionStore defines persistence operations for the
// (fileID, userID) -> role relation.
type PermissionStore interface {
	// Grant inserts a role row; ErrConflict if the pair already has one.
	Grant(ctx context.Context, fileID, userID int64, role Role) error
	// Revoke removes the pair's row; ErrNotFound if no grant exists.
	Revoke(ctx context.Context, fileID, userID int64) error
	// GetRole returns the pair's role; ErrNotFound if no grant exists.
	GetRole(ctx context.Context, fileID, userID int64) (Role, error)
	// ListForFile returns every collaborator of a document with their role.
	ListForFile(ctx context.Context, fileID int64) ([]AccessEntry, error)
	// ListForUser returns every document the user has any role on.
	ListForUser(ctx context.Context, userID int64) ([]DocumentRef, error)
}

// AccessEntry pairs a collaborator's username with their role.
type AccessEntry struct {
	Username string
	Role     Role
}
