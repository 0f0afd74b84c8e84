package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HilaBluman/CEOS/internal/model"
)

var _ model.PermissionStore = (*PermissionRepository)(nil)

type PermissionRepository struct {
	db DB
}

func NewPermissionRepository(db DB) *PermissionRepository {
	return &PermissionRepository{
		db: db,
	}
}

func (r *PermissionRepository) Grant(ctx context.Context, fileID, userID int64, role model.Role) error {
	query := `INSERT INTO permissions (file_id, user_id, role) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, fileID, userID, string(role))
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to grant role: %w", err)
	}

	return nil
}

// Revoke verifies the grant exists before deleting; a missing grant is
// reported as ErrNotFound rather than silently succeeding.
func (r *PermissionRepository) Revoke(ctx context.Context, fileID, userID int64) error {
	if _, err := r.GetRole(ctx, fileID, userID); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx,
		`DELETE FROM permissions WHERE file_id = $1 AND user_id = $2`,
		fileID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	return nil
}

func (r *PermissionRepository) GetRole(ctx context.Context, fileID, userID int64) (model.Role, error) {
	var role string
	query := `SELECT role FROM permissions WHERE file_id = $1 AND user_id = $2`

	err := r.db.QueryRow(ctx, query, fileID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get role: %w", err)
	}

	return model.Role(role), nil
}

func (r *PermissionRepository) ListForFile(ctx context.Context, fileID int64) ([]model.AccessEntry, error) {
	query := `SELECT u.username, p.role
			  FROM permissions p
			  JOIN users u ON u.user_id = p.user_id
			  WHERE p.file_id = $1
			  ORDER BY u.username`

	rows, err := r.db.Query(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list file access: %w", err)
	}
	defer rows.Close()

	var entries []model.AccessEntry
	for rows.Next() {
		var entry model.AccessEntry
		if err := rows.Scan(&entry.Username, &entry.Role); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *PermissionRepository) ListForUser(ctx context.Context, userID int64) ([]model.DocumentRef, error) {
	query := `SELECT p.file_id, d.filename
			  FROM permissions p
			  JOIN documents d ON d.file_id = p.file_id
			  WHERE p.user_id = $1
			  ORDER BY d.filename`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user documents: %w", err)
	}
	defer rows.Close()

	var refs []model.DocumentRef
	for rows.Next() {
		var ref model.DocumentRef
		if err := rows.Scan(&ref.FileID, &ref.Filename); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}
