package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HilaBluman/CEOS/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

type DocumentRepository struct {
	db DB
}

func NewDocumentRepository(db DB) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

// CreateWithOwner inserts the document row and the owner's permission row
// in a single transaction so a document can never exist without an owner
// grant.
func (r *DocumentRepository) CreateWithOwner(ctx context.Context, document model.Document) (model.Document, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO documents (filename, owner_id, storage_key)
			  VALUES ($1, $2, $3)
			  RETURNING file_id, created_at, updated_at`

	err = tx.QueryRow(ctx, query, document.Filename, document.OwnerID, document.StorageKey).Scan(
		&document.FileID, &document.CreatedAt, &document.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Document{}, model.ErrConflict
		}
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO permissions (file_id, user_id, role) VALUES ($1, $2, $3)`,
		document.FileID, document.OwnerID, string(model.RoleOwner),
	)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to grant owner role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Document{}, fmt.Errorf("failed to commit document creation: %w", err)
	}

	return document, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, fileID int64) (model.Document, error) {
	var document model.Document
	query := `SELECT file_id, filename, owner_id, storage_key, created_at, updated_at
			  FROM documents WHERE file_id = $1`

	err := r.db.QueryRow(ctx, query, fileID).Scan(
		&document.FileID, &document.Filename, &document.OwnerID,
		&document.StorageKey, &document.CreatedAt, &document.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Document{}, model.ErrNotFound
		}
		return model.Document{}, fmt.Errorf("failed to get document by id: %w", err)
	}

	return document, nil
}

func (r *DocumentRepository) GetByOwnerAndName(ctx context.Context, ownerID int64, filename string) (model.Document, error) {
	var document model.Document
	query := `SELECT file_id, filename, owner_id, storage_key, created_at, updated_at
			  FROM documents WHERE owner_id = $1 AND filename = $2`

	err := r.db.QueryRow(ctx, query, ownerID, filename).Scan(
		&document.FileID, &document.Filename, &document.OwnerID,
		&document.StorageKey, &document.CreatedAt, &document.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Document{}, model.ErrNotFound
		}
		return model.Document{}, fmt.Errorf("failed to get document by owner and name: %w", err)
	}

	return document, nil
}

// Delete cascades to permission, change-log and version rows so no orphaned
// rows survive for a dead file ID.
func (r *DocumentRepository) Delete(ctx context.Context, fileID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM change_log WHERE file_id = $1`,
		`DELETE FROM versions WHERE file_id = $1`,
		`DELETE FROM permissions WHERE file_id = $1`,
	} {
		if _, err := tx.Exec(ctx, query, fileID); err != nil {
			return fmt.Errorf("failed to cascade document delete: %w", err)
		}
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM documents WHERE file_id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document delete: %w", err)
	}

	return nil
}
