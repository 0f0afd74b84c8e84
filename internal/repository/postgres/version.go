package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HilaBluman/CEOS/internal/model"
)

var _ model.VersionStore = (*VersionRepository)(nil)

type VersionRepository struct {
	db DB
}

func NewVersionRepository(db DB) *VersionRepository {
	return &VersionRepository{
		db: db,
	}
}

func (r *VersionRepository) MaxVersion(ctx context.Context, fileID int64) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM versions WHERE file_id = $1`

	var max int
	if err := r.db.QueryRow(ctx, query, fileID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max version: %w", err)
	}

	return max, nil
}

func (r *VersionRepository) Create(ctx context.Context, version model.Version) error {
	query := `INSERT INTO versions (file_id, version, content) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, version.FileID, version.Number, version.Content)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to create version: %w", err)
	}

	return nil
}

func (r *VersionRepository) Get(ctx context.Context, fileID int64, number int) (model.Version, error) {
	var version model.Version
	query := `SELECT file_id, version, content, created_at
			  FROM versions WHERE file_id = $1 AND version = $2`

	err := r.db.QueryRow(ctx, query, fileID, number).Scan(
		&version.FileID, &version.Number, &version.Content, &version.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Version{}, model.ErrNotFound
		}
		return model.Version{}, fmt.Errorf("failed to get version: %w", err)
	}

	return version, nil
}

func (r *VersionRepository) Delete(ctx context.Context, fileID int64, number int) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM versions WHERE file_id = $1 AND version = $2`,
		fileID, number,
	)
	if err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *VersionRepository) List(ctx context.Context, fileID int64) ([]model.Version, error) {
	query := `SELECT file_id, version, content, created_at
			  FROM versions WHERE file_id = $1
			  ORDER BY version ASC`

	rows, err := r.db.Query(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []model.Version
	for rows.Next() {
		var version model.Version
		err := rows.Scan(&version.FileID, &version.Number, &version.Content, &version.CreatedAt)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return versions, nil
}
