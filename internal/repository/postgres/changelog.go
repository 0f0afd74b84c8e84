package postgres

import (
	"context"
	"fmt"

	"github.com/HilaBluman/CEOS/internal/model"
)

var _ model.ChangeLogStore = (*ChangeLogRepository)(nil)

type ChangeLogRepository struct {
	db DB
}

func NewChangeLogRepository(db DB) *ChangeLogRepository {
	return &ChangeLogRepository{
		db: db,
	}
}

// Append inserts a committed change. mod_id comes from a single global
// sequence, so the returned ID is strictly increasing across all documents.
func (r *ChangeLogRepository) Append(ctx context.Context, change model.Change) (int64, error) {
	query := `INSERT INTO change_log (file_id, user_id, action, row_index, content, lines_length)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING mod_id`

	var modID int64
	err := r.db.QueryRow(ctx, query,
		change.FileID, change.UserID, string(change.Operation.Action),
		change.Operation.Row, change.Operation.Content, change.Operation.LinesLength,
	).Scan(&modID)
	if err != nil {
		return 0, fmt.Errorf("failed to append change: %w", err)
	}

	return modID, nil
}

func (r *ChangeLogRepository) LastModID(ctx context.Context, fileID int64) (int64, error) {
	query := `SELECT COALESCE(MAX(mod_id), 0) FROM change_log WHERE file_id = $1`

	var modID int64
	if err := r.db.QueryRow(ctx, query, fileID).Scan(&modID); err != nil {
		return 0, fmt.Errorf("failed to get last mod id: %w", err)
	}

	return modID, nil
}

func (r *ChangeLogRepository) ChangesSince(ctx context.Context, fileID, lastModID, excludingUserID int64) ([]model.Change, error) {
	query := `SELECT mod_id, file_id, user_id, action, row_index, content, lines_length, created_at
			  FROM change_log
			  WHERE file_id = $1 AND mod_id > $2 AND user_id <> $3
			  ORDER BY mod_id ASC`

	rows, err := r.db.Query(ctx, query, fileID, lastModID, excludingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	var changes []model.Change
	for rows.Next() {
		var change model.Change
		err := rows.Scan(
			&change.ModID, &change.FileID, &change.UserID,
			&change.Operation.Action, &change.Operation.Row,
			&change.Operation.Content, &change.Operation.LinesLength,
			&change.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return changes, nil
}
