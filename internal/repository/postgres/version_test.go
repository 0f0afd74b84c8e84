package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HilaBluman/CEOS/internal/model"
)

func TestVersionRepository_MaxVersion(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version), 0)`)).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(3))

	max, err := repo.MaxVersion(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, max)
}

func TestVersionRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO versions`)).
		WithArgs(int64(5), 4, "content").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(ctx, model.Version{FileID: 5, Number: 4, Content: "content"})
	assert.NoError(t, err)
}

func TestVersionRepository_CreateDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO versions`)).
		WithArgs(int64(5), 4, "content").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Create(ctx, model.Version{FileID: 5, Number: 4, Content: "content"})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestVersionRepository_Get(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT file_id, version, content, created_at`)).
		WithArgs(int64(5), 2).
		WillReturnRows(pgxmock.NewRows([]string{"file_id", "version", "content", "created_at"}).
			AddRow(int64(5), 2, "snapshot", now))

	version, err := repo.Get(ctx, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", version.Content)
}

func TestVersionRepository_GetNotFound(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT file_id, version, content, created_at`)).
		WithArgs(int64(5), 9).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(ctx, 5, 9)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVersionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM versions`)).
		WithArgs(int64(5), 2).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(ctx, 5, 2))
}

func TestVersionRepository_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM versions`)).
		WithArgs(int64(5), 9).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(ctx, 5, 9)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVersionRepository_List(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewVersionRepository(mock)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT file_id, version, content, created_at`)).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"file_id", "version", "content", "created_at"}).
			AddRow(int64(5), 1, "a", now).
			AddRow(int64(5), 2, "b", now))

	versions, err := repo.List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].Number)
	assert.Equal(t, 2, versions[1].Number)
}
