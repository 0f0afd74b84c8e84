package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HilaBluman/CEOS/internal/model"
	"github.com/HilaBluman/CEOS/internal/testutil"
)

func TestSync_PollExcludesOwnChanges(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	documents := NewDocument(e.documents, e.permissions, e.storage, testutil.MakeNoopLogger())
	doc, err := documents.Create(ctx, 1, "draft.txt")
	require.NoError(t, err)

	appendChange := func(userID int64, content string) {
		_, err := e.changes.Append(ctx, model.Change{
			FileID: doc.FileID,
			UserID: userID,
			Operation: model.Operation{
				Action: model.ActionInsert, Content: content,
			},
		})
		require.NoError(t, err)
	}

	appendChange(1, "by one")
	appendChange(2, "by two")
	appendChange(1, "by one again")

	svc := NewSync(e.documents, e.changes, testutil.MakeNoopLogger())

	// User 1 never sees their own edits back.
	changes, err := svc.Poll(ctx, doc.FileID, 0, 1)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, int64(2), changes[0].UserID)

	// User 2 sees both of user 1's edits, ascending by ModID.
	changes, err = svc.Poll(ctx, doc.FileID, 0, 2)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Less(t, changes[0].ModID, changes[1].ModID)
}

func TestSync_PollCursorAdvances(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	documents := NewDocument(e.documents, e.permissions, e.storage, testutil.MakeNoopLogger())
	doc, err := documents.Create(ctx, 1, "draft.txt")
	require.NoError(t, err)

	modID, err := e.changes.Append(ctx, model.Change{FileID: doc.FileID, UserID: 1})
	require.NoError(t, err)

	svc := NewSync(e.documents, e.changes, testutil.MakeNoopLogger())

	changes, err := svc.Poll(ctx, doc.FileID, 0, 2)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	// Resubmitting the newest ModID yields nothing until a new edit lands.
	changes, err = svc.Poll(ctx, doc.FileID, modID, 2)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestSync_PollUnknownDocument(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	svc := NewSync(e.documents, e.changes, testutil.MakeNoopLogger())

	_, err := svc.Poll(ctx, 42, 0, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSync_PollDoesNotFilterAcrossDocuments(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	documents := NewDocument(e.documents, e.permissions, e.storage, testutil.MakeNoopLogger())
	first, err := documents.Create(ctx, 1, "a.txt")
	require.NoError(t, err)
	second, err := documents.Create(ctx, 1, "b.txt")
	require.NoError(t, err)

	_, err = e.changes.Append(ctx, model.Change{FileID: first.FileID, UserID: 1})
	require.NoError(t, err)
	_, err = e.changes.Append(ctx, model.Change{FileID: second.FileID, UserID: 1})
	require.NoError(t, err)

	svc := NewSync(e.documents, e.changes, testutil.MakeNoopLogger())

	changes, err := svc.Poll(ctx, first.FileID, 0, 2)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, first.FileID, changes[0].FileID)
}
