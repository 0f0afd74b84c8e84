package service

import (
	"context"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// Sync answers poll requests. It is stateless: the cursor is owned by the
// client and resubmitted on every poll, and a poll with nothing new returns
// immediately with an empty slice. No blocking, no push.
type Sync struct {
	documents model.DocumentStore
	changes   model.ChangeLogStore
	logger    *logger.Logger
}

func NewSync(documents model.DocumentStore, changes model.ChangeLogStore, logger *logger.Logger) *Sync {
	return &Sync{
		documents: documents,
		changes:   changes,
		logger:    logger,
	}
}

// Poll returns every change on fileID newer than lastModID that was not
// authored by requesterID, ascending by ModID.
func (s *Sync) Poll(ctx context.Context, fileID, lastModID, requesterID int64) ([]model.Change, error) {
	if _, err := s.documents.GetByID(ctx, fileID); err != nil {
		return nil, err
	}

	return s.changes.ChangesSince(ctx, fileID, lastModID, requesterID)
}
