package model

import (
	"context"
	"time"
)

// Action identifies a positional edit operation.
type Action string

const (
	ActionInsert           Action = "insert"
	ActionPaste            Action = "paste"
	ActionUpdate           Action = "update"
	ActionDelete           Action = "delete"
	ActionDeleteHighlight  Action = "delete highlighted"
	ActionUpdateDeleteNext Action = "update and delete row below"
	ActionSaveAll          Action = "saveAll"

	// ActionDeleteSameLine and ActionDeletePrevLine are ambiguous client
	// tags: the client cannot tell whether its edit was a plain line update
	// or an update that swallowed an adjacent line. Canonicalization resolves
	// them before anything is persisted.
	ActionDeleteSameLine Action = "delete same line"
	ActionDeletePrevLine Action = "delete previous line"
)

// Operation is a single structured edit as submitted by a client.
// LinesLength is the line count the client expected after its local edit;
// for ActionDeleteHighlight the Content field carries the exclusive upper
// bound of the deleted row range.
type Operation struct {
	Action      Action `json:"action"`
	Row         int    `json:"row"`
	Content     string `json:"content"`
	LinesLength int    `json:"linesLength"`
}

// Change is one committed entry of the append-only change log. ModID is
// strictly increasing across the whole log, not per document.
type Change struct {
	ModID     int64     `json:"ModID"`
	FileID    int64     `json:"fileID"`
	UserID    int64     `json:"userID"`
	Operation Operation `json:"operation"`
	CreatedAt time.Time `json:"-"`
}

// ChangeLogStore defines persistence operations for the change log.
type ChangeLogStore interface {
	// Append inserts a committed change and returns its ModID.
	Append(ctx context.Context, change Change) (int64, error)
	// LastModID returns the newest ModID for a document, 0 if none.
	LastModID(ctx context.Context, fileID int64) (int64, error)
	// ChangesSince returns changes with ModID greater than lastModID,
	// ascending, excluding entries authored by excludingUserID.
	ChangesSince(ctx context.Context, fileID, lastModID, excludingUserID int64) ([]Change, error)
}
