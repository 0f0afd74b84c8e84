package model

import (
	"context"
	"time"
)

// VersionStore defines persistence operations for version snapshots.
// Version numbers are allocated by the caller inside a critical section
// spanning MaxVersion and Create.
type VersionStore interface {
	// MaxVersion returns the highest version number for a document, 0 if none.
	MaxVersion(ctx context.Context, fileID int64) (int, error)
	Create(ctx context.Context, version Version) error
	// Get returns a snapshot; ErrNotFound for an unknown (fileID, version).
	Get(ctx context.Context, fileID int64, number int) (Version, error)
	// Delete removes a snapshot; ErrNotFound if it does not exist.
	Delete(ctx context.Context, fileID int64, number int) error
	// List returns all snapshots of a document ascending by version.
	List(ctx context.Context, fileID int64) ([]Version, error)
}

// Version is a full-content snapshot of a document.
type Version struct {
	FileID    int64
	Number    int
	Content   string
	CreatedAt time.Time
}

// Info formats the snapshot for listings.
func (v Version) Info() VersionInfo {
	return VersionInfo{
		Version: v.Number,
		Date:    v.CreatedAt.Format("2006-01-02"),
		Time:    v.CreatedAt.Format("15:04:05"),
	}
}

// VersionInfo is a listing entry for one snapshot.
type VersionInfo struct {
	Version int    `json:"version"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}
