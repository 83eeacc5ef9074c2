// Package store persists runs and their accepted records.
package store

import (
	"context"

	"github.com/sells-group/mapleads-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Query  string          `json:"query,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store is the persistence interface for collection runs. Records are
// appended as they are accepted so an aborted run keeps its data.
type Store interface {
	CreateRun(ctx context.Context, query string, target int) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	AppendRecord(ctx context.Context, runID string, hash string, rec model.BusinessRecord) error
	ListRecords(ctx context.Context, runID string) ([]model.BusinessRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
