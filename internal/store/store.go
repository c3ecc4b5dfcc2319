package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tubelink/tubelink/internal/models"
)

// RunRecord summarises one extraction run.
type RunRecord struct {
	ID          uuid.UUID `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Live        int       `json:"live"`
	Unavailable int       `json:"unavailable"`
	Failed      int       `json:"failed"`
}

// Store persists run history for auditing. The pipeline works identically
// without one; a nil Store simply skips recording.
type Store interface {
	// RecordRun inserts the run summary and its per-channel results.
	RecordRun(ctx context.Context, run RunRecord, results []models.Result) error
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
	// Close releases the underlying connections.
	Close()
}
