package i

import (
	"context"
	"time"
)

// IndexedRun is one run recorded in a RunIndex.
type IndexedRun struct {
	ID        string
	StartedAt time.Time
}

// RunIndex lists runs across every server that shares it.
type RunIndex interface {
	Add(ctx context.Context, runID string, startedAt time.Time) error
	Recent(ctx context.Context, n int64) ([]IndexedRun, error)
}
