package port

import (
	"context"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

type Service interface {
	// Run executes an import synchronously and returns its result. A run
	// always finishes and always produces a result, even if every row failed.
	Run(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error)
	// Start launches an import in the background and returns the progress
	// session id immediately. The run is fire-and-forget once started.
	Start(ctx context.Context, req domain.ImportRequest) string
	// Preview computes the lifecycle transitions a snapshot would cause
	// without persisting anything.
	Preview(ctx context.Context, source domain.SourceSystem, serials []string) (*domain.ReconciliationPreview, error)
	Progress(sessionID string) (*domain.ProgressSnapshot, bool)
	ListRuns(ctx context.Context, limit, offset int) ([]domain.SyncRun, int, error)
}
