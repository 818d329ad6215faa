// Package cleanup removes files reported as unique to one side of a comparison.
package cleanup

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sdejongh/stemdiff/pkg/logging"
	"github.com/sdejongh/stemdiff/pkg/models"
	"github.com/sdejongh/stemdiff/pkg/storage"
)

// DeleteFiles removes each root-relative path from backend.
//
// Deletion is best effort: a failure is recorded for that path with its cause
// and the remaining paths are still processed. Once ctx is done, every path not
// yet attempted is recorded as failed with the context error.
func DeleteFiles(ctx context.Context, backend storage.Backend, side models.Side, paths []string, logger logging.Logger) *models.DeletionReport {
	logger = logging.OrNull(logger).WithFields(logging.Fields{"side": string(side)})
	report := &models.DeletionReport{
		Side:      side,
		Outcomes:  make([]models.DeleteOutcome, 0, len(paths)),
		StartTime: time.Now(),
	}

	for _, rel := range paths {
		abs := filepath.Join(backend.Root(), rel)

		if err := ctx.Err(); err != nil {
			report.Record(abs, err)
			continue
		}

		err := backend.Delete(ctx, rel)
		report.Record(abs, err)
		if err != nil {
			logger.Error(ctx, "delete failed", err, logging.Fields{"path": abs})
		} else {
			logger.Info(ctx, "deleted", logging.Fields{"path": abs})
		}
	}

	report.Duration = time.Since(report.StartTime)
	return report
}

// DeleteEntries removes the given entries, which must belong to backend
func DeleteEntries(ctx context.Context, backend storage.Backend, side models.Side, entries []models.FileEntry, logger logging.Logger) *models.DeletionReport {
	return DeleteFiles(ctx, backend, side, models.RelativePaths(entries), logger)
}
