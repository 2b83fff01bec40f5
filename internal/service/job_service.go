package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JobService hosts the maintenance work the cron scheduler runs.
type JobService struct {
	store  SnapshotStore
	logger *zap.Logger
}

func NewJobService(store SnapshotStore, logger *zap.Logger) *JobService {
	return &JobService{store: store, logger: logger}
}

// PurgeOldSnapshots deletes cache rows older than the retention window so the
// court_lists table doesn't grow without bound.
func (s *JobService) PurgeOldSnapshots(retention time.Duration) error {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.store.DeleteOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("cron job: failed to purge old snapshots: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("purged old snapshot rows", zap.Int64("deleted", deleted))
	}
	return nil
}
