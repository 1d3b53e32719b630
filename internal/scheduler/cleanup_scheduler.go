package scheduler

import (
	"context"
	"time"

	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OrderCleaner is the part of the order service the scheduler drives.
type OrderCleaner interface {
	CleanupPending() (int, error)
	CleanupShipped() (int64, error)
}

// CleanupScheduler 만료 주문 자동 정리 스케줄러
type CleanupScheduler struct {
	cron    *cron.Cron
	cleaner OrderCleaner
	spec    string
}

// NewCleanupScheduler evaluates spec in the site timezone.
func NewCleanupScheduler(cleaner OrderCleaner, spec string, loc *time.Location) *CleanupScheduler {
	return &CleanupScheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		cleaner: cleaner,
		spec:    spec,
	}
}

// Start 스케줄러 시작
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for order cleanup", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce expires stale pending orders and purges old shipped ones. A failure
// in one step does not skip the other.
func (s *CleanupScheduler) RunOnce() {
	logger.Info("Starting scheduled order cleanup", nil)

	expired, err := s.cleaner.CleanupPending()
	if err != nil {
		logger.Error("Failed to clean up pending orders", err)
	}

	purged, err := s.cleaner.CleanupShipped()
	if err != nil {
		logger.Error("Failed to clean up shipped orders", err)
	}

	logger.Info("Scheduled order cleanup finished", map[string]interface{}{
		"expired_pending": expired,
		"purged_shipped":  purged,
	})
}

// Stop waits for a running job up to the context deadline.
func (s *CleanupScheduler) Stop(ctx context.Context) {
	logger.Info("Stopping cleanup scheduler...", nil)
	select {
	case <-s.cron.Stop().Done():
		logger.Info("Cleanup scheduler stopped", nil)
	case <-ctx.Done():
		logger.Warn("Cleanup scheduler stop timed out", nil)
	}
}
