package workers

import (
	"context"
	"log/slog"
	"time"
)

const DefaultCleanupInterval = 30 * time.Minute

type RoomCleaner interface {
	CleanupOldRooms() int
}

// CleanupWorker deletes stale rooms on a fixed period.
type CleanupWorker struct {
	log      *slog.Logger
	cleaner  RoomCleaner
	interval time.Duration
}

func NewCleanupWorker(log *slog.Logger, cleaner RoomCleaner, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupWorker{log: log, cleaner: cleaner, interval: interval}
}

func (w *CleanupWorker) Run(ctx context.Context) error {
	w.log.Info("Starting room cleanup worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := w.cleaner.CleanupOldRooms(); removed > 0 {
				w.log.Debug("Cleanup tick", "rooms", removed)
			}
		}
	}
}
