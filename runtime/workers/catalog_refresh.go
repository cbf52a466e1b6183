package workers

import (
	"context"
	"log/slog"
	"time"
)

type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshWorker reloads the catalog before its cache expires, so a
// game start rarely waits on image lookups.
type CatalogRefreshWorker struct {
	log       *slog.Logger
	refresher CatalogRefresher
	interval  time.Duration
}

func NewCatalogRefreshWorker(log *slog.Logger, refresher CatalogRefresher, interval time.Duration) *CatalogRefreshWorker {
	return &CatalogRefreshWorker{log: log, refresher: refresher, interval: interval}
}

func (w *CatalogRefreshWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.refresher.Refresh(ctx); err != nil {
				w.log.Warn("Catalog refresh failed", "error", err)
			}
		}
	}
}
