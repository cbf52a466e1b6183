package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"timeline-lab/domain"
	"timeline-lab/runtime"

	"github.com/shirou/gopsutil/process"
)

const DefaultMonitoringInterval = time.Minute

type StatsSource interface {
	Stats() runtime.Stats
}

// MonitoringWorker periodically logs room counts and process resources.
type MonitoringWorker struct {
	log      *slog.Logger
	source   StatsSource
	interval time.Duration
}

func NewMonitoringWorker(log *slog.Logger, source StatsSource, interval time.Duration) *MonitoringWorker {
	if interval <= 0 {
		interval = DefaultMonitoringInterval
	}
	return &MonitoringWorker{log: log, source: source, interval: interval}
}

func (w *MonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("inspect own process: %w", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *MonitoringWorker) report(p *process.Process) {
	stats := w.source.Stats()
	attrs := []any{"rooms", stats.Rooms, "players", stats.Players, "playing", stats.Playing}

	self, err := selfStats(p)
	if err != nil {
		w.log.Warn("Failed to collect self stats", "error", err)
	} else {
		attrs = append(attrs, "rss_bytes", self.RSS, "cpu_percent", self.CPUPercent, "status", self.Status)
	}
	w.log.Info("Server status", attrs...)
}

func selfStats(p *process.Process) (domain.ProcessStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return domain.ProcessStats{}, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return domain.ProcessStats{}, err
	}
	status, err := p.Status()
	if err != nil {
		return domain.ProcessStats{}, err
	}
	return domain.ProcessStats{
		PID:        p.Pid,
		RSS:        memInfo.RSS,
		CPUPercent: cpuPercent,
		Status:     domain.ToStatus(status),
	}, nil
}
