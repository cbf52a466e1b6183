package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"timeline-lab/runtime"

	"github.com/mama165/sdk-go/logs"
	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) CleanupOldRooms() int {
	c.calls.Add(1)
	return 1
}

type flakyRefresher struct{ calls atomic.Int32 }

func (f *flakyRefresher) Refresh(context.Context) error {
	if f.calls.Add(1)%2 == 1 {
		return fmt.Errorf("geekdo down")
	}
	return nil
}

type fixedStats runtime.Stats

func (f fixedStats) Stats() runtime.Stats { return runtime.Stats(f) }

func TestCleanupWorker_RunsOnEveryTick(t *testing.T) {
	req := require.New(t)
	cleaner := &countingCleaner{}
	worker := NewCleanupWorker(logs.GetLoggerFromLevel(slog.LevelDebug), cleaner, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := worker.Run(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
	req.GreaterOrEqual(cleaner.calls.Load(), int32(3))
}

func TestCatalogRefreshWorker_KeepsGoingAfterFailures(t *testing.T) {
	req := require.New(t)
	refresher := &flakyRefresher{}
	worker := NewCatalogRefreshWorker(logs.GetLoggerFromLevel(slog.LevelDebug), refresher, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := worker.Run(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
	req.GreaterOrEqual(refresher.calls.Load(), int32(3))
}

func TestMonitoringWorker_ReportsUntilCanceled(t *testing.T) {
	worker := NewMonitoringWorker(logs.GetLoggerFromLevel(slog.LevelDebug),
		fixedStats{Rooms: 2, Players: 5, Playing: 1}, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, worker.Run(ctx), context.DeadlineExceeded)
}

func TestSelfStats(t *testing.T) {
	req := require.New(t)
	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	stats, err := selfStats(p)

	req.NoError(err)
	req.Equal(int32(os.Getpid()), stats.PID)
	req.Positive(stats.RSS)
}
