package storage

import (
	"log/slog"
	"sync"
	"time"

	"timeline-lab/domain"
	"timeline-lab/repositories"
)

// Snapshotter returns deep copies of every live room.
type Snapshotter interface {
	Snapshot() []*domain.Room
}

// DebouncedSaver coalesces bursts of room mutations into a single write.
// Each Schedule call cancels the pending timer and starts a new one, so a
// crash loses at most one delay window of changes.
type DebouncedSaver struct {
	mu         sync.Mutex
	saveMu     sync.Mutex
	timer      *time.Timer
	closed     bool
	source     Snapshotter
	repository repositories.IRoomRepository
	delay      time.Duration
	log        *slog.Logger
}

func NewDebouncedSaver(log *slog.Logger, repository repositories.IRoomRepository, delay time.Duration) *DebouncedSaver {
	return &DebouncedSaver{log: log, repository: repository, delay: delay}
}

// Attach sets the rooms source. It must be called before the first Schedule.
func (d *DebouncedSaver) Attach(source Snapshotter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = source
}

// Schedule (re)arms the write timer.
func (d *DebouncedSaver) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.source == nil {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		d.save()
	})
}

// Flush cancels any pending timer and writes immediately.
func (d *DebouncedSaver) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.save()
}

// Close flushes and ignores every later Schedule.
func (d *DebouncedSaver) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Flush()
}

func (d *DebouncedSaver) save() {
	d.mu.Lock()
	source := d.source
	d.mu.Unlock()
	if source == nil {
		return
	}

	d.saveMu.Lock()
	defer d.saveMu.Unlock()
	rooms := source.Snapshot()
	if err := d.repository.Save(rooms); err != nil {
		d.log.Error("Failed to save rooms", "error", err)
		return
	}
	d.log.Debug("Rooms saved", "rooms", len(rooms))
}
