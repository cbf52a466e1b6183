// Package runtime owns the live rooms of the process.
// It funnels every room mutation through a per-room lock and leaves the
// game rules to the engine package.
package runtime

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"timeline-lab/contract"
	"timeline-lab/domain"
	"timeline-lab/engine"
	"timeline-lab/errors"

	"github.com/jaevor/go-nanoid"
)

// DefaultMaxAge is the inactivity after which a room is cleaned up.
const DefaultMaxAge = 24 * time.Hour

type roomSlot struct {
	mu     sync.Mutex
	room   *domain.Room
	closed bool
}

// Registry maps room codes to rooms. Its own lock guards the map; each room
// has its own lock so unrelated rooms never serialize. Lock order is
// always registry then room.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]*roomSlot
	log       *slog.Logger
	persister contract.Persister
	now       func() time.Time
	newCode   func() string
	maxAge    time.Duration
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithCodeGenerator(gen func() string) Option {
	return func(r *Registry) { r.newCode = gen }
}

func WithMaxAge(maxAge time.Duration) Option {
	return func(r *Registry) { r.maxAge = maxAge }
}

func WithPersister(p contract.Persister) Option {
	return func(r *Registry) { r.persister = p }
}

// Stats is a point-in-time count of the registry content.
type Stats struct {
	Rooms   int
	Players int
	Playing int
}

func NewRegistry(log *slog.Logger, opts ...Option) (*Registry, error) {
	r := &Registry{
		rooms:     make(map[string]*roomSlot),
		log:       log,
		persister: noopPersister{},
		now:       time.Now,
		maxAge:    DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newCode == nil {
		// go-nanoid draws no bytes at all for lengths under 5.
		gen, err := nanoid.CustomASCII(domain.CodeAlphabet, domain.CodeLength+1)
		if err != nil {
			return nil, fmt.Errorf("room code generator: %w", err)
		}
		r.newCode = func() string { return gen()[:domain.CodeLength] }
	}
	return r, nil
}

// Restore seeds the registry with rooms loaded at startup.
func (r *Registry) Restore(rooms map[string]*domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, room := range rooms {
		code = domain.NormalizeCode(code)
		room.Code = code
		r.rooms[code] = &roomSlot{room: room}
	}
}

// CreateRoom opens a lobby with host as its only member. It cannot fail.
func (r *Registry) CreateRoom(host *domain.Player) *domain.Room {
	r.mu.Lock()
	code := r.newCode()
	for _, taken := r.rooms[code]; taken; _, taken = r.rooms[code] {
		code = r.newCode()
	}
	room := domain.NewRoom(code, host.Clone(), r.now())
	r.rooms[code] = &roomSlot{room: room}
	clone := room.Clone()
	r.mu.Unlock()

	r.log.Info("Room created", "code", code, "player_id", host.ID)
	r.schedule()
	return clone
}

func (r *Registry) JoinRoom(code string, player *domain.Player) (*domain.Room, error) {
	room, err := r.mutate(code, func(room *domain.Room) error {
		switch {
		case room.GameState != domain.Lobby:
			return errors.ErrGameAlreadyStarted
		case len(room.Players) >= domain.MaxPlayers:
			return errors.ErrRoomFull
		case room.HasPlayer(player.ID):
			return errors.ErrAlreadyJoined
		}
		room.Players = append(room.Players, player.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("Player joined room", "code", room.Code, "player_id", player.ID)
	return room, nil
}

// LeaveRoom removes playerID from the room. It returns the updated room, or
// false when the room is unknown or was deleted because it became empty.
// Leaving twice is a no-op.
func (r *Registry) LeaveRoom(code string, playerID string) (*domain.Room, bool) {
	code = domain.NormalizeCode(code)
	slot, ok := r.slot(code)
	if !ok {
		return nil, false
	}

	slot.mu.Lock()
	if slot.closed {
		slot.mu.Unlock()
		return nil, false
	}
	if !slot.room.RemovePlayer(playerID) {
		clone := slot.room.Clone()
		slot.mu.Unlock()
		return clone, true
	}
	if slot.room.IsEmpty() {
		slot.closed = true
		slot.mu.Unlock()
		r.drop(code, slot)
		r.log.Info("Room deleted, last player left", "code", code, "player_id", playerID)
		r.schedule()
		return nil, false
	}
	slot.room.Touch(r.now())
	clone := slot.room.Clone()
	slot.mu.Unlock()

	r.log.Info("Player left room", "code", code, "player_id", playerID)
	r.schedule()
	return clone, true
}

func (r *Registry) GetRoom(code string) (*domain.Room, bool) {
	slot, ok := r.slot(domain.NormalizeCode(code))
	if !ok {
		return nil, false
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.closed {
		return nil, false
	}
	return slot.room.Clone(), true
}

// GetRoomForPlayer scans every room for playerID.
func (r *Registry) GetRoomForPlayer(playerID string) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, slot := range r.rooms {
		slot.mu.Lock()
		if !slot.closed && slot.room.HasPlayer(playerID) {
			clone := slot.room.Clone()
			slot.mu.Unlock()
			return clone, true
		}
		slot.mu.Unlock()
	}
	return nil, false
}

// RenamePlayer updates the display name of a member.
func (r *Registry) RenamePlayer(code, playerID, name string) (*domain.Room, error) {
	return r.mutate(code, func(room *domain.Room) error {
		player, ok := room.Player(playerID)
		if !ok {
			return errors.ErrNotInRoom
		}
		player.Name = domain.TruncateName(name)
		return nil
	})
}

// StartGame fetches the catalog without holding the room lock, then
// re-validates the room before dealing, since it may have changed during
// the fetch.
func (r *Registry) StartGame(ctx context.Context, code string, catalog contract.Catalog) (*domain.Room, error) {
	if _, err := r.read(code, engine.CanStart); err != nil {
		return nil, err
	}

	items, err := catalog.FetchShuffledItems(ctx, domain.MinCatalogItems)
	if err != nil {
		if !goerrors.Is(err, errors.ErrCatalogUnavailable) {
			err = fmt.Errorf("%w: %v", errors.ErrCatalogUnavailable, err)
		}
		return nil, err
	}

	room, err := r.mutate(code, func(room *domain.Room) error {
		return engine.StartGame(room, items)
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("Game started", "code", room.Code, "players", len(room.Players), "deck", room.Deck.Len())
	return room, nil
}

func (r *Registry) PlaceGame(code, playerID string, position int) (*domain.Room, engine.Outcome, error) {
	var outcome engine.Outcome
	room, err := r.mutate(code, func(room *domain.Room) error {
		var err error
		outcome, err = engine.PlaceGame(room, playerID, position)
		return err
	})
	if err != nil {
		return nil, engine.Outcome{}, err
	}
	if outcome.Winner != nil {
		r.log.Info("Game ended", "code", room.Code, "winner", outcome.Winner.ID, "score", outcome.Winner.Score)
	}
	return room, outcome, nil
}

func (r *Registry) UpdateSettings(code string, cmd domain.UpdateSettingsCommand) (*domain.Room, error) {
	return r.mutate(code, func(room *domain.Room) error {
		engine.UpdateSettings(room, cmd)
		return nil
	})
}

func (r *Registry) Rematch(code string) (*domain.Room, error) {
	return r.mutate(code, engine.Rematch)
}

// CleanupOldRooms deletes every room idle for longer than the max age and
// writes the result immediately when anything was removed.
func (r *Registry) CleanupOldRooms() int {
	now := r.now()
	removed := 0

	r.mu.Lock()
	for code, slot := range r.rooms {
		slot.mu.Lock()
		if now.Sub(slot.room.LastActivity) > r.maxAge {
			slot.closed = true
			delete(r.rooms, code)
			removed++
		}
		slot.mu.Unlock()
	}
	persister := r.persister
	r.mu.Unlock()

	if removed > 0 {
		r.log.Info(fmt.Sprintf("Cleaned up %d inactive rooms", removed))
		persister.Flush()
	}
	return removed
}

// Snapshot deep-copies every live room.
func (r *Registry) Snapshot() []*domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]*domain.Room, 0, len(r.rooms))
	for _, slot := range r.rooms {
		slot.mu.Lock()
		if !slot.closed {
			rooms = append(rooms, slot.room.Clone())
		}
		slot.mu.Unlock()
	}
	return rooms
}

func (r *Registry) Stats() Stats {
	var stats Stats
	for _, room := range r.Snapshot() {
		stats.Rooms++
		stats.Players += len(room.Players)
		if room.GameState == domain.Playing {
			stats.Playing++
		}
	}
	return stats
}

func (r *Registry) slot(code string) (*roomSlot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.rooms[code]
	return slot, ok
}

func (r *Registry) drop(code string, slot *roomSlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[code] == slot {
		delete(r.rooms, code)
	}
}

// read runs check under the room lock without touching the room.
func (r *Registry) read(code string, check func(*domain.Room) error) (*domain.Room, error) {
	slot, ok := r.slot(domain.NormalizeCode(code))
	if !ok {
		return nil, errors.ErrRoomNotFound
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.closed {
		return nil, errors.ErrRoomNotFound
	}
	if err := check(slot.room); err != nil {
		return nil, err
	}
	return slot.room.Clone(), nil
}

// mutate runs fn under the room lock. On success the room is stamped,
// a save is scheduled and a copy is returned. fn must not mutate the room
// when it returns an error.
func (r *Registry) mutate(code string, fn func(*domain.Room) error) (*domain.Room, error) {
	slot, ok := r.slot(domain.NormalizeCode(code))
	if !ok {
		return nil, errors.ErrRoomNotFound
	}
	slot.mu.Lock()
	if slot.closed {
		slot.mu.Unlock()
		return nil, errors.ErrRoomNotFound
	}
	if err := fn(slot.room); err != nil {
		slot.mu.Unlock()
		return nil, err
	}
	slot.room.Touch(r.now())
	clone := slot.room.Clone()
	slot.mu.Unlock()

	r.schedule()
	return clone, nil
}

func (r *Registry) schedule() {
	r.mu.RLock()
	persister := r.persister
	r.mu.RUnlock()
	persister.Schedule()
}

type noopPersister struct{}

func (noopPersister) Schedule() {}
func (noopPersister) Flush()    {}
