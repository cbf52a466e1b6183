package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"timeline-lab/contract"
	"timeline-lab/domain"
	"timeline-lab/domain/event"
	"timeline-lab/errors"
	"timeline-lab/moderation"
	"timeline-lab/runtime"

	"github.com/go-playground/validator/v10"
)

// IGameService is the inbound side of a client session. Failures are
// reported to the caller as error events, never returned.
type IGameService interface {
	Connect(connID string)
	SetName(connID string, cmd domain.SetNameCommand)
	CreateRoom(connID string)
	JoinRoom(connID string, cmd domain.JoinRoomCommand)
	LeaveRoom(connID string)
	StartGame(ctx context.Context, connID string)
	PlaceGame(connID string, cmd domain.PlaceGameCommand)
	UpdateSettings(connID string, cmd domain.UpdateSettingsCommand)
	Rematch(connID string)
	Disconnect(connID string)
	Fail(connID string, err error)
}

type GameService struct {
	log         *slog.Logger
	registry    *runtime.Registry
	catalog     contract.Catalog
	broadcaster contract.Broadcaster
	moderator   *moderation.Moderator
	validate    *validator.Validate

	mu    sync.RWMutex
	names map[string]string
}

// NewGameService wires the session adapter. moderator may be nil.
func NewGameService(log *slog.Logger, registry *runtime.Registry, catalog contract.Catalog,
	broadcaster contract.Broadcaster, moderator *moderation.Moderator) *GameService {
	return &GameService{
		log:         log,
		registry:    registry,
		catalog:     catalog,
		broadcaster: broadcaster,
		moderator:   moderator,
		validate:    validator.New(),
		names:       make(map[string]string),
	}
}

func (s *GameService) Connect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[connID] = domain.DefaultPlayerName
}

func (s *GameService) SetName(connID string, cmd domain.SetNameCommand) {
	if err := s.validate.Struct(cmd); err != nil {
		s.Fail(connID, fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err))
		return
	}
	name := domain.TruncateName(cmd.Name)
	if s.moderator != nil {
		censored, words := s.moderator.Censor(name)
		if len(words) > 0 {
			s.log.Debug("Player name censored", "player_id", connID, "words", words)
		}
		name = censored
	}

	s.mu.Lock()
	s.names[connID] = name
	s.mu.Unlock()

	s.broadcaster.Emit(connID, event.NameSetEvent{ID: connID, Name: name})

	if room, ok := s.registry.GetRoomForPlayer(connID); ok {
		if updated, err := s.registry.RenamePlayer(room.Code, connID, name); err == nil {
			s.broadcaster.Publish(updated.Code, event.RoomUpdatedEvent{RoomView: updated.View()})
		}
	}
}

func (s *GameService) CreateRoom(connID string) {
	s.leaveCurrent(connID)
	room := s.registry.CreateRoom(s.player(connID))
	s.broadcaster.Subscribe(connID, room.Code)
	s.broadcaster.Emit(connID, event.RoomCreatedEvent{RoomView: room.View()})
}

func (s *GameService) JoinRoom(connID string, cmd domain.JoinRoomCommand) {
	cmd.Code = domain.NormalizeCode(cmd.Code)
	if err := s.validate.Struct(cmd); err != nil {
		s.Fail(connID, fmt.Errorf("%w: %q", errors.ErrRoomNotFound, cmd.Code))
		return
	}
	code := cmd.Code

	previous, inRoom := s.registry.GetRoomForPlayer(connID)
	if inRoom && previous.Code == code {
		s.Fail(connID, errors.ErrAlreadyJoined)
		return
	}

	room, err := s.registry.JoinRoom(code, s.player(connID))
	if err != nil {
		s.Fail(connID, err)
		return
	}
	if inRoom {
		s.leave(connID, previous.Code)
	}

	s.broadcaster.Subscribe(connID, room.Code)
	s.broadcaster.Publish(room.Code, event.RoomUpdatedEvent{RoomView: room.View()})
	s.broadcaster.Emit(connID, event.RoomJoinedEvent{RoomView: room.View()})
}

func (s *GameService) LeaveRoom(connID string) {
	room, ok := s.registry.GetRoomForPlayer(connID)
	if !ok {
		return
	}
	s.leave(connID, room.Code)
	s.broadcaster.Emit(connID, event.LeftRoomEvent{})
}

func (s *GameService) StartGame(ctx context.Context, connID string) {
	room, err := s.hostedRoom(connID)
	if err != nil {
		s.Fail(connID, err)
		return
	}
	started, err := s.registry.StartGame(ctx, room.Code, s.catalog)
	if err != nil {
		s.Fail(connID, err)
		return
	}
	s.broadcaster.Publish(started.Code, event.GameStartedEvent{RoomView: started.View()})
}

func (s *GameService) PlaceGame(connID string, cmd domain.PlaceGameCommand) {
	if err := s.validate.Struct(cmd); err != nil {
		s.Fail(connID, fmt.Errorf("%w: %d", errors.ErrInvalidPosition, cmd.Position))
		return
	}
	room, ok := s.registry.GetRoomForPlayer(connID)
	if !ok {
		s.Fail(connID, errors.ErrNotInRoom)
		return
	}

	updated, outcome, err := s.registry.PlaceGame(room.Code, connID, cmd.Position)
	if err != nil {
		s.Fail(connID, err)
		return
	}

	view := updated.View()
	s.broadcaster.Publish(updated.Code, event.GamePlacedEvent{
		PlayerID:   connID,
		PlayerName: s.name(connID),
		Result:     outcome.Result,
		Room:       view,
	})
	if outcome.Winner != nil {
		s.broadcaster.Publish(updated.Code, event.GameEndedEvent{Winner: *outcome.Winner, Room: view})
	}
}

func (s *GameService) UpdateSettings(connID string, cmd domain.UpdateSettingsCommand) {
	room, err := s.hostedRoom(connID)
	if err != nil {
		s.Fail(connID, err)
		return
	}
	updated, err := s.registry.UpdateSettings(room.Code, cmd)
	if err != nil {
		s.Fail(connID, err)
		return
	}
	s.broadcaster.Publish(updated.Code, event.RoomUpdatedEvent{RoomView: updated.View()})
}

// Rematch is open to every member of the room.
func (s *GameService) Rematch(connID string) {
	room, ok := s.registry.GetRoomForPlayer(connID)
	if !ok {
		s.Fail(connID, errors.ErrNotInRoom)
		return
	}
	updated, err := s.registry.Rematch(room.Code)
	if err != nil {
		s.Fail(connID, err)
		return
	}
	s.broadcaster.Publish(updated.Code, event.RoomUpdatedEvent{RoomView: updated.View()})
}

// Disconnect is an implicit leave. The remaining members also get a
// playerLeft notice.
func (s *GameService) Disconnect(connID string) {
	name := s.name(connID)
	if room, ok := s.registry.GetRoomForPlayer(connID); ok {
		if s.leave(connID, room.Code) {
			s.broadcaster.Publish(room.Code, event.PlayerLeftEvent{PlayerID: connID, PlayerName: name})
		}
	}

	s.mu.Lock()
	delete(s.names, connID)
	s.mu.Unlock()
}

// Fail reports err to the caller as a user facing notice.
func (s *GameService) Fail(connID string, err error) {
	s.log.Debug("Request rejected", "player_id", connID, "error", err)
	s.broadcaster.Emit(connID, event.ErrorEvent{Message: errors.UserMessage(err)})
}

// leave removes connID from code and tells the remaining members.
// It reports whether the room still exists.
func (s *GameService) leave(connID, code string) bool {
	s.broadcaster.Unsubscribe(connID, code)
	updated, ok := s.registry.LeaveRoom(code, connID)
	if ok {
		s.broadcaster.Publish(code, event.RoomUpdatedEvent{RoomView: updated.View()})
	}
	return ok
}

func (s *GameService) leaveCurrent(connID string) {
	if room, ok := s.registry.GetRoomForPlayer(connID); ok {
		s.leave(connID, room.Code)
	}
}

func (s *GameService) hostedRoom(connID string) (*domain.Room, error) {
	room, ok := s.registry.GetRoomForPlayer(connID)
	if !ok {
		return nil, errors.ErrNotInRoom
	}
	if room.Host != connID {
		return nil, errors.ErrNotHost
	}
	return room, nil
}

func (s *GameService) player(connID string) *domain.Player {
	return domain.NewPlayer(connID, s.name(connID))
}

func (s *GameService) name(connID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name, ok := s.names[connID]; ok {
		return name
	}
	return domain.DefaultPlayerName
}
