package event

import (
	"timeline-lab/domain"
)

type Name string

const (
	NameSet     Name = "nameSet"
	RoomCreated Name = "roomCreated"
	RoomJoined  Name = "roomJoined"
	RoomUpdated Name = "roomUpdated"
	GameStarted Name = "gameStarted"
	GamePlaced  Name = "gamePlaced"
	GameEnded   Name = "gameEnded"
	LeftRoom    Name = "leftRoom"
	PlayerLeft  Name = "playerLeft"
	Error       Name = "error"
)

// DomainEvent is an outbound message for connected clients.
type DomainEvent interface {
	EventName() Name
}

type NameSetEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (NameSetEvent) EventName() Name { return NameSet }

type RoomCreatedEvent struct{ domain.RoomView }

func (RoomCreatedEvent) EventName() Name { return RoomCreated }

type RoomJoinedEvent struct{ domain.RoomView }

func (RoomJoinedEvent) EventName() Name { return RoomJoined }

type RoomUpdatedEvent struct{ domain.RoomView }

func (RoomUpdatedEvent) EventName() Name { return RoomUpdated }

type GameStartedEvent struct{ domain.RoomView }

func (GameStartedEvent) EventName() Name { return GameStarted }

type GamePlacedEvent struct {
	PlayerID   string           `json:"playerId"`
	PlayerName string           `json:"playerName"`
	Result     domain.Placement `json:"result"`
	Room       domain.RoomView  `json:"room"`
}

func (GamePlacedEvent) EventName() Name { return GamePlaced }

type GameEndedEvent struct {
	Winner domain.Winner   `json:"winner"`
	Room   domain.RoomView `json:"room"`
}

func (GameEndedEvent) EventName() Name { return GameEnded }

type LeftRoomEvent struct{}

func (LeftRoomEvent) EventName() Name { return LeftRoom }

type PlayerLeftEvent struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (PlayerLeftEvent) EventName() Name { return PlayerLeft }

type ErrorEvent struct {
	Message string `json:"message"`
}

func (ErrorEvent) EventName() Name { return Error }
