package errors

import (
	goerrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrGameAlreadyStarted = fmt.Errorf("game already started")
	ErrRoomFull           = fmt.Errorf("room is full")
	ErrAlreadyJoined      = fmt.Errorf("player already joined")
	ErrNotEnoughPlayers   = fmt.Errorf("not enough players")
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	ErrRoomNotPlaying     = fmt.Errorf("room is not playing")
	ErrNotYourTurn        = fmt.Errorf("not your turn")
	ErrInvalidPosition    = fmt.Errorf("invalid position")
	ErrNotHost            = fmt.Errorf("only the host can do this")
	ErrNoCurrentItem      = fmt.Errorf("no current item")

	ErrNotInRoom      = fmt.Errorf("player is not in a room")
	ErrInvalidRequest = fmt.Errorf("invalid request")
	ErrRateLimited    = fmt.Errorf("rate limited")
)

var userMessages = []struct {
	err     error
	message string
}{
	{ErrRoomNotFound, "Room not found"},
	{ErrGameAlreadyStarted, "Game already in progress"},
	{ErrRoomFull, "Room is full (max. 8 players)"},
	{ErrAlreadyJoined, "You are already in this room"},
	{ErrNotEnoughPlayers, "At least 2 players are required"},
	{ErrCatalogUnavailable, "Not enough games loaded yet, please wait..."},
	{ErrRoomNotPlaying, "Game is not running"},
	{ErrNotYourTurn, "It is not your turn"},
	{ErrInvalidPosition, "Invalid position"},
	{ErrNotHost, "Only the host can do this"},
	{ErrNoCurrentItem, "No game to place"},
	{ErrNotInRoom, "You are not in a room"},
	{ErrInvalidRequest, "Invalid request"},
	{ErrRateLimited, "Slow down"},
}

// UserMessage returns the notice shown to a client for err.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if goerrors.Is(err, m.err) {
			return m.message
		}
	}
	return "Something went wrong"
}
