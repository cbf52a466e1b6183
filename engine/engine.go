// Package engine holds the turn and placement rules of a room.
// It performs no I/O and takes no locks: callers own the room while a
// function here runs. Every function validates before it mutates.
package engine

import (
	"timeline-lab/domain"
	"timeline-lab/errors"

	"github.com/samber/lo"
)

// Outcome is the result of one resolved turn. Winner is set when the
// turn ended the game.
type Outcome struct {
	Result domain.Placement
	Winner *domain.Winner
}

// CanStart checks the room-side preconditions of StartGame.
func CanStart(room *domain.Room) error {
	if room.GameState == domain.Playing {
		return errors.ErrGameAlreadyStarted
	}
	if len(room.Players) < domain.MinPlayers {
		return errors.ErrNotEnoughPlayers
	}
	return nil
}

// StartGame deals a new game from items, which must already be shuffled.
// Each player gets one revealed item, then one more becomes the current item.
func StartGame(room *domain.Room, items []domain.Item) error {
	if err := CanStart(room); err != nil {
		return err
	}
	if len(items) < domain.MinCatalogItems || len(items) < len(room.Players)+1 {
		return errors.ErrCatalogUnavailable
	}

	deck := domain.NewDeck(items)
	for _, p := range room.Players {
		p.Reset()
		first, _ := deck.Pop()
		p.Timeline = append(p.Timeline, domain.Reveal(first))
	}
	current, _ := deck.Pop()

	room.Deck = deck
	room.CurrentGame = &current
	room.GameState = domain.Playing
	room.CurrentPlayerIndex = 0
	room.Winner = nil
	return nil
}

// PlaceGame resolves the current player's placement of the current item at
// position, then either ends the game or draws the next item and passes
// the turn.
func PlaceGame(room *domain.Room, playerID string, position int) (Outcome, error) {
	if room.GameState != domain.Playing {
		return Outcome{}, errors.ErrRoomNotPlaying
	}
	player, ok := room.CurrentPlayer()
	if !ok || player.ID != playerID {
		return Outcome{}, errors.ErrNotYourTurn
	}
	if room.CurrentGame == nil {
		return Outcome{}, errors.ErrNoCurrentItem
	}
	if position < 0 || position > len(player.Timeline) {
		return Outcome{}, errors.ErrInvalidPosition
	}

	item := *room.CurrentGame
	outcome := Outcome{Result: domain.Placement{
		Correct:  domain.Fits(player.Timeline, position, item),
		Game:     domain.Reveal(item),
		Position: position,
	}}

	if outcome.Result.Correct {
		player.Insert(position, domain.Reveal(item))
		player.Score++
		if player.Score >= room.Settings.WinCondition {
			outcome.Winner = finish(room, player)
			return outcome, nil
		}
	}

	next, ok := room.Deck.Pop()
	if !ok {
		outcome.Winner = finish(room, DeckWinner(room.Players))
		return outcome, nil
	}
	room.CurrentGame = &next
	room.CurrentPlayerIndex = (room.CurrentPlayerIndex + 1) % len(room.Players)
	return outcome, nil
}

// DeckWinner picks the highest score. Ties go to the first such player in
// turn order.
func DeckWinner(players []*domain.Player) *domain.Player {
	if len(players) == 0 {
		return nil
	}
	return lo.Reduce(players[1:], func(best *domain.Player, p *domain.Player, _ int) *domain.Player {
		if p.Score > best.Score {
			return p
		}
		return best
	}, players[0])
}

func finish(room *domain.Room, winner *domain.Player) *domain.Winner {
	room.GameState = domain.Finished
	if winner == nil {
		room.Winner = nil
		return nil
	}
	room.Winner = &domain.Winner{ID: winner.ID, Name: winner.Name, Score: winner.Score}
	return lo.ToPtr(*room.Winner)
}

// UpdateSettings applies the provided fields. Host authorization is the
// caller's job.
func UpdateSettings(room *domain.Room, cmd domain.UpdateSettingsCommand) {
	if cmd.WinCondition != nil {
		room.Settings.WinCondition = domain.ClampWinCondition(*cmd.WinCondition)
	}
}

// Rematch returns a finished or waiting room to the lobby with fresh
// players. The deck is left alone and rebuilt by the next StartGame.
func Rematch(room *domain.Room) error {
	if room.GameState == domain.Playing {
		return errors.ErrGameAlreadyStarted
	}
	room.GameState = domain.Lobby
	room.Winner = nil
	room.CurrentGame = nil
	room.CurrentPlayerIndex = 0
	for _, p := range room.Players {
		p.Reset()
	}
	return nil
}
