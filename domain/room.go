// Package domain contains core concepts of the timeline game.
// This file defines the Room aggregate and the invariants restored on every
// change to its player list.
package domain

import (
	"time"

	"github.com/samber/lo"
)

type GameState string

const (
	Lobby    GameState = "lobby"
	Playing  GameState = "playing"
	Finished GameState = "finished"
)

const (
	MaxPlayers          = 8
	MinPlayers          = 2
	MinCatalogItems     = 30
	DefaultWinCondition = 10
	MinWinCondition     = 5
	MaxWinCondition     = 20
)

type Settings struct {
	WinCondition int `json:"winCondition"`
}

// Winner is the snapshot of a player taken when the game ended.
type Winner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type Room struct {
	Code               string    `json:"code"`
	Host               string    `json:"host"`
	Players            []*Player `json:"players"`
	GameState          GameState `json:"gameState"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	Deck               Deck      `json:"deck"`
	CurrentGame        *Item     `json:"currentGame"`
	Settings           Settings  `json:"settings"`
	Winner             *Winner   `json:"winner"`
	LastActivity       time.Time `json:"lastActivity"`
}

func NewRoom(code string, host *Player, now time.Time) *Room {
	return &Room{
		Code:         code,
		Host:         host.ID,
		Players:      []*Player{host},
		GameState:    Lobby,
		Deck:         Deck{},
		Settings:     Settings{WinCondition: DefaultWinCondition},
		LastActivity: now,
	}
}

// ClampWinCondition forces n into [MinWinCondition, MaxWinCondition].
func ClampWinCondition(n int) int {
	return lo.Clamp(n, MinWinCondition, MaxWinCondition)
}

func (r *Room) Touch(now time.Time) {
	r.LastActivity = now
}

func (r *Room) PlayerIndex(playerID string) int {
	_, index, ok := lo.FindIndexOf(r.Players, func(p *Player) bool {
		return p.ID == playerID
	})
	if !ok {
		return -1
	}
	return index
}

func (r *Room) HasPlayer(playerID string) bool {
	return r.PlayerIndex(playerID) >= 0
}

func (r *Room) Player(playerID string) (*Player, bool) {
	return lo.Find(r.Players, func(p *Player) bool {
		return p.ID == playerID
	})
}

func (r *Room) CurrentPlayer() (*Player, bool) {
	if r.CurrentPlayerIndex < 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return nil, false
	}
	return r.Players[r.CurrentPlayerIndex], true
}

func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// RemovePlayer drops playerID and restores the host and turn-pointer
// invariants. It reports whether the player was a member.
func (r *Room) RemovePlayer(playerID string) bool {
	index := r.PlayerIndex(playerID)
	if index < 0 {
		return false
	}
	r.Players = append(r.Players[:index], r.Players[index+1:]...)
	if len(r.Players) == 0 {
		return true
	}
	if r.Host == playerID {
		r.Host = r.Players[0].ID
	}
	if r.CurrentPlayerIndex >= len(r.Players) {
		r.CurrentPlayerIndex = 0
	}
	return true
}

// Clone returns a deep copy safe to read outside the room lock.
func (r *Room) Clone() *Room {
	clone := *r
	clone.Players = lo.Map(r.Players, func(p *Player, _ int) *Player {
		return p.Clone()
	})
	clone.Deck = NewDeck(r.Deck)
	if r.CurrentGame != nil {
		clone.CurrentGame = lo.ToPtr(*r.CurrentGame)
	}
	if r.Winner != nil {
		clone.Winner = lo.ToPtr(*r.Winner)
	}
	return &clone
}
