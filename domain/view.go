package domain

import "github.com/samber/lo"

// RoomView is the sanitized room sent to clients. The year of the item in
// flight is never included.
type RoomView struct {
	Code               string       `json:"code"`
	Host               string       `json:"host"`
	Players            []PlayerView `json:"players"`
	GameState          GameState    `json:"gameState"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	CurrentGame        *HiddenItem  `json:"currentGame"`
	DeckSize           int          `json:"deckSize"`
	Winner             *Winner      `json:"winner"`
	Settings           Settings     `json:"settings"`
}

type PlayerView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Score           int             `json:"score"`
	Timeline        []TimelineEntry `json:"timeline"`
	IsCurrentPlayer bool            `json:"isCurrentPlayer"`
}

// HiddenItem is an Item whose year is withheld. Year is always nil.
type HiddenItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Year  *int   `json:"year"`
}

func (r *Room) View() RoomView {
	current, hasCurrent := r.CurrentPlayer()
	view := RoomView{
		Code:               r.Code,
		Host:               r.Host,
		GameState:          r.GameState,
		CurrentPlayerIndex: r.CurrentPlayerIndex,
		DeckSize:           r.Deck.Len(),
		Settings:           r.Settings,
	}
	view.Players = lo.Map(r.Players, func(p *Player, _ int) PlayerView {
		timeline := make([]TimelineEntry, len(p.Timeline))
		copy(timeline, p.Timeline)
		return PlayerView{
			ID:              p.ID,
			Name:            p.Name,
			Score:           p.Score,
			Timeline:        timeline,
			IsCurrentPlayer: r.GameState == Playing && hasCurrent && current.ID == p.ID,
		}
	})
	if r.CurrentGame != nil {
		view.CurrentGame = &HiddenItem{
			ID:    r.CurrentGame.ID,
			Name:  r.CurrentGame.Name,
			Image: r.CurrentGame.Image,
		}
	}
	if r.Winner != nil {
		view.Winner = lo.ToPtr(*r.Winner)
	}
	return view
}
