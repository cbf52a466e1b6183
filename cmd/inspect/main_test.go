package main

import (
	"bytes"
	"testing"
	"time"

	"timeline-lab/domain"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
)

func TestFilterRooms(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	old := &domain.Room{Code: "AAAAAA", GameState: domain.Lobby, LastActivity: now.Add(-time.Hour)}
	recent := &domain.Room{Code: "BBBBBB", GameState: domain.Playing, LastActivity: now}

	t.Run("sorts by most recent activity", func(t *testing.T) {
		rooms := filterRooms([]*domain.Room{old, nil, recent}, "")
		req.Len(rooms, 2)
		req.Equal("BBBBBB", rooms[0].Code)
	})

	t.Run("keeps only the requested state", func(t *testing.T) {
		rooms := filterRooms([]*domain.Room{old, recent}, domain.Lobby)
		req.Len(rooms, 1)
		req.Equal("AAAAAA", rooms[0].Code)
	})
}

func TestRender(t *testing.T) {
	req := require.New(t)
	color.Disable()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	room := &domain.Room{
		Code:      "ABC123",
		Host:      "p1",
		GameState: domain.Playing,
		Players: []*domain.Player{
			{ID: "p1", Name: "Alice", Score: 3},
			{ID: "p2", Name: "Bob", Score: 1},
		},
		Deck:         domain.Deck{{ID: "1", Name: "Catan", Year: 1995}},
		Settings:     domain.Settings{WinCondition: 10},
		LastActivity: now.Add(-90 * time.Second),
	}

	var out bytes.Buffer
	render(&out, []*domain.Room{room}, now)

	text := out.String()
	req.Contains(text, "ABC123")
	req.Contains(text, "Alice:3 Bob:1")
	req.Contains(text, "2/8")
	req.Contains(text, "1m30s")
	req.Contains(text, "1 rooms")
}
