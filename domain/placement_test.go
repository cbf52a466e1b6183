package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func timeline(years ...int) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(years))
	for _, y := range years {
		entries = append(entries, Reveal(Item{Year: y}))
	}
	return entries
}

func TestFits(t *testing.T) {
	tests := []struct {
		name     string
		timeline []TimelineEntry
		position int
		year     int
		expected bool
	}{
		{"empty timeline", timeline(), 0, 1900, true},
		{"before later item", timeline(2000), 0, 1995, true},
		{"before earlier item", timeline(2000), 0, 2010, false},
		{"after earlier item", timeline(2000), 1, 2010, true},
		{"after later item", timeline(2000), 1, 1990, false},
		{"between neighbours", timeline(1990, 2010), 1, 2000, true},
		{"tie on left", timeline(1990, 2010), 1, 1990, true},
		{"tie on right", timeline(1990, 2010), 1, 2010, true},
		{"outside neighbours", timeline(1990, 2010), 1, 2020, false},
		{"negative years", timeline(-2200, 1475), 1, -500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Fits(tt.timeline, tt.position, Item{Year: tt.year}))
		})
	}
}

func TestPlayer_Insert_KeepsOrderWhenFits(t *testing.T) {
	req := require.New(t)
	years := []int{1995, 1876, 2023, 1995, -2200, 2005, 1960}
	player := NewPlayer("alice", "Alice")
	for _, y := range years {
		item := Item{Year: y}
		for pos := 0; pos <= len(player.Timeline); pos++ {
			if Fits(player.Timeline, pos, item) {
				player.Insert(pos, Reveal(item))
				break
			}
		}
		req.True(IsSorted(player.Timeline))
	}
	req.Len(player.Timeline, len(years))
}
