// Package domain contains core concepts of the timeline game.
// This file defines Player entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength     = 20
	DefaultPlayerName = "Player"
)

// Player is a room member. ID is the opaque connection identifier.
type Player struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Score    int             `json:"score"`
	Timeline []TimelineEntry `json:"timeline"`
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: TruncateName(name), Timeline: []TimelineEntry{}}
}

// Reset clears score and timeline, as done on game start and rematch.
func (p *Player) Reset() {
	p.Score = 0
	p.Timeline = []TimelineEntry{}
}

// Insert places entry at position. Position must already be validated.
func (p *Player) Insert(position int, entry TimelineEntry) {
	p.Timeline = append(p.Timeline, TimelineEntry{})
	copy(p.Timeline[position+1:], p.Timeline[position:])
	p.Timeline[position] = entry
}

func (p *Player) Clone() *Player {
	clone := *p
	clone.Timeline = make([]TimelineEntry, len(p.Timeline))
	copy(clone.Timeline, p.Timeline)
	return &clone
}

// TruncateName trims surrounding spaces and cuts name to MaxNameLength runes.
// An empty name falls back to DefaultPlayerName.
func TruncateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayerName
	}
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	return string([]rune(name)[:MaxNameLength])
}
