// Package domain contains core concepts of the timeline game.
// This file defines catalog items, timeline entries and the draw pile.
// Items are immutable once loaded from the catalog.
package domain

// Item is a catalog entry placed by year. Year may be negative (BCE).
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Year  int    `json:"year"`
	Image string `json:"image,omitempty"`
}

// TimelineEntry is an item placed in a player's timeline.
type TimelineEntry struct {
	Item
	Revealed bool `json:"revealed"`
}

func Reveal(item Item) TimelineEntry {
	return TimelineEntry{Item: item, Revealed: true}
}

// Deck is the remaining draw pile. Draws are taken from the end.
type Deck []Item

func NewDeck(items []Item) Deck {
	deck := make(Deck, len(items))
	copy(deck, items)
	return deck
}

// Pop removes and returns the last item of the deck.
func (d *Deck) Pop() (Item, bool) {
	n := len(*d)
	if n == 0 {
		return Item{}, false
	}
	item := (*d)[n-1]
	*d = (*d)[:n-1]
	return item, true
}

func (d Deck) Len() int {
	return len(d)
}
