package domain

// Placement is the verdict of one turn, returned whether or not the item
// was inserted.
type Placement struct {
	Correct  bool          `json:"correct"`
	Game     TimelineEntry `json:"game"`
	Position int           `json:"position"`
}

// Fits reports whether item can be inserted at position in timeline.
// Equal years are accepted on either side. Position must be in
// [0, len(timeline)].
func Fits(timeline []TimelineEntry, position int, item Item) bool {
	if position > 0 && timeline[position-1].Year > item.Year {
		return false
	}
	if position < len(timeline) && timeline[position].Year < item.Year {
		return false
	}
	return true
}

// IsSorted reports whether timeline is non-decreasing by year.
func IsSorted(timeline []TimelineEntry) bool {
	for i := 1; i < len(timeline); i++ {
		if timeline[i-1].Year > timeline[i].Year {
			return false
		}
	}
	return true
}
