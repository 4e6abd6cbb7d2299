package domain

// PlayerInfo identifies a connected participant.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Roster is the set of connected participants. It is replaced, never merged.
type Roster []PlayerInfo

// Contains reports whether id is in the roster.
func (r Roster) Contains(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Lookup returns the roster entry for id.
func (r Roster) Lookup(id string) (PlayerInfo, bool) {
	for _, p := range r {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// FirstOther returns the first entry whose id differs from id.
func (r Roster) FirstOther(id string) (PlayerInfo, bool) {
	for _, p := range r {
		if p.ID != id {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// RemoveCards removes the specified cards from a hand and returns the updated hand.
// Each entry of toRemove removes at most one matching card.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return append([]Card(nil), hand...)
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}

// ContainsCard reports whether c is in cards.
func ContainsCard(cards []Card, c Card) bool {
	for _, candidate := range cards {
		if candidate == c {
			return true
		}
	}
	return false
}
