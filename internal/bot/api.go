package bot

import (
	"cribbage/internal/domain"
)

// Move represents the decision made by the autopilot.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Situation is what a Brain sees when asked for a move.
type Situation struct {
	PlayerID string
	Decision domain.Decision
	// Hand is the cards the decision may draw from: the dealt hand for a
	// discard, the unplayed pegging hand for a card play.
	Hand  []domain.Card
	Stack []domain.Card
}

// Brain is the interface that all autopilot strategies must implement.
type Brain interface {
	CalculateMove(s Situation) (Move, error)
}
