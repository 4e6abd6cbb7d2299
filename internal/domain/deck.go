package domain

import (
	"fmt"
	"strings"
)

// Card is a playing card in the authority's wire notation, e.g. "FIVE_CLUBS".
type Card string

// Rank is the face of a card.
type Rank string

// Suit is the suit of a card.
type Suit string

const (
	RankAce   Rank = "ACE"
	RankTwo   Rank = "TWO"
	RankThree Rank = "THREE"
	RankFour  Rank = "FOUR"
	RankFive  Rank = "FIVE"
	RankSix   Rank = "SIX"
	RankSeven Rank = "SEVEN"
	RankEight Rank = "EIGHT"
	RankNine  Rank = "NINE"
	RankTen   Rank = "TEN"
	RankJack  Rank = "JACK"
	RankQueen Rank = "QUEEN"
	RankKing  Rank = "KING"
)

const (
	SuitClubs    Suit = "CLUBS"
	SuitDiamonds Suit = "DIAMONDS"
	SuitHearts   Suit = "HEARTS"
	SuitSpades   Suit = "SPADES"
)

// ranks is ordered by run value (ace low).
var ranks = []Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

var suits = []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

// ParsedCard is the structured form of a Card.
type ParsedCard struct {
	Rank     Rank
	Suit     Suit
	RunValue int // 1..13, used for runs and ordering
	PegValue int // 1..10, used for fifteens and the pegging count
}

// ParseCard splits a card into rank and suit and derives its values.
func ParseCard(c Card) (ParsedCard, error) {
	rank, suit, ok := strings.Cut(string(c), "_")
	if !ok {
		return ParsedCard{}, fmt.Errorf("invalid card %q", c)
	}
	runValue := rankIndex(Rank(rank)) + 1
	if runValue == 0 {
		return ParsedCard{}, fmt.Errorf("invalid card rank %q", rank)
	}
	if !validSuit(Suit(suit)) {
		return ParsedCard{}, fmt.Errorf("invalid card suit %q", suit)
	}
	return ParsedCard{
		Rank:     Rank(rank),
		Suit:     Suit(suit),
		RunValue: runValue,
		PegValue: min(runValue, 10),
	}, nil
}

// PegValue returns the pegging value of a card, or 0 if the card cannot be parsed.
func PegValue(c Card) int {
	parsed, err := ParseCard(c)
	if err != nil {
		return 0
	}
	return parsed.PegValue
}

// NewCard composes a card from rank and suit.
func NewCard(r Rank, s Suit) Card {
	return Card(string(r) + "_" + string(s))
}

// NewDeck returns an ordered 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, len(ranks)*len(suits))
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, NewCard(r, s))
		}
	}
	return deck
}

func rankIndex(r Rank) int {
	for i, candidate := range ranks {
		if candidate == r {
			return i
		}
	}
	return -1
}

func validSuit(s Suit) bool {
	for _, candidate := range suits {
		if candidate == s {
			return true
		}
	}
	return false
}
