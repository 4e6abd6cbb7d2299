package bot

import (
	"errors"
	"fmt"
	"sort"

	"cribbage/internal/domain"
)

var ErrShortHand = errors.New("hand has too few cards for the decision")

// FirstBot answers every request with the first cards it may use: the first
// cards of the hand for a discard, the first card that fits under 31 for a play.
type FirstBot struct{}

func (b *FirstBot) CalculateMove(s Situation) (Move, error) {
	switch d := s.Decision.(type) {
	case *domain.DiscardDecision:
		if len(s.Hand) < d.Count {
			return Move{}, fmt.Errorf("%w: want %d, have %d", ErrShortHand, d.Count, len(s.Hand))
		}
		return Move{Cards: append([]domain.Card{}, s.Hand[:d.Count]...)}, nil
	case *domain.PlayCardDecision:
		legal := domain.LegalPlays(s.Hand, s.Stack)
		if len(legal) == 0 {
			return Move{Pass: true}, nil
		}
		return Move{Cards: []domain.Card{legal[0]}}, nil
	default:
		return Move{}, nil
	}
}

// PeggingBot plays for immediate pegging points and keeps its strongest
// cards out of the crib.
type PeggingBot struct {
	Tuning Tuning
}

func (b *PeggingBot) CalculateMove(s Situation) (Move, error) {
	switch d := s.Decision.(type) {
	case *domain.DiscardDecision:
		return b.discard(s.Hand, d.Count)
	case *domain.PlayCardDecision:
		return b.play(s.Hand, s.Stack), nil
	default:
		return Move{}, nil
	}
}

type scoredCard struct {
	card  domain.Card
	score float64
	index int
}

func (b *PeggingBot) discard(hand []domain.Card, count int) (Move, error) {
	if len(hand) < count {
		return Move{}, fmt.Errorf("%w: want %d, have %d", ErrShortHand, count, len(hand))
	}

	scored := make([]scoredCard, len(hand))
	for i, c := range hand {
		scored[i] = scoredCard{card: c, score: b.keepValue(hand, i), index: i}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score < scored[j].score
	})

	out := make([]domain.Card, 0, count)
	for _, sc := range scored[:count] {
		out = append(out, sc.card)
	}
	return Move{Cards: out}, nil
}

// keepValue is how much hand[i] is worth holding on to.
func (b *PeggingBot) keepValue(hand []domain.Card, i int) float64 {
	card, err := domain.ParseCard(hand[i])
	if err != nil {
		return 0
	}
	value := float64(card.PegValue)
	if card.PegValue == 5 {
		value += b.Tuning.FiveKeepBonus
	}
	for j, other := range hand {
		if j == i {
			continue
		}
		o, err := domain.ParseCard(other)
		if err != nil {
			continue
		}
		if o.Rank == card.Rank {
			value += b.Tuning.PairKeepBonus
		}
		if o.PegValue+card.PegValue == 15 {
			value += b.Tuning.FifteenKeepBonus
		}
	}
	return value
}

func (b *PeggingBot) play(hand, stack []domain.Card) Move {
	legal := domain.LegalPlays(hand, stack)
	if len(legal) == 0 {
		return Move{Pass: true}
	}

	total := domain.PeggingTotal(stack)
	scored := make([]scoredCard, len(legal))
	for i, c := range legal {
		score := float64(domain.PeggingPoints(stack, c)) * b.Tuning.PointWeight
		if next := total + domain.PegValue(c); next == 5 || next == 21 {
			score -= b.Tuning.DangerPenalty
		}
		scored[i] = scoredCard{card: c, score: score, index: i}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		// Shed higher cards first when scores are equal.
		return domain.PegValue(scored[i].card) > domain.PegValue(scored[j].card)
	})
	return Move{Cards: []domain.Card{scored[0].card}}
}
