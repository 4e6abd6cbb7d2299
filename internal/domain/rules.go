package domain

// MaxPeggingTotal is the count a pegging sequence may not exceed.
const MaxPeggingTotal = 31

// PeggingTotal sums the peg values of the cards on a pegging stack.
func PeggingTotal(stack []Card) int {
	total := 0
	for _, c := range stack {
		total += PegValue(c)
	}
	return total
}

// CanPlay reports whether a card can be laid on a stack without passing 31.
func CanPlay(stack []Card, c Card) bool {
	value := PegValue(c)
	return value > 0 && PeggingTotal(stack)+value <= MaxPeggingTotal
}

// LegalPlays returns the cards of hand that can be laid on stack.
func LegalPlays(hand, stack []Card) []Card {
	total := PeggingTotal(stack)
	var out []Card
	for _, c := range hand {
		value := PegValue(c)
		if value > 0 && total+value <= MaxPeggingTotal {
			out = append(out, c)
		}
	}
	return out
}

// PeggingPoints scores laying card on stack: fifteen, thirty-one, pairs and
// runs of the trailing cards. It is an estimate used for local play advice;
// the authority remains the scorer.
func PeggingPoints(stack []Card, c Card) int {
	next := append(append([]Card{}, stack...), c)
	total := PeggingTotal(next)
	points := 0
	if total == 15 || total == MaxPeggingTotal {
		points += 2
	}
	points += pairPoints(next)
	points += runPoints(next)
	return points
}

func pairPoints(stack []Card) int {
	last, err := ParseCard(stack[len(stack)-1])
	if err != nil {
		return 0
	}
	same := 1
	for i := len(stack) - 2; i >= 0; i-- {
		p, err := ParseCard(stack[i])
		if err != nil || p.Rank != last.Rank {
			break
		}
		same++
	}
	// pair 2, pair royal 6, double pair royal 12
	return same * (same - 1)
}

func runPoints(stack []Card) int {
	best := 0
	for length := 3; length <= len(stack); length++ {
		if isRun(stack[len(stack)-length:]) {
			best = length
		}
	}
	return best
}

func isRun(cards []Card) bool {
	seen := make(map[int]bool, len(cards))
	lo, hi := 14, 0
	for _, c := range cards {
		p, err := ParseCard(c)
		if err != nil || seen[p.RunValue] {
			return false
		}
		seen[p.RunValue] = true
		lo = min(lo, p.RunValue)
		hi = max(hi, p.RunValue)
	}
	return hi-lo == len(cards)-1
}
