package domain

// DecisionKind names the kind of input the authority is asking for.
type DecisionKind string

const (
	DecisionDiscard  DecisionKind = "DISCARD"
	DecisionPlayCard DecisionKind = "PLAY_CARD"
	DecisionContinue DecisionKind = "CONTINUE"
)

// PlayedCard is one entry of the running ledger of the trick in progress.
type PlayedCard struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// Decision is a request for input addressed to one player. It is a closed set:
// *DiscardDecision, *PlayCardDecision or *ContinueDecision. A nil Decision
// means nothing is pending.
type Decision interface {
	Kind() DecisionKind
	Target() string
	decision()
}

// DiscardDecision asks the player to send Count cards to the crib.
type DiscardDecision struct {
	PlayerID string
	Count    int
}

// PlayCardDecision asks the player to lay one card, or pass ("go").
type PlayCardDecision struct {
	PlayerID    string
	PeggingHand []Card
	PlayedCards []PlayedCard
}

// ContinueDecision asks the player to acknowledge before play proceeds.
type ContinueDecision struct {
	PlayerID    string
	Description string
}

func (d *DiscardDecision) Kind() DecisionKind  { return DecisionDiscard }
func (d *PlayCardDecision) Kind() DecisionKind { return DecisionPlayCard }
func (d *ContinueDecision) Kind() DecisionKind { return DecisionContinue }

func (d *DiscardDecision) Target() string  { return d.PlayerID }
func (d *PlayCardDecision) Target() string { return d.PlayerID }
func (d *ContinueDecision) Target() string { return d.PlayerID }

func (*DiscardDecision) decision()  {}
func (*PlayCardDecision) decision() {}
func (*ContinueDecision) decision() {}

// Arity is the exact number of selected cards a response requires.
func Arity(d Decision) int {
	switch d := d.(type) {
	case *DiscardDecision:
		return d.Count
	case *PlayCardDecision:
		return 1
	default:
		return 0
	}
}

// PlayedBy returns, in ledger order, the cards playerID has played in the trick.
func (d *PlayCardDecision) PlayedBy(playerID string) []Card {
	var out []Card
	for _, pc := range d.PlayedCards {
		if pc.PlayerID == playerID {
			out = append(out, pc.Card)
		}
	}
	return out
}
