package domain

// Phase is the authority's game phase. Only PhasePegging and PhaseCounting
// change what a viewer may see; every other value falls to the default rules.
type Phase string

const (
	PhaseDealing    Phase = "DEALING"
	PhaseDiscarding Phase = "DISCARDING"
	PhaseCutting    Phase = "CUTTING"
	PhasePegging    Phase = "PEGGING"
	PhaseCounting   Phase = "COUNTING"
	PhaseEnd        Phase = "END"
)

// Player is one participant as described by a Snapshot.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Hand        []Card `json:"hand"`
	PeggingHand []Card `json:"peggingHand,omitempty"`
	PlayedCards []Card `json:"playedCards,omitempty"`
	LastScore   int    `json:"lastScore,omitempty"`
	IsDealer    bool   `json:"isDealer"`
}

// Snapshot is the full authoritative game state at one instant. A newer
// Snapshot replaces an older one wholesale.
type Snapshot struct {
	ID           string   `json:"id"`
	Players      []Player `json:"players"`
	Crib         []Card   `json:"crib"`
	PeggingStack []Card   `json:"peggingStack"`
	TurnCard     *Card    `json:"turnCard"`
	CurrentPhase Phase    `json:"currentPhase"`
	RoundNumber  int      `json:"roundNumber"`
}

// Player returns the player with the given id.
func (s *Snapshot) Player(id string) (Player, bool) {
	if s == nil {
		return Player{}, false
	}
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// DealerID returns the id of the player flagged as dealer, or "" if none is.
func (s *Snapshot) DealerID() string {
	if s == nil {
		return ""
	}
	for _, p := range s.Players {
		if p.IsDealer {
			return p.ID
		}
	}
	return ""
}

// PeggingTotal is the running count of the shared pegging stack.
func (s *Snapshot) PeggingTotal() int {
	if s == nil {
		return 0
	}
	return PeggingTotal(s.PeggingStack)
}
