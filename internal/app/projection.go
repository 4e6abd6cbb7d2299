package app

import (
	"fmt"

	"cribbage/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ScoreAnnotation describes the most recent points a player picked up.
type ScoreAnnotation struct {
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// PlayerView is what one viewer may see of one player's row.
type PlayerView struct {
	PlayerID   string           `json:"playerId"`
	Name       string           `json:"name"`
	Points     int              `json:"points"`
	IsOpponent bool             `json:"isOpponent"`
	IsDealer   bool             `json:"isDealer"`
	Phase      domain.Phase     `json:"phase"`
	Hand       []domain.Card    `json:"hand"`
	Played     []domain.Card    `json:"played"`
	Crib       []domain.Card    `json:"crib,omitempty"`
	ShowHand   bool             `json:"showHand"`
	ShowCrib   bool             `json:"showCrib"`
	LastScore  *ScoreAnnotation `json:"lastScore,omitempty"`
	HandPoints *int             `json:"handPoints,omitempty"`
	CribPoints *int             `json:"cribPoints,omitempty"`
}

// ProjectionInput holds every input Project depends on.
type ProjectionInput struct {
	Snapshot *domain.Snapshot
	// Ledger is the last card-play request addressed to the local player.
	Ledger   *domain.PlayCardDecision
	Events   []domain.GameEvent
	ViewerID string
	TargetID string
}

// Project derives TargetID's row as seen by ViewerID. It is a pure function
// of its input; logger may be nil.
//
// Pegging shows the cards the ledger records as played by the target and the
// rest of the hand. Counting reveals the hand, plus the crib on the dealer's
// row. Every other phase shows the full hand only.
func Project(in ProjectionInput, logger runtime.Logger) (PlayerView, error) {
	if in.Snapshot == nil {
		return PlayerView{}, ErrNotReady
	}
	player, ok := in.Snapshot.Player(in.TargetID)
	if !ok {
		return PlayerView{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, in.TargetID)
	}

	view := PlayerView{
		PlayerID:   player.ID,
		Name:       player.Name,
		Points:     player.Score,
		IsOpponent: in.TargetID != in.ViewerID,
		IsDealer:   player.IsDealer,
		Phase:      in.Snapshot.CurrentPhase,
		Hand:       []domain.Card{},
		Played:     []domain.Card{},
	}

	switch in.Snapshot.CurrentPhase {
	case domain.PhasePegging:
		if in.Ledger == nil {
			if logger != nil {
				logger.Error("Project: no card-play ledger during pegging for %s", in.TargetID)
			}
			break
		}
		played := in.Ledger.PlayedBy(in.TargetID)
		view.Played = append(view.Played, played...)
		view.Hand = domain.RemoveCards(player.Hand, played)
	case domain.PhaseCounting:
		view.ShowHand = true
		view.Hand = append(view.Hand, player.Hand...)
		if in.Snapshot.DealerID() == in.TargetID {
			view.ShowCrib = true
			view.Crib = append([]domain.Card{}, in.Snapshot.Crib...)
		}
	default:
		view.Hand = append(view.Hand, player.Hand...)
	}

	if ev, ok := domain.MostRecentScoreable(in.Events, in.TargetID); ok {
		view.LastScore = &ScoreAnnotation{Points: ev.ScoreChange, Description: ev.ActionType.Describe()}
	}
	if ev, ok := domain.MostRecentByAction(in.Events, in.TargetID, domain.ActionScoreHand); ok {
		points := ev.ScoreChange
		view.HandPoints = &points
	}
	if ev, ok := domain.MostRecentByAction(in.Events, in.TargetID, domain.ActionScoreCrib); ok {
		points := ev.ScoreChange
		view.CribPoints = &points
	}
	return view, nil
}

// Project derives targetID's row for viewerID from the current client state.
// It returns ErrNotReady until a snapshot has arrived on the current connection.
func (c *Client) Project(viewerID, targetID string) (PlayerView, error) {
	c.mu.Lock()
	in := ProjectionInput{
		Snapshot: c.state.snapshot,
		Ledger:   c.state.ledger,
		Events:   c.state.window.Events(),
		ViewerID: viewerID,
		TargetID: targetID,
	}
	stale := c.state.stale
	c.mu.Unlock()

	if stale {
		return PlayerView{}, ErrNotReady
	}
	if in.Snapshot != nil && in.Snapshot.CurrentPhase == domain.PhasePegging && in.Ledger == nil {
		c.metrics.ObserveAnomaly("pegging_without_ledger")
	}
	return Project(in, c.logger)
}

// Snapshot returns the last full snapshot, or nil before one arrives.
func (c *Client) Snapshot() *domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.snapshot == nil {
		return nil
	}
	snap := *c.state.snapshot
	return &snap
}

// Events returns the current round window.
func (c *Client) Events() []domain.GameEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.window.Events()
}

// PeggingTotal is the running count of the shared pegging stack.
func (c *Client) PeggingTotal() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.snapshot.PeggingTotal()
}

// WaitingOn describes whose input the authority is waiting for.
type WaitingOn struct {
	PlayerID string              `json:"playerId"`
	Name     string              `json:"name"`
	Kind     domain.DecisionKind `json:"kind"`
	IsViewer bool                `json:"isViewer"`
}

// Describe renders the waiting state as a short sentence.
func (w WaitingOn) Describe() string {
	action := domain.Humanize(string(w.Kind))
	if w.IsViewer {
		return "Your turn to " + action
	}
	return fmt.Sprintf("Waiting on %s to %s", w.Name, action)
}

// WaitingOn resolves the last waitingForPlayer message against the roster.
func (c *Client) WaitingOn(viewerID string) (WaitingOn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.waiting == nil {
		return WaitingOn{}, ErrNotReady
	}
	entry, ok := c.state.roster.Lookup(c.state.waiting.PlayerID)
	if !ok {
		c.logger.Debug("WaitingOn: %s not in roster", c.state.waiting.PlayerID)
		return WaitingOn{}, ErrNotReady
	}
	return WaitingOn{
		PlayerID: entry.ID,
		Name:     entry.Name,
		Kind:     c.state.waiting.WaitingFor,
		IsViewer: entry.ID == viewerID,
	}, nil
}

// Players pairs the viewer with the first other connected player.
func (c *Client) Players(viewerID string) (you, opponent domain.PlayerInfo, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	you, ok := c.state.roster.Lookup(viewerID)
	if !ok {
		return you, opponent, ErrNotReady
	}
	opponent, ok = c.state.roster.FirstOther(viewerID)
	if !ok {
		return you, opponent, ErrNotReady
	}
	return you, opponent, nil
}

// Roster returns the connected players.
func (c *Client) Roster() domain.Roster {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(domain.Roster(nil), c.state.roster...)
}

// Winner returns the winner id once the game is over.
func (c *Client) Winner() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.winnerID, c.state.winnerID != ""
}

// WinnerName resolves the winner against the roster. ok is false while the
// game is running or when the winner is no longer connected.
func (c *Client) WinnerName() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.winnerID == "" {
		return "", false
	}
	entry, ok := c.state.roster.Lookup(c.state.winnerID)
	if !ok {
		c.logger.Warn("WinnerName: winner %s not in roster", c.state.winnerID)
		return "", false
	}
	return entry.Name, true
}

// PlayAgainVotes returns the ids that voted for a rematch.
func (c *Client) PlayAgainVotes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.state.votes...)
}

// Disconnected reports whether the authority announced playerID as gone.
func (c *Client) Disconnected(playerID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.disconnected[playerID]
}

// Lobbies returns the last activeLobbies list.
func (c *Client) Lobbies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.state.lobbies...)
}

// GameID returns the id of the game in progress.
func (c *Client) GameID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.gameID
}
