package app

import (
	"context"
	"fmt"

	"cribbage/internal/domain"
)

// DecisionState reports whether a response can currently be produced.
type DecisionState int

const (
	Idle DecisionState = iota
	Awaiting
)

func (s DecisionState) String() string {
	if s == Awaiting {
		return "awaiting"
	}
	return "idle"
}

// ArityError reports a selection whose size does not fit the pending decision.
type ArityError struct {
	Kind domain.DecisionKind
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s needs %d selected cards, have %d", e.Kind, e.Want, e.Got)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrSelectionArity
}

// DecisionState returns Awaiting while a decision addressed to the local
// player is pending.
func (c *Client) DecisionState() DecisionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.pending == nil {
		return Idle
	}
	return Awaiting
}

// Pending returns the outstanding decision, or nil.
func (c *Client) Pending() domain.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.pending
}

// Select replaces the local selection. Duplicate cards are collapsed.
func (c *Client) Select(cards ...domain.Card) {
	sel := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if !domain.ContainsCard(sel, card) {
			sel = append(sel, card)
		}
	}

	c.mu.Lock()
	c.state.selection = sel
	c.mu.Unlock()
	c.notify()
}

// Selection returns a copy of the local selection.
func (c *Client) Selection() []domain.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Card(nil), c.state.selection...)
}

// CanRespond reports whether Respond would pass local validation.
func (c *Client) CanRespond() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkRespondLocked() == nil
}

// CanPass reports whether the "go" affordance should be offered: a card play
// is pending, nothing is selected and the pegging count sits in the range
// where the local player may have no legal play.
func (c *Client) CanPass() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkPassLocked() == nil
}

func (c *Client) checkRespondLocked() error {
	d := c.state.pending
	if d == nil {
		return ErrNoPendingDecision
	}
	if want, got := domain.Arity(d), len(c.state.selection); want != got {
		return &ArityError{Kind: d.Kind(), Want: want, Got: got}
	}
	return nil
}

func (c *Client) checkPassLocked() error {
	if c.state.pending == nil {
		return ErrNoPendingDecision
	}
	if _, ok := c.state.pending.(*domain.PlayCardDecision); !ok {
		return ErrPassNotAllowed
	}
	if len(c.state.selection) != 0 {
		return ErrPassNotAllowed
	}
	snap := c.state.snapshot
	if snap == nil || c.state.stale || snap.CurrentPhase != domain.PhasePegging {
		return ErrPassNotAllowed
	}
	total := snap.PeggingTotal()
	if total < c.opts.PassThreshold || total > c.opts.MaxPeggingTotal {
		return ErrPassNotAllowed
	}
	return nil
}

// Respond answers the pending decision with the current selection. On
// success the decision and selection are cleared before any acknowledgement;
// on failure neither is touched.
func (c *Client) Respond(ctx context.Context) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	decision := c.state.pending
	kind, payload, err := c.responseLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.send(ctx, decision, kind, payload)
}

func (c *Client) responseLocked() (string, interface{}, error) {
	if err := c.checkRespondLocked(); err != nil {
		return "", nil, err
	}
	playerID := c.session.PlayerID()
	if playerID == "" {
		return "", nil, ErrNotLoggedIn
	}

	switch c.state.pending.(type) {
	case *domain.DiscardDecision:
		return CommandDiscardResponse, DiscardResponse{PlayerID: playerID, SelectedCards: append([]domain.Card(nil), c.state.selection...)}, nil
	case *domain.PlayCardDecision:
		card := c.state.selection[0]
		return CommandMakeMoveResponse, MakeMoveResponse{PlayerID: playerID, SelectedCard: &card}, nil
	case *domain.ContinueDecision:
		return CommandContinueResponse, ContinueResponse{PlayerID: playerID}, nil
	default:
		return "", nil, fmt.Errorf("unsupported decision %T", c.state.pending)
	}
}

// Pass answers a pending card play with "go" (a null card).
func (c *Client) Pass(ctx context.Context) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	decision := c.state.pending
	err := c.checkPassLocked()
	playerID := c.session.PlayerID()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if playerID == "" {
		return ErrNotLoggedIn
	}
	return c.send(ctx, decision, CommandMakeMoveResponse, MakeMoveResponse{PlayerID: playerID})
}

// send emits a response without holding mu, then clears the decision it
// answered. A decision that arrived during the send is left pending.
func (c *Client) send(ctx context.Context, answered domain.Decision, kind string, payload interface{}) error {
	if err := c.gateway.Send(ctx, kind, payload); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.pending == answered {
		c.clearDecisionLocked()
	}
	return nil
}

func (c *Client) clearDecisionLocked() {
	c.state.pending = nil
	c.state.selection = nil
	c.notify()
}
