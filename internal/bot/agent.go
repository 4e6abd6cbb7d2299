package bot

import (
	"context"
	"errors"
	"fmt"

	"cribbage/internal/domain"
	"cribbage/internal/logging"

	"github.com/heroiclabs/nakama-common/runtime"
)

var ErrPassRefused = errors.New("strategy passed but a go is not allowed")

// DecisionClient is the part of app.Client the autopilot drives.
type DecisionClient interface {
	Updates() <-chan struct{}
	LocalPlayerID() string
	Pending() domain.Decision
	Snapshot() *domain.Snapshot
	Select(cards ...domain.Card)
	CanPass() bool
	Respond(ctx context.Context) error
	Pass(ctx context.Context) error
}

// Agent answers the local player's pending decisions automatically.
type Agent struct {
	Strategy Brain
	client   DecisionClient
	logger   runtime.Logger
}

func NewAgent(client DecisionClient, strategy Brain, logger runtime.Logger) *Agent {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Agent{Strategy: strategy, client: client, logger: logger}
}

// Run acts on every update until ctx is done.
func (a *Agent) Run(ctx context.Context) error {
	a.step(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.client.Updates():
			a.step(ctx)
		}
	}
}

func (a *Agent) step(ctx context.Context) {
	if err := a.Act(ctx); err != nil {
		a.logger.Warn("Agent: %v", err)
	}
}

// Act answers the pending decision, if there is one.
func (a *Agent) Act(ctx context.Context) error {
	decision := a.client.Pending()
	if decision == nil {
		return nil
	}

	situation := a.situation(decision)
	move, err := a.Strategy.CalculateMove(situation)
	if err != nil {
		return fmt.Errorf("calculate %s move: %w", decision.Kind(), err)
	}

	if move.Pass {
		if !a.client.CanPass() {
			return ErrPassRefused
		}
		a.logger.Debug("Agent: passing at %d", domain.PeggingTotal(situation.Stack))
		return a.client.Pass(ctx)
	}

	a.client.Select(move.Cards...)
	if err := a.client.Respond(ctx); err != nil {
		return fmt.Errorf("respond to %s: %w", decision.Kind(), err)
	}
	a.logger.WithField("kind", decision.Kind()).Debug("Agent: answered with %v", move.Cards)
	return nil
}

func (a *Agent) situation(decision domain.Decision) Situation {
	snap := a.client.Snapshot()
	s := Situation{PlayerID: a.client.LocalPlayerID(), Decision: decision}
	player, _ := snap.Player(s.PlayerID)

	switch d := decision.(type) {
	case *domain.DiscardDecision:
		s.Hand = player.Hand
	case *domain.PlayCardDecision:
		s.Hand = d.PeggingHand
		if s.Hand == nil {
			s.Hand = player.PeggingHand
		}
		if snap != nil {
			s.Stack = snap.PeggingStack
		} else {
			for _, pc := range d.PlayedCards {
				s.Stack = append(s.Stack, pc.Card)
			}
		}
	}
	return s
}
