package app

import (
	"encoding/json"
	"fmt"

	"cribbage/internal/domain"
	"cribbage/internal/ports"
	"cribbage/internal/telemetry"
)

// Handle applies one inbound message. It is the single entry point for
// authority traffic; failures are logged and counted, never returned.
func (c *Client) Handle(msg ports.Message) {
	c.mu.Lock()
	outcome, err := c.apply(msg)
	c.mu.Unlock()

	if err != nil {
		c.logger.WithField("kind", msg.Kind).Error("Ingest: %v", err)
		outcome = telemetry.OutcomeInvalid
	}
	c.metrics.ObserveInbound(msg.Kind, outcome)
	if outcome == telemetry.OutcomeApplied {
		c.notify()
	}
}

// apply routes msg by kind. Must be called with c.mu held.
func (c *Client) apply(msg ports.Message) (string, error) {
	switch msg.Kind {
	case KindGameStateChange:
		var snap domain.Snapshot
		if err := decode(msg, &snap); err != nil {
			return "", err
		}
		c.state.snapshot = &snap
		c.state.stale = false
		return telemetry.OutcomeApplied, nil

	case KindGameEvent:
		var ev domain.GameEvent
		if err := decode(msg, &ev); err != nil {
			return "", err
		}
		c.state.window.Append(ev)
		if ev.StartsRound() {
			c.state.ledger = nil
		}
		return telemetry.OutcomeApplied, nil

	case KindCurrentRoundGameEvents:
		var events []domain.GameEvent
		if err := decode(msg, &events); err != nil {
			return "", err
		}
		c.state.window.Replace(events)
		return telemetry.OutcomeApplied, nil

	case KindGameOver:
		var p GameOverPayload
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		c.state.winnerID = p.WinnerID
		c.state.pending = nil
		c.state.selection = nil
		c.logger.Info("Ingest: game over, winner %s", p.WinnerID)
		return telemetry.OutcomeApplied, nil

	case KindGameStart:
		var p GameStartPayload
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		c.state.resetRound()
		c.state.gameID = p.GameID
		c.state.roster = p.Roster
		c.state.disconnected = make(map[string]bool)
		c.confirmLoginLocked()
		c.logger.Info("Ingest: game %s started with %d players", p.GameID, len(p.Roster))
		return telemetry.OutcomeApplied, nil

	case KindRequestMakeMove:
		var p MakeMoveRequest
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		return c.offer(&domain.PlayCardDecision{
			PlayerID:    p.PlayerID,
			PeggingHand: p.PeggingHand,
			PlayedCards: p.PlayedCards,
		}), nil

	case KindDiscardRequest:
		var p DiscardRequest
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		if p.NumberToDiscard <= 0 {
			return "", fmt.Errorf("discard request for %s asks for %d cards", p.PlayerID, p.NumberToDiscard)
		}
		return c.offer(&domain.DiscardDecision{PlayerID: p.PlayerID, Count: p.NumberToDiscard}), nil

	case KindContinueRequest:
		var p ContinueRequest
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		return c.offer(&domain.ContinueDecision{PlayerID: p.PlayerID, Description: p.Description}), nil

	case KindWaitingForPlayer:
		var p WaitingForPlayer
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		c.state.waiting = &p
		return telemetry.OutcomeApplied, nil

	case KindConnectedPlayers:
		var roster domain.Roster
		if err := decode(msg, &roster); err != nil {
			return "", err
		}
		c.state.roster = roster
		for id := range c.state.disconnected {
			if roster.Contains(id) {
				delete(c.state.disconnected, id)
			}
		}
		c.confirmLoginLocked()
		return telemetry.OutcomeApplied, nil

	case KindPlayAgainVotes:
		var ids []string
		if err := decode(msg, &ids); err != nil {
			return "", err
		}
		c.state.votes = ids
		return telemetry.OutcomeApplied, nil

	case KindPlayerDisconnected:
		var p PlayerDisconnectedPayload
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		c.state.disconnected[p.PlayerID] = true
		c.logger.Info("Ingest: player %s disconnected", p.PlayerID)
		return telemetry.OutcomeApplied, nil

	case KindReconnectInfo:
		var p ReconnectInfo
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		if !c.session.resolveReconnect(p) {
			c.logger.Debug("Ingest: reconnectInfo with no outstanding query")
			return telemetry.OutcomeIgnored, nil
		}
		return telemetry.OutcomeApplied, nil

	case KindActiveLobbies:
		var p ActiveLobbiesPayload
		if err := decode(msg, &p); err != nil {
			return "", err
		}
		c.state.lobbies = p.LobbyIDs
		return telemetry.OutcomeApplied, nil

	default:
		c.logger.Warn("Ingest: unknown message kind %q", msg.Kind)
		return telemetry.OutcomeIgnored, nil
	}
}

// offer installs d as the pending decision when it targets the local player.
// Requests for anyone else leave state untouched.
func (c *Client) offer(d domain.Decision) string {
	local := c.session.PlayerID()
	if local == "" || d.Target() != local {
		c.logger.Warn("Ingest: ignoring %s request for %s (local %q)", d.Kind(), d.Target(), local)
		return telemetry.OutcomeIgnored
	}
	c.state.pending = d
	if pc, ok := d.(*domain.PlayCardDecision); ok {
		c.state.ledger = pc
	} else {
		// The ledger belongs to the trick in progress; any other request ends it.
		c.state.ledger = nil
	}
	c.state.selection = nil
	c.logger.Debug("Ingest: %s decision pending for %s", d.Kind(), local)
	return telemetry.OutcomeApplied
}

func (c *Client) confirmLoginLocked() {
	c.session.confirmLogin(c.state.roster)
}

func decode(msg ports.Message, v interface{}) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Kind, err)
	}
	return nil
}
