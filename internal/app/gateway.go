package app

import (
	"context"
	"encoding/json"
	"fmt"

	"cribbage/internal/ports"
	"cribbage/internal/telemetry"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Gateway is the single choke point for outbound commands. Commands are sent
// at most once; nothing is queued or retried.
type Gateway struct {
	session *SessionManager
	logger  runtime.Logger
	metrics *telemetry.Metrics
}

func NewGateway(session *SessionManager, logger runtime.Logger, metrics *telemetry.Metrics) *Gateway {
	return &Gateway{session: session, logger: logger, metrics: metrics}
}

// Send encodes payload and writes it as a kind message. It fails with
// ErrNotConnected, without sending, unless the session is Connected.
func (g *Gateway) Send(ctx context.Context, kind string, payload interface{}) error {
	ch := g.session.activeChannel()
	if ch == nil {
		g.logger.Warn("Gateway: dropping %s, session not connected", kind)
		g.metrics.ObserveOutbound(kind, telemetry.OutcomeDropped)
		return ErrNotConnected
	}

	body := []byte("{}")
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			g.metrics.ObserveOutbound(kind, telemetry.OutcomeFailed)
			return fmt.Errorf("encode %s: %w", kind, err)
		}
		body = encoded
	}

	if err := ch.Send(ctx, ports.Message{Kind: kind, Payload: body}); err != nil {
		g.logger.Warn("Gateway: send %s failed: %v", kind, err)
		g.metrics.ObserveOutbound(kind, telemetry.OutcomeFailed)
		return fmt.Errorf("send %s: %w", kind, err)
	}
	g.logger.Debug("Gateway: sent %s", kind)
	g.metrics.ObserveOutbound(kind, telemetry.OutcomeSent)
	return nil
}
