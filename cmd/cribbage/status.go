package main

import (
	"errors"
	"fmt"

	"cribbage/internal/app"
	"cribbage/internal/telemetry"
)

// statusSource exposes a client on the local status surface.
type statusSource struct {
	client *app.Client
}

func (s statusSource) Health() interface{} {
	sess := s.client.Session()
	return map[string]interface{}{
		"connection": sess.State.String(),
		"session":    sess,
		"decision":   s.client.DecisionState().String(),
		"gameId":     s.client.GameID(),
	}
}

func (s statusSource) View(viewerID, targetID string) (interface{}, error) {
	view, err := s.client.Project(viewerID, targetID)
	switch {
	case errors.Is(err, app.ErrUnknownPlayer):
		return nil, fmt.Errorf("%w: %v", telemetry.ErrNotFound, err)
	case errors.Is(err, app.ErrNotReady):
		return nil, fmt.Errorf("%w: %v", telemetry.ErrUnavailable, err)
	case err != nil:
		return nil, err
	}
	return view, nil
}
