package bot

import (
	"fmt"
	"strings"
)

// Strategy names accepted by NewBrain.
const (
	StrategyFirst   = "first"
	StrategyPegging = "pegging"
)

// NewBrain creates a new autopilot brain for the named strategy.
func NewBrain(name string) (Brain, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyFirst:
		return &FirstBot{}, nil
	case "", StrategyPegging:
		return &PeggingBot{Tuning: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot strategy: %s", name)
	}
}
