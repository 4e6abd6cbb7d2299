package domain

import "time"

// ActionType identifies what a GameEvent records.
type ActionType string

const (
	ActionBeginPhase        ActionType = "BEGIN_PHASE"
	ActionEndPhase          ActionType = "END_PHASE"
	ActionStartRound        ActionType = "START_ROUND"
	ActionDeal              ActionType = "DEAL"
	ActionDiscard           ActionType = "DISCARD"
	ActionTurnCard          ActionType = "TURN_CARD"
	ActionPlayCard          ActionType = "PLAY_CARD"
	ActionGo                ActionType = "GO"
	ActionLastCard          ActionType = "LAST_CARD"
	ActionStartPeggingRound ActionType = "START_PEGGING_ROUND"
	ActionScoreHeels        ActionType = "SCORE_HEELS"
	ActionScoreHand         ActionType = "SCORE_HAND"
	ActionScoreCrib         ActionType = "SCORE_CRIB"
	ActionReadyForCounting  ActionType = "READY_FOR_COUNTING"
	ActionWin               ActionType = "WIN"
)

// GameEvent is an immutable record of something that happened in the game.
// Arrival order is the only ordering the client relies on.
type GameEvent struct {
	GameID      string     `json:"gameId"`
	SnapshotID  int        `json:"snapshotId"`
	Phase       Phase      `json:"phase"`
	ActionType  ActionType `json:"actionType"`
	PlayerID    string     `json:"playerId"`
	Cards       []Card     `json:"cards,omitempty"`
	ScoreChange int        `json:"scoreChange"`
	Timestamp   time.Time  `json:"timestamp"`
}

// StartsRound reports whether the event opens a new scoring round.
func (e GameEvent) StartsRound() bool {
	return e.ActionType == ActionStartRound
}
