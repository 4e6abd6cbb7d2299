package app

import (
	"bytes"
	"encoding/json"

	"cribbage/internal/domain"
)

// Inbound message kinds (authority -> client).
const (
	KindGameStateChange        = "gameStateChange"
	KindGameEvent              = "gameEvent"
	KindGameOver               = "gameOver"
	KindGameStart              = "gameStart"
	KindRequestMakeMove        = "requestMakeMove"
	KindDiscardRequest         = "discardRequest"
	KindContinueRequest        = "continueRequest"
	KindWaitingForPlayer       = "waitingForPlayer"
	KindConnectedPlayers       = "connectedPlayers"
	KindCurrentRoundGameEvents = "currentRoundGameEvents"
	KindPlayAgainVotes         = "playAgainVotes"
	KindPlayerDisconnected     = "playerDisconnected"
	KindReconnectInfo          = "reconnectInfo"
	KindActiveLobbies          = "activeLobbies"
)

// Outbound command kinds (client -> authority).
const (
	CommandLogin            = "login"
	CommandStartGame        = "startGame"
	CommandMakeMoveResponse = "makeMoveResponse"
	CommandDiscardResponse  = "discardResponse"
	CommandContinueResponse = "continueResponse"
	CommandPlayAgain        = "playAgain"
	CommandJoinLobby        = "joinLobby"
	CommandLeaveLobby       = "leaveLobby"
	CommandCheckReconnect   = "checkReconnect"
)

// GameOverPayload names the winner. The authority sends either a bare JSON
// string or an object with a winnerId field.
type GameOverPayload struct {
	WinnerID string `json:"winnerId"`
}

func (p *GameOverPayload) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &p.WinnerID)
	}
	type plain GameOverPayload
	return json.Unmarshal(data, (*plain)(p))
}

type GameStartPayload struct {
	GameID string        `json:"gameId"`
	Roster domain.Roster `json:"roster"`
}

type MakeMoveRequest struct {
	PlayerID    string              `json:"playerId"`
	PeggingHand []domain.Card       `json:"peggingHand"`
	PlayedCards []domain.PlayedCard `json:"playedCards"`
}

type DiscardRequest struct {
	PlayerID        string        `json:"playerId"`
	NumberToDiscard int           `json:"numberToDiscard"`
	Hand            []domain.Card `json:"hand,omitempty"`
}

type ContinueRequest struct {
	PlayerID    string `json:"playerId"`
	Description string `json:"description"`
}

// WaitingForPlayer names whose input the authority is currently waiting on.
type WaitingForPlayer struct {
	PlayerID   string              `json:"playerId"`
	WaitingFor domain.DecisionKind `json:"waitingFor"`
}

type PlayerDisconnectedPayload struct {
	PlayerID string `json:"playerId"`
}

// ReconnectInfo answers a checkReconnect query; LobbyID is nil when the
// authority does not know the identity as seated anywhere.
type ReconnectInfo struct {
	LobbyID *string `json:"lobbyId"`
}

type ActiveLobbiesPayload struct {
	LobbyIDs []string `json:"lobbyIds"`
}

type LoginPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MakeMoveResponse carries the played card; a nil SelectedCard means "go".
type MakeMoveResponse struct {
	PlayerID     string       `json:"playerId"`
	SelectedCard *domain.Card `json:"selectedCard"`
}

type DiscardResponse struct {
	PlayerID      string        `json:"playerId"`
	SelectedCards []domain.Card `json:"selectedCards"`
}

type ContinueResponse struct {
	PlayerID string `json:"playerId"`
}

type JoinLobbyPayload struct {
	PlayerID string `json:"playerId"`
	LobbyID  string `json:"lobbyId"`
}

type CheckReconnectPayload struct {
	PlayerID string `json:"playerId"`
}
