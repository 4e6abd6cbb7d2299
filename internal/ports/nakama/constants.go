package nakama

import (
	"time"

	"cribbage/internal/app"
)

// Op codes for client commands and authority messages carried in match data.
const (
	// Client -> Authority
	OpLogin            int64 = 1
	OpStartGame        int64 = 2
	OpMakeMoveResponse int64 = 3
	OpDiscardResponse  int64 = 4
	OpContinueResponse int64 = 5
	OpPlayAgain        int64 = 6
	OpCheckReconnect   int64 = 9

	// Authority -> Client
	OpGameStateChange        int64 = 101
	OpGameEvent              int64 = 102
	OpGameOver               int64 = 103
	OpGameStart              int64 = 104
	OpRequestMakeMove        int64 = 105
	OpDiscardRequest         int64 = 106
	OpContinueRequest        int64 = 107
	OpWaitingForPlayer       int64 = 108
	OpConnectedPlayers       int64 = 109
	OpCurrentRoundGameEvents int64 = 110
	OpPlayAgainVotes         int64 = 111
	OpPlayerDisconnected     int64 = 112
	OpReconnectInfo          int64 = 113
	OpActiveLobbies          int64 = 114
)

// MetadataPlayerID is the match join metadata key carrying the player id.
const MetadataPlayerID = "playerId"

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	maxFrameSize     = 1 << 20
	sendBufferSize   = 64
	inboundQueueSize = 64

	DefaultHeartbeatInterval = 5 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second
)

var commandOps = map[string]int64{
	app.CommandLogin:            OpLogin,
	app.CommandStartGame:        OpStartGame,
	app.CommandMakeMoveResponse: OpMakeMoveResponse,
	app.CommandDiscardResponse:  OpDiscardResponse,
	app.CommandContinueResponse: OpContinueResponse,
	app.CommandPlayAgain:        OpPlayAgain,
	app.CommandCheckReconnect:   OpCheckReconnect,
}

var messageKinds = map[int64]string{
	OpGameStateChange:        app.KindGameStateChange,
	OpGameEvent:              app.KindGameEvent,
	OpGameOver:               app.KindGameOver,
	OpGameStart:              app.KindGameStart,
	OpRequestMakeMove:        app.KindRequestMakeMove,
	OpDiscardRequest:         app.KindDiscardRequest,
	OpContinueRequest:        app.KindContinueRequest,
	OpWaitingForPlayer:       app.KindWaitingForPlayer,
	OpConnectedPlayers:       app.KindConnectedPlayers,
	OpCurrentRoundGameEvents: app.KindCurrentRoundGameEvents,
	OpPlayAgainVotes:         app.KindPlayAgainVotes,
	OpPlayerDisconnected:     app.KindPlayerDisconnected,
	OpReconnectInfo:          app.KindReconnectInfo,
	OpActiveLobbies:          app.KindActiveLobbies,
}
