package nakama

import (
	"encoding/json"
	"errors"
	"fmt"

	"cribbage/internal/app"
	"cribbage/internal/ports"

	"github.com/heroiclabs/nakama-common/rtapi"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoMatch        = errors.New("not joined to a match")
)

// toEnvelope wraps an outbound command for the realtime socket. Lobby
// join/leave map onto Nakama match join/leave; every other command is match
// data addressed to matchID.
func toEnvelope(msg ports.Message, matchID string) (*rtapi.Envelope, error) {
	switch msg.Kind {
	case app.CommandJoinLobby:
		var p app.JoinLobbyPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", msg.Kind, err)
		}
		if p.LobbyID == "" {
			return nil, fmt.Errorf("%s: lobby id is required", msg.Kind)
		}
		return &rtapi.Envelope{Message: &rtapi.Envelope_MatchJoin{MatchJoin: &rtapi.MatchJoin{
			Id:       &rtapi.MatchJoin_MatchId{MatchId: p.LobbyID},
			Metadata: map[string]string{MetadataPlayerID: p.PlayerID},
		}}}, nil

	case app.CommandLeaveLobby:
		if matchID == "" {
			return nil, ErrNoMatch
		}
		return &rtapi.Envelope{Message: &rtapi.Envelope_MatchLeave{MatchLeave: &rtapi.MatchLeave{
			MatchId: matchID,
		}}}, nil
	}

	op, ok := commandOps[msg.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, msg.Kind)
	}
	return &rtapi.Envelope{Message: &rtapi.Envelope_MatchDataSend{MatchDataSend: &rtapi.MatchDataSend{
		MatchId:  matchID,
		OpCode:   op,
		Data:     msg.Payload,
		Reliable: true,
	}}}, nil
}

// fromMatchData maps inbound match data onto a message kind. ok is false for
// op codes the client does not understand.
func fromMatchData(data *rtapi.MatchData) (ports.Message, bool) {
	kind, ok := messageKinds[data.GetOpCode()]
	if !ok {
		return ports.Message{}, false
	}
	return ports.Message{Kind: kind, Payload: data.GetData()}, true
}

func heartbeatEnvelope() *rtapi.Envelope {
	return &rtapi.Envelope{Message: &rtapi.Envelope_Ping{Ping: &rtapi.Ping{}}}
}
