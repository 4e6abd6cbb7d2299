package app

import (
	"context"
	"fmt"
	"sync"

	"cribbage/internal/domain"
	"cribbage/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ConnectionState is the lifecycle state of the channel to the authority.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("ConnectionState(%d)", int(s))
	}
}

// Session is a point-in-time view of the local identity and connection.
type Session struct {
	PlayerID   string          `json:"playerId"`
	PlayerName string          `json:"playerName"`
	State      ConnectionState `json:"-"`
	LoggedIn   bool            `json:"loggedIn"`
	LobbyID    string          `json:"lobbyId,omitempty"`
}

type reconnectResult struct {
	lobbyID string
	found   bool
	err     error
}

// SessionManager owns the connection identity and the (re)connection flow.
// It is the only writer of session fields.
type SessionManager struct {
	mu     sync.Mutex
	dialer ports.Dialer
	logger runtime.Logger

	state   ConnectionState
	channel ports.Channel

	playerID      string
	playerName    string
	loggedIn      bool
	requestedID   string
	requestedName string
	lobbyID       string

	reconnectWait chan reconnectResult
}

// NewSessionManager constructs a SessionManager with an empty identity.
func NewSessionManager(dialer ports.Dialer, logger runtime.Logger) *SessionManager {
	return &SessionManager{dialer: dialer, logger: logger}
}

// Connect opens a channel unless one is already open, in which case the open
// channel is reused. fresh reports whether a new channel was established.
func (s *SessionManager) Connect(ctx context.Context) (ch ports.Channel, fresh bool, err error) {
	s.mu.Lock()
	switch s.state {
	case Connected:
		ch = s.channel
		s.mu.Unlock()
		return ch, false, nil
	case Connecting:
		s.mu.Unlock()
		return nil, false, ErrConnectInProgress
	}
	s.state = Connecting
	s.mu.Unlock()

	s.logger.Debug("Session: dialing authority")
	ch, err = s.dialer.Dial(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Disconnected
		return nil, false, fmt.Errorf("dial authority: %w", err)
	}
	s.state = Connected
	s.channel = ch
	s.loggedIn = false
	s.logger.Info("Session: connected")
	return ch, true, nil
}

// markDisconnected records that ch went away. Signals for a channel that has
// already been replaced are ignored.
func (s *SessionManager) markDisconnected(ch ports.Channel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channel != ch {
		return false
	}
	s.state = Disconnected
	s.channel = nil
	s.loggedIn = false
	if s.reconnectWait != nil {
		s.reconnectWait <- reconnectResult{err: ErrNotConnected}
		s.reconnectWait = nil
	}
	s.logger.Warn("Session: disconnected from authority")
	return true
}

// activeChannel returns the open channel, or nil when not Connected.
func (s *SessionManager) activeChannel() ports.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Connected {
		return nil
	}
	return s.channel
}

// requestLogin records the identity a login was sent for.
func (s *SessionManager) requestLogin(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestedID = id
	s.requestedName = name
}

// confirmLogin promotes the requested identity once the roster echoes it.
func (s *SessionManager) confirmLogin(roster domain.Roster) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requestedID == "" {
		return false
	}
	entry, ok := roster.Lookup(s.requestedID)
	if !ok {
		return false
	}
	if !s.loggedIn || s.playerID != entry.ID {
		s.logger.Info("Session: login confirmed for %s", entry.ID)
	}
	s.playerID = entry.ID
	s.playerName = entry.Name
	if s.playerName == "" {
		s.playerName = s.requestedName
	}
	s.loggedIn = true
	return true
}

// loginID returns the confirmed identity, or the one a login was last sent
// for while the authority has not echoed it yet.
func (s *SessionManager) loginID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playerID != "" {
		return s.playerID
	}
	return s.requestedID
}

// PlayerID returns the confirmed local identity, or "" before login succeeds.
func (s *SessionManager) PlayerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerID
}

// State returns the current connection state.
func (s *SessionManager) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the session fields.
func (s *SessionManager) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{
		PlayerID:   s.playerID,
		PlayerName: s.playerName,
		State:      s.state,
		LoggedIn:   s.loggedIn,
		LobbyID:    s.lobbyID,
	}
}

func (s *SessionManager) setLobby(lobbyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbyID = lobbyID
}

// beginReconnectCheck reserves the single outstanding reconnect query.
func (s *SessionManager) beginReconnectCheck() (<-chan reconnectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconnectWait != nil {
		return nil, ErrReconnectCheckInFlight
	}
	s.reconnectWait = make(chan reconnectResult, reconnectResultBuffer)
	return s.reconnectWait, nil
}

// endReconnectCheck releases the reservation if wait still holds it.
func (s *SessionManager) endReconnectCheck(wait <-chan reconnectResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconnectWait != nil && (<-chan reconnectResult)(s.reconnectWait) == wait {
		s.reconnectWait = nil
	}
}

// resolveReconnect delivers a reconnectInfo answer to the waiting query.
func (s *SessionManager) resolveReconnect(info ReconnectInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconnectWait == nil {
		return false
	}
	res := reconnectResult{}
	if info.LobbyID != nil && *info.LobbyID != "" {
		res.lobbyID = *info.LobbyID
		res.found = true
	}
	s.reconnectWait <- res
	s.reconnectWait = nil
	return true
}

// Close tears down the open channel, if any.
func (s *SessionManager) Close() error {
	s.mu.Lock()
	ch := s.channel
	s.mu.Unlock()
	if ch == nil {
		return nil
	}
	return ch.Close()
}
