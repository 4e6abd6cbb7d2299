package app

import (
	"context"
	"errors"
	"sync"

	"cribbage/internal/domain"
	"cribbage/internal/logging"
	"cribbage/internal/ports"
	"cribbage/internal/telemetry"

	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	ErrNotConnected           = errors.New("session not connected")
	ErrNotLoggedIn            = errors.New("local identity not confirmed")
	ErrConnectInProgress      = errors.New("connect already in progress")
	ErrReconnectCheckInFlight = errors.New("reconnect check already in flight")
	ErrNoPendingDecision      = errors.New("no pending decision")
	ErrSelectionArity         = errors.New("selection does not match required count")
	ErrPassNotAllowed         = errors.New("pass not allowed")
	ErrNotReady               = errors.New("state not ready")
	ErrUnknownPlayer          = errors.New("player not found")
)

// Options tunes a Client. Zero values select defaults.
type Options struct {
	// PassThreshold is the lowest pegging count at which "go" is offered.
	PassThreshold int
	// MaxPeggingTotal is the highest pegging count at which "go" is offered.
	MaxPeggingTotal int
	Logger          runtime.Logger
	Metrics         *telemetry.Metrics
}

// gameState holds every cell the authority's stream drives. Ingestion is the
// only writer, except selection (consumer) and the decision clear on send.
type gameState struct {
	snapshot *domain.Snapshot
	stale    bool
	window   domain.RoundWindow

	pending   domain.Decision
	ledger    *domain.PlayCardDecision
	selection []domain.Card

	roster       domain.Roster
	gameID       string
	winnerID     string
	waiting      *WaitingForPlayer
	votes        []string
	disconnected map[string]bool
	lobbies      []string
}

// resetRound clears everything scoped to a single game.
func (s *gameState) resetRound() {
	s.window.Clear()
	s.window.MarkReset()
	s.pending = nil
	s.ledger = nil
	s.selection = nil
	s.winnerID = ""
	s.waiting = nil
	s.votes = nil
}

// Client is the per-session context object tying the session, ingestion,
// decision state, gateway and projection together. All state cells are
// guarded by one mutex; inbound messages are applied one at a time. Responses
// are serialized by sendMu so a slow send never holds mu.
type Client struct {
	mu      sync.Mutex
	sendMu  sync.Mutex
	opts    Options
	logger  runtime.Logger
	metrics *telemetry.Metrics

	session *SessionManager
	gateway *Gateway
	state   gameState

	updates chan struct{}
}

// NewClient constructs a Client that opens channels with dialer.
func NewClient(dialer ports.Dialer, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.PassThreshold <= 0 {
		opts.PassThreshold = DefaultPassThreshold
	}
	if opts.MaxPeggingTotal <= 0 {
		opts.MaxPeggingTotal = domain.MaxPeggingTotal
	}
	session := NewSessionManager(dialer, opts.Logger)
	return &Client{
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		session: session,
		gateway: NewGateway(session, opts.Logger, opts.Metrics),
		state:   gameState{disconnected: make(map[string]bool)},
		updates: make(chan struct{}, 1),
	}
}

// Connect opens the channel, or reuses it when already connected. A fresh
// connection marks held state stale until the next full snapshot arrives.
func (c *Client) Connect(ctx context.Context) error {
	ch, fresh, err := c.session.Connect(ctx)
	if err != nil {
		c.metrics.ObserveConnection(Disconnected.String())
		return err
	}
	if !fresh {
		return nil
	}
	c.metrics.ObserveConnection(Connected.String())

	c.mu.Lock()
	c.state.stale = true
	c.mu.Unlock()

	go c.pump(ch)
	c.notify()
	return nil
}

// pump feeds inbound messages to ingestion until the channel goes away.
func (c *Client) pump(ch ports.Channel) {
	msgs := ch.Messages()
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				c.disconnected(ch)
				return
			}
			c.Handle(msg)
		case <-ch.Done():
			c.disconnected(ch)
			return
		}
	}
}

func (c *Client) disconnected(ch ports.Channel) {
	if c.session.markDisconnected(ch) {
		c.metrics.ObserveConnection(Disconnected.String())
		c.notify()
	}
}

// Close tears down the channel. The session moves to Disconnected once the
// channel reports it is gone.
func (c *Client) Close() error {
	return c.session.Close()
}

// Session returns the current identity and connection state.
func (c *Client) Session() Session {
	return c.session.Snapshot()
}

// LocalPlayerID returns the confirmed local identity.
func (c *Client) LocalPlayerID() string {
	return c.session.PlayerID()
}

// Updates delivers a signal whenever client state may have changed. Signals
// coalesce; consumers re-read what they need on each one.
func (c *Client) Updates() <-chan struct{} {
	return c.updates
}

func (c *Client) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// Login sends the local identity. It takes effect once the authority echoes
// the id back in a connectedPlayers roster.
func (c *Client) Login(ctx context.Context, name, id string) error {
	if err := c.gateway.Send(ctx, CommandLogin, LoginPayload{ID: id, Name: name}); err != nil {
		return err
	}
	c.session.requestLogin(id, name)

	// The roster may already contain us (e.g. after a reconnect).
	c.mu.Lock()
	roster := c.state.roster
	c.mu.Unlock()
	if c.session.confirmLogin(roster) {
		c.notify()
	}
	return nil
}

// StartGame asks the authority to start a game in the current lobby.
func (c *Client) StartGame(ctx context.Context) error {
	return c.gateway.Send(ctx, CommandStartGame, struct{}{})
}

// PlayAgain votes for a rematch.
func (c *Client) PlayAgain(ctx context.Context) error {
	return c.gateway.Send(ctx, CommandPlayAgain, struct{}{})
}

// JoinLobby joins lobbyID as the local player. The roster that confirms a
// login is only sent once the lobby is joined, so a sent login is enough.
func (c *Client) JoinLobby(ctx context.Context, lobbyID string) error {
	playerID := c.session.loginID()
	if playerID == "" {
		return ErrNotLoggedIn
	}
	if err := c.gateway.Send(ctx, CommandJoinLobby, JoinLobbyPayload{PlayerID: playerID, LobbyID: lobbyID}); err != nil {
		return err
	}
	c.session.setLobby(lobbyID)
	return nil
}

// Leave leaves the current lobby and drops all round-scoped state. It fails
// without local changes when the session is not connected.
func (c *Client) Leave(ctx context.Context) error {
	if err := c.gateway.Send(ctx, CommandLeaveLobby, struct{}{}); err != nil {
		return err
	}
	c.session.setLobby("")

	c.mu.Lock()
	c.state.resetRound()
	c.state.gameID = ""
	c.mu.Unlock()
	c.notify()
	return nil
}

// CheckReconnect asks whether the authority still has playerID seated and
// waits for the answer. Only one query may be outstanding; it is never sent
// implicitly by Connect.
func (c *Client) CheckReconnect(ctx context.Context, playerID string) (string, bool, error) {
	wait, err := c.session.beginReconnectCheck()
	if err != nil {
		return "", false, err
	}
	defer c.session.endReconnectCheck(wait)

	if err := c.gateway.Send(ctx, CommandCheckReconnect, CheckReconnectPayload{PlayerID: playerID}); err != nil {
		return "", false, err
	}

	select {
	case res := <-wait:
		return res.lobbyID, res.found, res.err
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
