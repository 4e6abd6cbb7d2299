package nakama

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"cribbage/internal/logging"
	"cribbage/internal/ports"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
)

var ErrClosed = errors.New("socket closed")

// Dialer opens realtime sockets to a Nakama server.
type Dialer struct {
	// URL is the realtime endpoint, e.g. ws://127.0.0.1:7350/ws.
	URL string
	// Token is the session token; it is passed as the token query parameter.
	Token             string
	HandshakeTimeout  time.Duration
	HeartbeatInterval time.Duration
	Logger            runtime.Logger
}

// Dial connects and starts the socket's read and write loops.
func (d *Dialer) Dial(ctx context.Context) (ports.Channel, error) {
	target, err := d.endpoint()
	if err != nil {
		return nil, err
	}

	handshake := d.HandshakeTimeout
	if handshake <= 0 {
		handshake = DefaultHandshakeTimeout
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	heartbeat := d.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}

	wsd := websocket.Dialer{HandshakeTimeout: handshake}
	conn, resp, err := wsd.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", d.URL, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", d.URL, err)
	}

	s := &socket{
		conn:      conn,
		logger:    logger,
		heartbeat: heartbeat,
		send:      make(chan []byte, sendBufferSize),
		msgs:      make(chan ports.Message, inboundQueueSize),
		done:      make(chan struct{}),
	}
	go s.readLoop()
	go s.writeLoop()
	return s, nil
}

func (d *Dialer) endpoint() (string, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if d.Token != "" {
		q := u.Query()
		q.Set("token", d.Token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// socket is one realtime connection. Inbound match data is delivered on msgs
// in arrival order; outbound frames are written by a single writer goroutine.
type socket struct {
	conn      *websocket.Conn
	logger    runtime.Logger
	heartbeat time.Duration

	send chan []byte
	msgs chan ports.Message
	done chan struct{}

	mu      sync.Mutex
	matchID string

	closed atomic.Bool
}

func (s *socket) Messages() <-chan ports.Message { return s.msgs }
func (s *socket) Done() <-chan struct{}          { return s.done }

// Send encodes msg as an envelope and queues it for the writer.
func (s *socket) Send(ctx context.Context, msg ports.Message) error {
	env, err := toEnvelope(msg, s.currentMatch())
	if err != nil {
		return err
	}
	frame, err := protojson.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.send <- frame:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	if join := env.GetMatchJoin(); join != nil {
		s.setMatch(join.GetMatchId())
	}
	if env.GetMatchLeave() != nil {
		s.setMatch("")
	}
	return nil
}

// Close tears the connection down. It is safe to call more than once.
func (s *socket) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.done)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return s.conn.Close()
}

func (s *socket) currentMatch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchID
}

func (s *socket) setMatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchID = id
}

func (s *socket) readLoop() {
	defer func() {
		close(s.msgs)
		_ = s.Close()
	}()
	s.conn.SetReadLimit(maxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.logger.Warn("Socket: read failed: %v", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		env := &rtapi.Envelope{}
		if err := protojson.Unmarshal(frame, env); err != nil {
			s.logger.Error("Socket: invalid envelope: %v", err)
			continue
		}
		if !s.dispatch(env) {
			return
		}
	}
}

// dispatch handles one envelope; it returns false once the socket is closed.
func (s *socket) dispatch(env *rtapi.Envelope) bool {
	switch msg := env.Message.(type) {
	case *rtapi.Envelope_MatchData:
		out, ok := fromMatchData(msg.MatchData)
		if !ok {
			s.logger.Warn("Socket: dropping match data with unknown op code %d", msg.MatchData.GetOpCode())
			return true
		}
		select {
		case s.msgs <- out:
			return true
		case <-s.done:
			return false
		}
	case *rtapi.Envelope_Match:
		s.setMatch(msg.Match.GetMatchId())
		s.logger.Info("Socket: joined match %s", msg.Match.GetMatchId())
	case *rtapi.Envelope_Pong:
	case *rtapi.Envelope_Error:
		s.logger.WithFields(map[string]interface{}{
			"code":    msg.Error.GetCode(),
			"context": msg.Error.GetContext(),
		}).Error("Socket: server error: %s", msg.Error.GetMessage())
	default:
		s.logger.Debug("Socket: ignoring envelope %T", env.Message)
	}
	return true
}

func (s *socket) writeLoop() {
	ticker := time.NewTicker(s.heartbeat)
	defer func() {
		ticker.Stop()
		_ = s.Close()
	}()

	ping, err := protojson.Marshal(heartbeatEnvelope())
	if err != nil {
		s.logger.Error("Socket: encode heartbeat: %v", err)
		return
	}

	for {
		select {
		case <-s.done:
			return
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.logger.Warn("Socket: write failed: %v", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
