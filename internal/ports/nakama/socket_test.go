package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/ports"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})                     {}
func (noopLogger) Info(string, ...interface{})                      {}
func (noopLogger) Warn(string, ...interface{})                      {}
func (noopLogger) Error(string, ...interface{})                     {}
func (noopLogger) WithField(string, interface{}) runtime.Logger     { return noopLogger{} }
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger { return noopLogger{} }
func (noopLogger) Fields() map[string]interface{}                   { return nil }

// fakeServer accepts one realtime socket and exposes the server side of it.
type fakeServer struct {
	t      *testing.T
	srv    *httptest.Server
	tokens chan string
	conns  chan *websocket.Conn
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		t:      t,
		tokens: make(chan string, 1),
		conns:  make(chan *websocket.Conn, 1),
	}
	upgrader := websocket.Upgrader{}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		fs.tokens <- r.URL.Query().Get("token")
		fs.conns <- conn
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeServer) url() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http") + "/ws"
}

func (fs *fakeServer) accept() *websocket.Conn {
	fs.t.Helper()
	select {
	case conn := <-fs.conns:
		fs.t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(2 * time.Second):
		fs.t.Fatalf("no connection accepted")
		return nil
	}
}

// readEnvelope returns the next non-heartbeat envelope the client wrote.
func readEnvelope(t *testing.T, conn *websocket.Conn) *rtapi.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("server read: %v", err)
		}
		env := &rtapi.Envelope{}
		if err := protojson.Unmarshal(frame, env); err != nil {
			t.Fatalf("server decode: %v", err)
		}
		if env.GetPing() != nil {
			continue
		}
		return env
	}
}

func writeEnvelope(t *testing.T, conn *websocket.Conn, env *rtapi.Envelope) {
	t.Helper()
	frame, err := protojson.Marshal(env)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func dialFake(t *testing.T, fs *fakeServer, heartbeat time.Duration) (ports.Channel, *websocket.Conn) {
	t.Helper()
	d := &Dialer{URL: fs.url(), Token: "session-token", HeartbeatInterval: heartbeat, Logger: noopLogger{}}
	ch, err := d.Dial(context.Background())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ch.Close() })
	return ch, fs.accept()
}

func TestDialPassesToken(t *testing.T) {
	fs := newFakeServer(t)
	dialFake(t, fs, time.Minute)

	if got := <-fs.tokens; got != "session-token" {
		t.Fatalf("token = %q, want session-token", got)
	}
}

func TestSendCommandAsMatchData(t *testing.T) {
	fs := newFakeServer(t)
	ch, conn := dialFake(t, fs, time.Minute)

	payload := []byte(`{"id":"alice","name":"Alice"}`)
	if err := ch.Send(context.Background(), ports.Message{Kind: app.CommandLogin, Payload: payload}); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := readEnvelope(t, conn)
	want := &rtapi.Envelope{Message: &rtapi.Envelope_MatchDataSend{MatchDataSend: &rtapi.MatchDataSend{
		OpCode:   OpLogin,
		Data:     payload,
		Reliable: true,
	}}}
	if !proto.Equal(want, got) {
		t.Fatalf("envelope = %v, want %v", got, want)
	}
}

func TestJoinAndLeaveLobby(t *testing.T) {
	fs := newFakeServer(t)
	ch, conn := dialFake(t, fs, time.Minute)

	join, _ := json.Marshal(app.JoinLobbyPayload{PlayerID: "alice", LobbyID: "lobby-1"})
	if err := ch.Send(context.Background(), ports.Message{Kind: app.CommandJoinLobby, Payload: join}); err != nil {
		t.Fatalf("join: %v", err)
	}
	env := readEnvelope(t, conn)
	mj := env.GetMatchJoin()
	if mj == nil || mj.GetMatchId() != "lobby-1" || mj.GetMetadata()[MetadataPlayerID] != "alice" {
		t.Fatalf("join envelope = %v", env)
	}

	if err := ch.Send(context.Background(), ports.Message{Kind: app.CommandStartGame, Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := readEnvelope(t, conn).GetMatchDataSend().GetMatchId(); got != "lobby-1" {
		t.Fatalf("start game match id = %q, want lobby-1", got)
	}

	if err := ch.Send(context.Background(), ports.Message{Kind: app.CommandLeaveLobby, Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if got := readEnvelope(t, conn).GetMatchLeave().GetMatchId(); got != "lobby-1" {
		t.Fatalf("leave match id = %q, want lobby-1", got)
	}

	err := ch.Send(context.Background(), ports.Message{Kind: app.CommandLeaveLobby, Payload: []byte(`{}`)})
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("second leave err = %v, want ErrNoMatch", err)
	}
}

func TestInboundMatchData(t *testing.T) {
	fs := newFakeServer(t)
	ch, conn := dialFake(t, fs, time.Minute)

	writeEnvelope(t, conn, &rtapi.Envelope{Message: &rtapi.Envelope_MatchData{MatchData: &rtapi.MatchData{OpCode: 999, Data: []byte(`{}`)}}})
	writeEnvelope(t, conn, &rtapi.Envelope{Message: &rtapi.Envelope_Pong{Pong: &rtapi.Pong{}}})
	writeEnvelope(t, conn, &rtapi.Envelope{Message: &rtapi.Envelope_Error{Error: &rtapi.Error{Code: 3, Message: "bad"}}})
	writeEnvelope(t, conn, &rtapi.Envelope{Message: &rtapi.Envelope_MatchData{MatchData: &rtapi.MatchData{
		OpCode: OpGameOver,
		Data:   []byte(`"bob"`),
	}}})

	select {
	case msg := <-ch.Messages():
		if msg.Kind != app.KindGameOver || string(msg.Payload) != `"bob"` {
			t.Fatalf("message = %s %s", msg.Kind, msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no message delivered")
	}
}

func TestMatchAckSetsMatch(t *testing.T) {
	fs := newFakeServer(t)
	ch, conn := dialFake(t, fs, time.Minute)

	writeEnvelope(t, conn, &rtapi.Envelope{Message: &rtapi.Envelope_Match{Match: &rtapi.Match{MatchId: "m-9"}}})
	// Follow with a known message so the ack has been processed once it arrives.
	writeEnvelope(t, conn, &rtapi.Envelope{Message: &rtapi.Envelope_MatchData{MatchData: &rtapi.MatchData{OpCode: OpActiveLobbies, Data: []byte(`{}`)}}})
	<-ch.Messages()

	if err := ch.Send(context.Background(), ports.Message{Kind: app.CommandPlayAgain, Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := readEnvelope(t, conn).GetMatchDataSend().GetMatchId(); got != "m-9" {
		t.Fatalf("match id = %q, want m-9", got)
	}
}

func TestHeartbeat(t *testing.T) {
	fs := newFakeServer(t)
	_, conn := dialFake(t, fs, 20*time.Millisecond)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	env := &rtapi.Envelope{}
	if err := protojson.Unmarshal(frame, env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.GetPing() == nil {
		t.Fatalf("expected ping envelope, got %v", env)
	}
}

func TestServerCloseSignalsDone(t *testing.T) {
	fs := newFakeServer(t)
	ch, conn := dialFake(t, fs, time.Minute)

	_ = conn.Close()
	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("done not signalled")
	}
	if err := ch.Send(context.Background(), ports.Message{Kind: app.CommandStartGame, Payload: []byte(`{}`)}); !errors.Is(err, ErrClosed) {
		t.Fatalf("send after close err = %v, want ErrClosed", err)
	}
}

func TestUnknownCommandRejected(t *testing.T) {
	_, err := toEnvelope(ports.Message{Kind: "shuffle"}, "")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "ws://localhost:7350/ws", want: "ws://localhost:7350/ws?token=tkn"},
		{url: "https://example.com/ws?lang=en", want: "wss://example.com/ws?lang=en&token=tkn"},
		{url: "ftp://example.com", wantErr: true},
	}
	for _, tt := range tests {
		d := &Dialer{URL: tt.url, Token: "tkn"}
		got, err := d.endpoint()
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.url, err)
		}
		if got != tt.want {
			t.Fatalf("endpoint(%s) = %s, want %s", tt.url, got, tt.want)
		}
	}
}
