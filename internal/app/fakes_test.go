package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cribbage/internal/domain"
	"cribbage/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

type fakeChannel struct {
	mu      sync.Mutex
	sent    []ports.Message
	sendErr error
	// When block is set, Send reports on entered and then waits for block to close.
	block   chan struct{}
	entered chan struct{}

	msgs      chan ports.Message
	done      chan struct{}
	closeOnce sync.Once
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		msgs: make(chan ports.Message, 16),
		done: make(chan struct{}),
	}
}

func (f *fakeChannel) Send(ctx context.Context, msg ports.Message) error {
	if f.block != nil {
		f.entered <- struct{}{}
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	select {
	case <-f.done:
		return errors.New("channel closed")
	default:
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeChannel) Messages() <-chan ports.Message { return f.msgs }
func (f *fakeChannel) Done() <-chan struct{}          { return f.done }

func (f *fakeChannel) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

func (f *fakeChannel) Sent() []ports.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.Message(nil), f.sent...)
}

func (f *fakeChannel) SentKinds() []string {
	var kinds []string
	for _, m := range f.Sent() {
		kinds = append(kinds, m.Kind)
	}
	return kinds
}

type fakeDialer struct {
	mu       sync.Mutex
	channels []*fakeChannel
	err      error
}

func (d *fakeDialer) Dial(context.Context) (ports.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	ch := newFakeChannel()
	d.channels = append(d.channels, ch)
	return ch, nil
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.channels)
}

func (d *fakeDialer) Last() *fakeChannel {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.channels) == 0 {
		return nil
	}
	return d.channels[len(d.channels)-1]
}

// recordingLogger keeps every formatted entry by level.
type recordingLogger struct {
	mu      sync.Mutex
	entries map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: make(map[string][]string)}
}

func (l *recordingLogger) record(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[level] = append(l.entries[level], fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Debug(format string, v ...interface{}) { l.record("debug", format, v...) }
func (l *recordingLogger) Info(format string, v ...interface{})  { l.record("info", format, v...) }
func (l *recordingLogger) Warn(format string, v ...interface{})  { l.record("warn", format, v...) }
func (l *recordingLogger) Error(format string, v ...interface{}) { l.record("error", format, v...) }
func (l *recordingLogger) WithField(string, interface{}) runtime.Logger {
	return l
}
func (l *recordingLogger) WithFields(map[string]interface{}) runtime.Logger {
	return l
}
func (l *recordingLogger) Fields() map[string]interface{} { return nil }

func (l *recordingLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries[level])
}

func message(t *testing.T, kind string, payload interface{}) ports.Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s: %v", kind, err)
	}
	return ports.Message{Kind: kind, Payload: data}
}

// newLoggedInClient returns a connected client whose local identity "alice"
// has been confirmed by a roster containing alice and bob.
func newLoggedInClient(t *testing.T, opts Options) (*Client, *fakeDialer) {
	t.Helper()
	dialer := &fakeDialer{}
	c := NewClient(dialer, opts)
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := c.Login(context.Background(), "Alice", "alice"); err != nil {
		t.Fatalf("login: %v", err)
	}
	c.Handle(message(t, KindConnectedPlayers, domain.Roster{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
	}))
	if got := c.LocalPlayerID(); got != "alice" {
		t.Fatalf("local player = %q, want alice", got)
	}
	return c, dialer
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func peggingSnapshot(stack ...domain.Card) domain.Snapshot {
	return domain.Snapshot{
		ID: "g1",
		Players: []domain.Player{
			{ID: "alice", Name: "Alice", Score: 12, Hand: []domain.Card{"FIVE_CLUBS", "SIX_SPADES"}},
			{ID: "bob", Name: "Bob", Score: 9, Hand: []domain.Card{"KING_HEARTS", "TWO_CLUBS"}, IsDealer: true},
		},
		Crib:         []domain.Card{"ACE_HEARTS", "THREE_SPADES", "NINE_CLUBS", "JACK_DIAMONDS"},
		PeggingStack: stack,
		CurrentPhase: domain.PhasePegging,
	}
}
