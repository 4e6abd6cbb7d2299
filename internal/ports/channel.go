package ports

import "context"

// Message is one frame exchanged with the authority. Kind names the message
// (e.g. "gameStateChange", "discardResponse"); Payload is its JSON body.
type Message struct {
	Kind    string
	Payload []byte
}

// Channel is an open, ordered, bidirectional connection to the authority.
type Channel interface {
	// Send writes one message. It fails once the channel is closed.
	Send(ctx context.Context, msg Message) error

	// Messages delivers inbound messages in arrival order. It is closed when
	// the channel disconnects.
	Messages() <-chan Message

	// Done is closed when the channel has disconnected for any reason.
	Done() <-chan struct{}

	// Close tears the connection down. It is safe to call more than once.
	Close() error
}

// Dialer opens channels to the authority.
type Dialer interface {
	// Dial blocks until a channel is open or ctx is done.
	Dial(ctx context.Context) (Channel, error)
}
