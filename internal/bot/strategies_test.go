package bot

import (
	"errors"
	"testing"

	"cribbage/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func cards(cs ...string) []domain.Card {
	out := make([]domain.Card, len(cs))
	for i, c := range cs {
		out[i] = domain.Card(c)
	}
	return out
}

func TestFirstBot(t *testing.T) {
	tests := []struct {
		name string
		s    Situation
		want Move
	}{
		{
			name: "discard takes the first cards",
			s: Situation{
				Decision: &domain.DiscardDecision{PlayerID: "alice", Count: 2},
				Hand:     cards("KING_HEARTS", "TWO_CLUBS", "FIVE_SPADES", "ACE_CLUBS", "NINE_HEARTS", "SIX_DIAMONDS"),
			},
			want: Move{Cards: cards("KING_HEARTS", "TWO_CLUBS")},
		},
		{
			name: "play skips cards that pass 31",
			s: Situation{
				Decision: &domain.PlayCardDecision{PlayerID: "alice"},
				Hand:     cards("KING_SPADES", "SIX_HEARTS", "TWO_CLUBS"),
				Stack:    cards("KING_HEARTS", "TEN_CLUBS", "FIVE_DIAMONDS"),
			},
			want: Move{Cards: cards("SIX_HEARTS")},
		},
		{
			name: "go when nothing fits",
			s: Situation{
				Decision: &domain.PlayCardDecision{PlayerID: "alice"},
				Hand:     cards("FIVE_CLUBS"),
				Stack:    cards("KING_HEARTS", "KING_CLUBS", "EIGHT_DIAMONDS"),
			},
			want: Move{Pass: true},
		},
		{
			name: "continue sends nothing",
			s:    Situation{Decision: &domain.ContinueDecision{PlayerID: "alice"}},
			want: Move{},
		},
	}

	bot := &FirstBot{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bot.CalculateMove(tt.s)
			if err != nil {
				t.Fatalf("CalculateMove failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("move mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPeggingBotPlay(t *testing.T) {
	tests := []struct {
		name  string
		hand  []domain.Card
		stack []domain.Card
		want  domain.Card
	}{
		{name: "makes fifteen", hand: cards("KING_SPADES", "FIVE_CLUBS", "TWO_CLUBS"), stack: cards("TEN_HEARTS"), want: "FIVE_CLUBS"},
		{name: "pairs", hand: cards("TWO_SPADES", "NINE_CLUBS"), stack: cards("NINE_HEARTS"), want: "NINE_CLUBS"},
		{name: "makes thirty-one", hand: cards("FOUR_CLUBS", "FIVE_SPADES"), stack: cards("KING_HEARTS", "QUEEN_HEARTS", "SIX_CLUBS"), want: "FIVE_SPADES"},
		{name: "avoids leaving twenty-one", hand: cards("KING_SPADES", "THREE_CLUBS"), stack: cards("TEN_HEARTS", "ACE_CLUBS"), want: "THREE_CLUBS"},
		{name: "sheds the higher card on a tie", hand: cards("TWO_CLUBS", "NINE_HEARTS"), want: "NINE_HEARTS"},
	}

	bot := &PeggingBot{Tuning: DefaultTuning}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bot.CalculateMove(Situation{
				Decision: &domain.PlayCardDecision{PlayerID: "alice"},
				Hand:     tt.hand,
				Stack:    tt.stack,
			})
			if err != nil {
				t.Fatalf("CalculateMove failed: %v", err)
			}
			if got.Pass || len(got.Cards) != 1 || got.Cards[0] != tt.want {
				t.Fatalf("played %+v, want %s", got, tt.want)
			}
		})
	}
}

func TestPeggingBotGoWhenBlocked(t *testing.T) {
	bot := &PeggingBot{Tuning: DefaultTuning}
	got, err := bot.CalculateMove(Situation{
		Decision: &domain.PlayCardDecision{PlayerID: "alice"},
		Hand:     cards("NINE_CLUBS"),
		Stack:    cards("KING_HEARTS", "KING_CLUBS", "EIGHT_DIAMONDS"),
	})
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if !got.Pass {
		t.Fatalf("expected a go, got %+v", got)
	}
}

func TestPeggingBotDiscardKeepsFivesAndPairs(t *testing.T) {
	bot := &PeggingBot{Tuning: DefaultTuning}
	got, err := bot.CalculateMove(Situation{
		Decision: &domain.DiscardDecision{PlayerID: "alice", Count: 2},
		Hand:     cards("FIVE_CLUBS", "FIVE_HEARTS", "KING_SPADES", "ACE_CLUBS", "TWO_DIAMONDS", "NINE_SPADES"),
	})
	if err != nil {
		t.Fatalf("CalculateMove failed: %v", err)
	}
	if diff := cmp.Diff(cards("ACE_CLUBS", "TWO_DIAMONDS"), got.Cards); diff != "" {
		t.Fatalf("discard mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscardShortHand(t *testing.T) {
	for _, b := range []Brain{&FirstBot{}, &PeggingBot{Tuning: DefaultTuning}} {
		_, err := b.CalculateMove(Situation{
			Decision: &domain.DiscardDecision{PlayerID: "alice", Count: 2},
			Hand:     cards("FIVE_CLUBS"),
		})
		if !errors.Is(err, ErrShortHand) {
			t.Fatalf("%T: err = %v, want ErrShortHand", b, err)
		}
	}
}

func TestNewBrain(t *testing.T) {
	tests := []struct {
		name    string
		want    Brain
		wantErr bool
	}{
		{name: "first", want: &FirstBot{}},
		{name: "PEGGING", want: &PeggingBot{Tuning: DefaultTuning}},
		{name: "", want: &PeggingBot{Tuning: DefaultTuning}},
		{name: "god", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NewBrain(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("NewBrain(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewBrain(%q): %v", tt.name, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("NewBrain(%q) mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}
