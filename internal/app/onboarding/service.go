package onboarding

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Guest is a locally generated identity for players who supply neither an id
// nor a session token.
type Guest struct {
	ID   string
	Name string
}

// Service generates guest identities.
type Service struct {
	rng   *rand.Rand
	newID func() string
}

// NewService constructs a guest generator. rng may be nil to use a
// time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, newID: uuid.NewString}
}

// NewGuest returns a fresh identity. id and name are kept when non-empty.
func (s *Service) NewGuest(id, name string) Guest {
	if id == "" {
		id = s.newID()
	}
	if name == "" {
		name = s.FriendlyName()
	}
	return Guest{ID: id, Name: name}
}

// FriendlyName returns a readable display name such as "BravePanda4821".
func (s *Service) FriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
