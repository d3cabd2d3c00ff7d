package battle

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// IDGenerator produces unique instance ids for units and matches.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs. With a nil reader it uses the uuid package's
// default entropy source.
type UUIDGenerator struct {
	mu     sync.Mutex
	reader io.Reader
}

// NewUUIDGenerator returns a generator backed by crypto-quality randomness.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewSeededUUIDGenerator returns a generator whose ids are reproducible for a seed.
func NewSeededUUIDGenerator(seed uint64) *UUIDGenerator {
	return &UUIDGenerator{reader: rand.New(rand.NewSource(seed))}
}

func (g *UUIDGenerator) NewID() string {
	if g.reader == nil {
		return uuid.New().String()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := uuid.NewRandomFromReader(g.reader)
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SequenceIDs issues "<prefix>-1", "<prefix>-2", ...
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{prefix: prefix}
}

func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%s-%d", s.prefix, s.next)
}

// NewRand returns a seeded random source for deck shuffling.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
