package card

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Shuffler permutes n elements through swap. *rand.Rand from golang.org/x/exp/rand
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Catalog is the read-only set of cards available to build decks from.
// It is safe for concurrent use because it never changes after construction.
type Catalog struct {
	cards []*Card
	byID  map[string]*Card
}

// NewCatalog builds a catalog from cards, preserving their order.
func NewCatalog(cards []*Card) (*Catalog, error) {
	catalog := &Catalog{
		cards: make([]*Card, 0, len(cards)),
		byID:  make(map[string]*Card, len(cards)),
	}
	for i, c := range cards {
		if c == nil {
			return nil, fmt.Errorf("catalog entry %d is nil", i)
		}
		if _, exists := catalog.byID[c.ID()]; exists {
			return nil, fmt.Errorf("duplicate card id %s", c.ID())
		}
		catalog.byID[c.ID()] = c
		catalog.cards = append(catalog.cards, c)
	}
	return catalog, nil
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// All returns every card in catalog order. The slice is a copy.
func (c *Catalog) All() []*Card {
	return slices.Clone(c.cards)
}

// Lookup finds a card by id.
func (c *Catalog) Lookup(id string) (*Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// FindByName returns the first card with the given display name.
func (c *Catalog) FindByName(name string) (*Card, bool) {
	for _, card := range c.cards {
		if card.Name() == name {
			return card, true
		}
	}
	return nil, false
}

// FindByCost returns all cards whose cost equals cost.
func (c *Catalog) FindByCost(cost int) []*Card {
	var result []*Card
	for _, card := range c.cards {
		if card.Cost() == cost {
			result = append(result, card)
		}
	}
	return result
}

// FindByMaxCost returns all cards whose cost is at most maxCost.
func (c *Catalog) FindByMaxCost(maxCost int) []*Card {
	var result []*Card
	for _, card := range c.cards {
		if card.Cost() <= maxCost {
			result = append(result, card)
		}
	}
	return result
}

// ShuffledDeck shuffles a copy of the catalog with rng and returns the first size
// cards. size is clamped into [0, Len()].
func (c *Catalog) ShuffledDeck(rng Shuffler, size int) []*Card {
	deck := slices.Clone(c.cards)
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	size = max(0, min(size, len(deck)))
	return deck[:size:size]
}

type catalogFile struct {
	Cards []Spec `yaml:"cards"`
}

// Decode reads a YAML catalog of the form `cards: [{id: ..., name: ...}, ...]`.
func Decode(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return FromSpecs(file.Cards)
}

// Encode writes the catalog in the format Decode reads.
func (c *Catalog) Encode(w io.Writer) error {
	file := catalogFile{Cards: make([]Spec, 0, len(c.cards))}
	for _, card := range c.cards {
		file.Cards = append(file.Cards, card.Spec())
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// FromSpecs validates specs and builds a catalog from them.
func FromSpecs(specs []Spec) (*Catalog, error) {
	cards := make([]*Card, 0, len(specs))
	for _, spec := range specs {
		c, err := NewCard(spec)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return NewCatalog(cards)
}
