package card

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// MaxCost is the highest mana cost a card may carry.
const MaxCost = 10

// Type is the rarity tier of a card.
type Type string

const (
	TypeMonster Type = "MONSTER"
	TypeElite   Type = "ELITE"
	TypeBoss    Type = "BOSS"
)

// ParseType converts a case-insensitive name into a Type. Empty input yields TypeMonster.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(TypeMonster):
		return TypeMonster, nil
	case string(TypeElite):
		return TypeElite, nil
	case string(TypeBoss):
		return TypeBoss, nil
	default:
		return "", fmt.Errorf("unknown card type %q", s)
	}
}

// Spec carries the fields used to build a Card.
type Spec struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type,omitempty"`
	Cost        int      `yaml:"cost"`
	Attack      int      `yaml:"attack"`
	Defense     int      `yaml:"defense"`
	Effects     []Effect `yaml:"effects,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Card is an immutable catalog entry. Two cards are the same card when their ids match.
type Card struct {
	id          string
	name        string
	cardType    Type
	cost        int
	attack      int
	defense     int
	effects     []Effect
	tags        []string
	description string
}

// NewCard validates spec and returns the card it describes.
func NewCard(spec Spec) (*Card, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, errors.New("card id is required")
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("card %s: name is required", id)
	}
	cardType, err := ParseType(spec.Type)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", id, err)
	}
	if spec.Cost < 0 || spec.Cost > MaxCost {
		return nil, fmt.Errorf("card %s: cost must be between 0 and %d, got %d", id, MaxCost, spec.Cost)
	}
	if spec.Attack < 0 {
		return nil, fmt.Errorf("card %s: attack must not be negative, got %d", id, spec.Attack)
	}
	if spec.Defense < 0 {
		return nil, fmt.Errorf("card %s: defense must not be negative, got %d", id, spec.Defense)
	}
	for i, effect := range spec.Effects {
		if err := effect.Validate(); err != nil {
			return nil, fmt.Errorf("card %s: effect %d: %w", id, i, err)
		}
	}

	tags := make([]string, 0, len(spec.Tags))
	for _, tag := range spec.Tags {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	return &Card{
		id:          id,
		name:        spec.Name,
		cardType:    cardType,
		cost:        spec.Cost,
		attack:      spec.Attack,
		defense:     spec.Defense,
		effects:     slices.Clone(spec.Effects),
		tags:        tags,
		description: spec.Description,
	}, nil
}

// MustCard is like NewCard but panics on invalid input. Only for static card tables.
func MustCard(spec Spec) *Card {
	c, err := NewCard(spec)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Card) ID() string          { return c.id }
func (c *Card) Name() string        { return c.name }
func (c *Card) Type() Type          { return c.cardType }
func (c *Card) Cost() int           { return c.cost }
func (c *Card) Attack() int         { return c.attack }
func (c *Card) Defense() int        { return c.defense }
func (c *Card) Description() string { return c.description }

// Effects returns a copy of the card's effects in resolution order.
func (c *Card) Effects() []Effect {
	return slices.Clone(c.effects)
}

// Tags returns a copy of the card's tags.
func (c *Card) Tags() []string {
	return slices.Clone(c.tags)
}

// Spec returns the fields the card was built from.
func (c *Card) Spec() Spec {
	return Spec{
		ID:          c.id,
		Name:        c.name,
		Type:        string(c.cardType),
		Cost:        c.cost,
		Attack:      c.attack,
		Defense:     c.defense,
		Effects:     c.Effects(),
		Tags:        c.Tags(),
		Description: c.description,
	}
}

// Equal compares cards by id.
func (c *Card) Equal(other *Card) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.id == other.id
}

// HasTag reports whether the card carries tag.
func (c *Card) HasTag(tag string) bool {
	return slices.Contains(c.tags, tag)
}

// HasAnyEffect reports whether the card has at least one effect.
func (c *Card) HasAnyEffect() bool {
	return len(c.effects) > 0
}

// HasEffect reports whether any effect of the given kind is attached.
func (c *Card) HasEffect(kind EffectKind) bool {
	for _, effect := range c.effects {
		if effect.Kind == kind {
			return true
		}
	}
	return false
}

// HasTaunt reports whether the card summons a taunt unit.
func (c *Card) HasTaunt() bool {
	return c.HasEffect(EffectTaunt)
}

// EffectsOf returns the effects of the given kind, in order.
func (c *Card) EffectsOf(kind EffectKind) []Effect {
	var result []Effect
	for _, effect := range c.effects {
		if effect.Kind == kind {
			result = append(result, effect)
		}
	}
	return result
}

func (c *Card) String() string {
	return fmt.Sprintf("[%s] %s cost=%d atk=%d def=%d", c.id, c.name, c.cost, c.attack, c.defense)
}
