package card

import (
	"fmt"
	"strings"
)

// EffectKind identifies what a card effect does when the card is played.
type EffectKind int

const (
	EffectTaunt EffectKind = iota
	EffectDirectAttackPlayer
	EffectDamageToMonster
	EffectHealPlayer
	EffectBuffAttack
	EffectBuffDefense
	EffectDebuffAttack
	EffectDebuffDefense
)

var effectKindNames = map[EffectKind]string{
	EffectTaunt:              "TAUNT",
	EffectDirectAttackPlayer: "DIRECT_ATTACK_PLAYER",
	EffectDamageToMonster:    "DAMAGE_TO_MONSTER",
	EffectHealPlayer:         "HEAL_PLAYER",
	EffectBuffAttack:         "BUFF_ATTACK",
	EffectBuffDefense:        "BUFF_DEFENSE",
	EffectDebuffAttack:       "DEBUFF_ATTACK",
	EffectDebuffDefense:      "DEBUFF_DEFENSE",
}

func (k EffectKind) String() string {
	if name, ok := effectKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EFFECT_%d", int(k))
}

// Valid reports whether k is one of the declared effect kinds.
func (k EffectKind) Valid() bool {
	_, ok := effectKindNames[k]
	return ok
}

// ParseEffectKind converts a name such as "DAMAGE_TO_MONSTER" into an EffectKind.
// Matching is case-insensitive.
func ParseEffectKind(s string) (EffectKind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for kind, name := range effectKindNames {
		if name == normalized {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k EffectKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown effect kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EffectKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEffectKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsAttackRelated reports whether the kind deals damage or raises offence.
func (k EffectKind) IsAttackRelated() bool {
	switch k {
	case EffectDirectAttackPlayer, EffectDamageToMonster, EffectBuffAttack, EffectDebuffDefense:
		return true
	default:
		return false
	}
}

// IsSupportRelated reports whether the kind heals or protects.
func (k EffectKind) IsSupportRelated() bool {
	switch k {
	case EffectHealPlayer, EffectBuffDefense, EffectDebuffAttack:
		return true
	default:
		return false
	}
}

// StatusType is a lingering condition an effect may describe. The rules engine
// stores it on effects but does not resolve it.
type StatusType int

const (
	StatusNone StatusType = iota
	StatusTaunt
	StatusStunned
	StatusPoisoned
	StatusBurning
)

var statusNames = map[StatusType]string{
	StatusNone:     "NONE",
	StatusTaunt:    "TAUNT",
	StatusStunned:  "STUNNED",
	StatusPoisoned: "POISONED",
	StatusBurning:  "BURNING",
}

func (s StatusType) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", int(s))
}

// IsDebuff reports whether the status is harmful to its bearer.
func (s StatusType) IsDebuff() bool {
	switch s {
	case StatusStunned, StatusPoisoned, StatusBurning:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s StatusType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StatusType) UnmarshalText(text []byte) error {
	normalized := strings.ToUpper(strings.TrimSpace(string(text)))
	if normalized == "" {
		*s = StatusNone
		return nil
	}
	for status, name := range statusNames {
		if name == normalized {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status type %q", string(text))
}

// Effect is a single effect attached to a card. Value meaning depends on Kind:
// damage for DirectAttackPlayer and DamageToMonster, amount for the others.
type Effect struct {
	Kind        EffectKind `yaml:"kind"`
	Value       int        `yaml:"value"`
	Status      StatusType `yaml:"status,omitempty"`
	Duration    int        `yaml:"duration,omitempty"`
	Description string     `yaml:"description,omitempty"`
}

// NewEffect builds an effect with no status.
func NewEffect(kind EffectKind, value int) Effect {
	return Effect{Kind: kind, Value: value, Status: StatusNone}
}

// Validate checks the effect's fields.
func (e Effect) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown effect kind %d", int(e.Kind))
	}
	if e.Duration < 0 {
		return fmt.Errorf("effect %s: duration must not be negative, got %d", e.Kind, e.Duration)
	}
	return nil
}

func (e Effect) String() string {
	if e.Status != StatusNone {
		return fmt.Sprintf("%s(%d, %s x%d)", e.Kind, e.Value, e.Status, e.Duration)
	}
	return fmt.Sprintf("%s(%d)", e.Kind, e.Value)
}
