package targeting

import (
	"fmt"
	"strings"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
)

// TargetType represents what a card play is aimed at.
type TargetType int

const (
	// TargetTypeNone means the play has no explicit target.
	TargetTypeNone TargetType = iota
	// TargetTypeUnit targets a unit on a board.
	TargetTypeUnit
	// TargetTypeHero targets a hero.
	TargetTypeHero
)

var targetTypeNames = map[TargetType]string{
	TargetTypeNone: "NONE",
	TargetTypeUnit: "UNIT",
	TargetTypeHero: "HERO",
}

func (t TargetType) String() string {
	if name, ok := targetTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TARGET_%d", int(t))
}

// ParseTargetType converts "NONE", "UNIT" or "HERO" (any case) into a TargetType.
// An empty string is TargetTypeNone.
func ParseTargetType(s string) (TargetType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return TargetTypeNone, nil
	}
	for t, name := range targetTypeNames {
		if name == s {
			return t, nil
		}
	}
	return TargetTypeNone, fmt.Errorf("unknown target type %q", s)
}

// Target is a player's target selection for a card play. Side NoSide means
// "the opponent of whoever plays the card".
type Target struct {
	Type  TargetType
	Side  battle.Side
	Index int
}

// None is a play without a target.
func None() Target {
	return Target{Type: TargetTypeNone}
}

// Unit targets the unit at index on side's board.
func Unit(side battle.Side, index int) Target {
	return Target{Type: TargetTypeUnit, Side: side, Index: index}
}

// Hero targets side's hero.
func Hero(side battle.Side) Target {
	return Target{Type: TargetTypeHero, Side: side}
}

// ResolveSide returns the side t refers to when played by actor.
func (t Target) ResolveSide(actor battle.Side) battle.Side {
	if t.Side == battle.NoSide {
		return actor.Opponent()
	}
	return t.Side
}

func (t Target) String() string {
	switch t.Type {
	case TargetTypeUnit:
		return fmt.Sprintf("%s unit #%d", t.Side, t.Index)
	case TargetTypeHero:
		return fmt.Sprintf("%s hero", t.Side)
	default:
		return "no target"
	}
}
