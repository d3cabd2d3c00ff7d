package targeting

import (
	"fmt"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
)

// Validator checks target selections against the current match state.
type Validator struct {
	match *battle.Match
}

// NewValidator creates a validator for match.
func NewValidator(match *battle.Match) *Validator {
	return &Validator{match: match}
}

// ResolveUnit returns the unit t points at when played by actor, together with the
// board holding it. When t is not a legal unit target the reason describes why.
func (v *Validator) ResolveUnit(actor battle.Side, t Target) (*battle.Unit, *battle.Board, string) {
	if t.Type != TargetTypeUnit {
		return nil, nil, fmt.Sprintf("a unit target is required (got %s)", t.Type)
	}
	side := t.ResolveSide(actor)
	state := v.match.Player(side)
	if state == nil {
		return nil, nil, fmt.Sprintf("unknown target side %s", side)
	}
	if !state.Board.ValidIndex(t.Index) {
		return nil, nil, fmt.Sprintf("invalid target index %d (%s board has %d units)",
			t.Index, side, state.Board.Len())
	}
	return state.Board.At(t.Index), state.Board, ""
}

// ResolveHero returns the hero t's side refers to when played by actor. Any
// target type is accepted: hero-directed effects fall back to the target side.
func (v *Validator) ResolveHero(actor battle.Side, t Target) (*battle.Hero, string) {
	side := t.ResolveSide(actor)
	state := v.match.Player(side)
	if state == nil {
		return nil, fmt.Sprintf("unknown target side %s", side)
	}
	return state.Hero, ""
}
