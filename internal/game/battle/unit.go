package battle

import (
	"fmt"

	"github.com/fantasycard/battle-server-go/internal/game/card"
)

// Unit is a card instantiated onto a board.
type Unit struct {
	InstanceID       string
	Card             *card.Card
	Name             string
	Attack           int
	MaxHealth        int
	CurrentHealth    int
	Taunt            bool
	Charge           bool
	AttacksThisTurn  int
	SummonedThisTurn bool
}

// NewUnit summons c with the given instance id. Health comes from the card's
// defense and taunt from a TAUNT effect. New units cannot attack until their
// owner's next turn unless they have charge.
func NewUnit(instanceID string, c *card.Card) *Unit {
	return &Unit{
		InstanceID:       instanceID,
		Card:             c,
		Name:             c.Name(),
		Attack:           c.Attack(),
		MaxHealth:        c.Defense(),
		CurrentHealth:    c.Defense(),
		Taunt:            c.HasTaunt(),
		SummonedThisTurn: true,
	}
}

// ApplyDamage lowers current health by damage, never below zero. Non-positive
// damage is ignored.
func (u *Unit) ApplyDamage(damage int) {
	if damage <= 0 {
		return
	}
	u.CurrentHealth = max(0, u.CurrentHealth-damage)
}

func (u *Unit) IsDead() bool {
	return u.CurrentHealth <= 0
}

// AttackBlocker returns why the unit cannot attack right now, or "" if it can.
func (u *Unit) AttackBlocker() string {
	switch {
	case u.IsDead():
		return fmt.Sprintf("%s has already been destroyed", u.Name)
	case u.AttacksThisTurn >= 1:
		return fmt.Sprintf("%s has already attacked this turn", u.Name)
	case u.SummonedThisTurn && !u.Charge:
		return fmt.Sprintf("%s cannot attack on the turn it was summoned", u.Name)
	case u.Attack <= 0:
		return fmt.Sprintf("%s has no attack power", u.Name)
	default:
		return ""
	}
}

// CanAttack reports whether AttackBlocker is empty.
func (u *Unit) CanAttack() bool {
	return u.AttackBlocker() == ""
}

// ResetForTurn clears the attack counter and summoning flag at the start of the
// owner's turn. It reports whether the unit just became ready.
func (u *Unit) ResetForTurn() bool {
	u.AttacksThisTurn = 0
	if u.SummonedThisTurn {
		u.SummonedThisTurn = false
		return true
	}
	return false
}

func (u *Unit) String() string {
	flags := ""
	if u.Taunt {
		flags += " taunt"
	}
	if u.Charge {
		flags += " charge"
	}
	return fmt.Sprintf("%s %d/%d%s", u.Name, u.Attack, u.CurrentHealth, flags)
}
