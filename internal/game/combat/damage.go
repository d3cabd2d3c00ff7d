package combat

import "github.com/fantasycard/battle-server-go/internal/game/battle"

// DamageCalculator decides how much damage an attack deals. Engines take one so
// difficulty-specific damage math can be swapped in without touching combat flow.
type DamageCalculator interface {
	UnitVsUnit(attacker, defender *battle.Unit) int
	UnitVsHero(attacker *battle.Unit, hero *battle.Hero) int
}

// DefaultDamageCalculator deals the attacker's attack with no mitigation.
type DefaultDamageCalculator struct{}

func (DefaultDamageCalculator) UnitVsUnit(attacker, _ *battle.Unit) int {
	return max(0, attacker.Attack)
}

func (DefaultDamageCalculator) UnitVsHero(attacker *battle.Unit, _ *battle.Hero) int {
	return max(0, attacker.Attack)
}
