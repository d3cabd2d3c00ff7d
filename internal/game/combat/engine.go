package combat

import (
	"errors"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"go.uber.org/zap"
)

var (
	// ErrNilMatch is returned when an engine is created without a match.
	ErrNilMatch = errors.New("match is required")
	// ErrNilCalculator is returned when an engine is created without a damage calculator.
	ErrNilCalculator = errors.New("damage calculator is required")
)

// Engine resolves unit attacks against units and heroes.
type Engine struct {
	match  *battle.Match
	calc   DamageCalculator
	logger *zap.Logger
}

// NewEngine creates a combat engine for match using calc for damage.
func NewEngine(match *battle.Match, calc DamageCalculator, logger *zap.Logger) (*Engine, error) {
	if match == nil {
		return nil, ErrNilMatch
	}
	if calc == nil {
		return nil, ErrNilCalculator
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{match: match, calc: calc, logger: logger}, nil
}

// Calculator returns the damage strategy in use.
func (e *Engine) Calculator() DamageCalculator {
	return e.calc
}

// UnitAttackUnit has side's unit at attackerIndex attack the opposing unit at
// defenderIndex. Both take damage at the same time; dead units leave their board.
func (e *Engine) UnitAttackUnit(side battle.Side, attackerIndex, defenderIndex int) *battle.Log {
	log := e.match.NewLog()

	atkState, defState := e.match.Player(side), e.match.Player(side.Opponent())
	if atkState == nil || defState == nil {
		log.Addf("[attack failed] unknown side %s.", side)
		return log
	}

	attacker := atkState.Board.At(attackerIndex)
	defender := defState.Board.At(defenderIndex)
	if attacker == nil || defender == nil {
		log.Add("[attack failed] invalid unit index.")
		return log
	}

	if !checkAttacker(attacker, log) {
		return log
	}

	if defState.Board.HasTaunt() && !defender.Taunt {
		log.Add("[attack failed] the opponent has a taunt unit; it must be attacked first.")
		return log
	}

	toDefender := e.calc.UnitVsUnit(attacker, defender)
	toAttacker := e.calc.UnitVsUnit(defender, attacker)

	log.Addf("[combat] %q attacks %q!", attacker.Name, defender.Name)

	defBefore, atkBefore := defender.CurrentHealth, attacker.CurrentHealth
	defender.ApplyDamage(toDefender)
	attacker.ApplyDamage(toAttacker)

	log.Addf(" -> %s health: %d -> %d", defender.Name, defBefore, defender.CurrentHealth)
	log.Addf(" -> %s health: %d -> %d", attacker.Name, atkBefore, attacker.CurrentHealth)

	attacker.AttacksThisTurn++

	if defender.IsDead() {
		log.Addf("[combat result] %s was destroyed.", defender.Name)
		defState.Board.Remove(defender)
	}
	if attacker.IsDead() {
		log.Addf("[combat result] %s was destroyed.", attacker.Name)
		atkState.Board.Remove(attacker)
	}

	e.logger.Debug("unit attacked unit",
		zap.String("match_id", e.match.ID),
		zap.Stringer("side", side),
		zap.String("attacker", attacker.InstanceID),
		zap.String("defender", defender.InstanceID),
		zap.Int("damage_dealt", toDefender),
		zap.Int("damage_taken", toAttacker),
	)
	return log
}

// UnitAttackHero has side's unit at attackerIndex attack the opposing hero. Any
// taunt unit on the opposing board blocks the attack.
func (e *Engine) UnitAttackHero(side battle.Side, attackerIndex int) *battle.Log {
	log := e.match.NewLog()

	atkState, defState := e.match.Player(side), e.match.Player(side.Opponent())
	if atkState == nil || defState == nil {
		log.Addf("[attack failed] unknown side %s.", side)
		return log
	}

	attacker := atkState.Board.At(attackerIndex)
	if attacker == nil {
		log.Add("[attack failed] invalid unit index.")
		return log
	}

	if !checkAttacker(attacker, log) {
		return log
	}

	if defState.Board.HasTaunt() {
		log.Add("[attack failed] the opponent has a taunt unit; the hero cannot be attacked directly.")
		return log
	}

	hero := defState.Hero
	damage := e.calc.UnitVsHero(attacker, hero)
	before := hero.CurrentHealth()

	log.Addf("[combat] %q attacks enemy hero %q! (%d damage)", attacker.Name, hero.Name(), damage)
	hero.ApplyDamage(damage)
	log.Addf(" -> hero health: %d -> %d", before, hero.CurrentHealth())

	attacker.AttacksThisTurn++

	if hero.IsDead() {
		log.Addf("[combat result] hero %s has fallen!", hero.Name())
		e.logger.Info("hero defeated in combat",
			zap.String("match_id", e.match.ID),
			zap.String("hero", hero.Name()),
		)
	}
	return log
}

func checkAttacker(unit *battle.Unit, log *battle.Log) bool {
	if reason := unit.AttackBlocker(); reason != "" {
		log.Addf("[attack failed] %s.", reason)
		return false
	}
	return true
}
