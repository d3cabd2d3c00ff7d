package effects

import (
	"errors"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

var (
	// ErrNilMatch is returned when an executor is created without a match.
	ErrNilMatch = errors.New("match is required")
	// ErrNilIDGenerator is returned when an executor is created without an id source.
	ErrNilIDGenerator = errors.New("id generator is required")
)

// Executor resolves playing a card from hand: paying for it, summoning its unit and
// resolving the card's effects.
type Executor struct {
	match     *battle.Match
	ids       battle.IDGenerator
	validator *targeting.Validator
	logger    *zap.Logger
}

// NewExecutor creates a card executor for match. Unit instance ids come from ids.
func NewExecutor(match *battle.Match, ids battle.IDGenerator, logger *zap.Logger) (*Executor, error) {
	if match == nil {
		return nil, ErrNilMatch
	}
	if ids == nil {
		return nil, ErrNilIDGenerator
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		match:     match,
		ids:       ids,
		validator: targeting.NewValidator(match),
		logger:    logger,
	}, nil
}

// Match returns the match this executor mutates.
func (e *Executor) Match() *battle.Match {
	return e.match
}

// PlayCard plays c for side, placing its unit at boardPosition (clamped to the
// board) and resolving its effects against target. Rule violations are reported
// only in the returned log; steps that already committed are not rolled back.
func (e *Executor) PlayCard(side battle.Side, c *card.Card, target targeting.Target, boardPosition int) *battle.Log {
	log := e.match.NewLog()

	if c == nil {
		log.Add("[play failed] no card was given.")
		return log
	}

	caster := e.match.Player(side)
	if caster == nil {
		log.Addf("[play failed] unknown side %s.", side)
		return log
	}

	if !caster.CanSummon() {
		log.Addf("[play failed] a board holds at most %d units.", battle.MaxBoardSize)
		return log
	}

	if !caster.Mana.CanAfford(c.Cost()) {
		log.Addf("[play failed] not enough mana to play %q. (cost %d, available %d)",
			c.Name(), c.Cost(), caster.Mana.Current())
		return log
	}

	caster.Mana.Spend(c.Cost())
	caster.RemoveFromHand(c)
	log.Addf("[play] %s played %q. (cost %d)", side, c.Name(), c.Cost())

	unit := battle.NewUnit(e.ids.NewID(), c)
	if !caster.Board.Insert(boardPosition, unit) {
		log.Addf("[summon failed] the board is full; %q cannot be summoned.", unit.Name)
		return log
	}
	log.Addf("[summon] %q entered the board. (attack %d, health %d)",
		unit.Name, unit.Attack, unit.CurrentHealth)

	e.logger.Debug("card played",
		zap.String("match_id", e.match.ID),
		zap.Stringer("side", side),
		zap.String("card_id", c.ID()),
		zap.String("unit_id", unit.InstanceID),
		zap.Int("slot", caster.Board.IndexOf(unit)),
	)

	if target.Side == battle.NoSide {
		target.Side = side.Opponent()
	}
	res := &resolution{side: side, target: target, unit: unit, log: log}
	for _, effect := range c.Effects() {
		e.resolve(res, effect)
	}
	return log
}

// resolution is the context shared by the effects of one card play.
type resolution struct {
	side   battle.Side
	target targeting.Target
	unit   *battle.Unit
	log    *battle.Log
}

func (e *Executor) resolve(res *resolution, effect card.Effect) {
	switch effect.Kind {
	case card.EffectTaunt:
		e.resolveTaunt(res)
	case card.EffectDirectAttackPlayer:
		e.resolveDirectAttack(res, effect)
	case card.EffectDamageToMonster:
		e.resolveDamageToMonster(res, effect)
	case card.EffectHealPlayer,
		card.EffectBuffAttack,
		card.EffectBuffDefense,
		card.EffectDebuffAttack,
		card.EffectDebuffDefense:
		res.log.Addf("[effect ignored] %s is not used by the current game rules.", effect.Kind)
	default:
		res.log.Addf("[effect] unhandled effect kind %s.", effect.Kind)
	}
}

func (e *Executor) resolveTaunt(res *resolution) {
	res.unit.Taunt = true
	res.log.Addf("[effect] %s has taunt.", res.unit.Name)
}

func (e *Executor) resolveDirectAttack(res *resolution, effect card.Effect) {
	damage := effect.Value
	if damage <= 0 {
		res.log.Addf("[effect] %s value is %d; no damage dealt.", effect.Kind, damage)
		return
	}

	hero, reason := e.validator.ResolveHero(res.side, res.target)
	if reason != "" {
		res.log.Addf("[effect failed] %s: %s.", effect.Kind, reason)
		return
	}

	before := hero.CurrentHealth()
	hero.ApplyDamage(damage)
	res.log.Addf("[effect] hero %q takes %d direct damage.", hero.Name(), damage)
	res.log.Addf(" -> health: %d -> %d", before, hero.CurrentHealth())

	if hero.IsDead() {
		res.log.Addf("[effect result] hero %q has fallen!", hero.Name())
		e.logger.Info("hero defeated by card effect",
			zap.String("match_id", e.match.ID),
			zap.String("hero", hero.Name()),
		)
	}
}

func (e *Executor) resolveDamageToMonster(res *resolution, effect card.Effect) {
	target, board, reason := e.validator.ResolveUnit(res.side, res.target)
	if reason != "" {
		res.log.Addf("[effect failed] %s: %s.", effect.Kind, reason)
		return
	}

	before := target.CurrentHealth
	target.ApplyDamage(effect.Value)
	res.log.Addf("[effect] %q takes %d damage. (%d -> %d)",
		target.Name, effect.Value, before, target.CurrentHealth)

	if target.IsDead() {
		board.Remove(target)
		res.log.Addf("[effect result] %q was destroyed.", target.Name)
	}
}
