package ai

import (
	"errors"
	"math"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/game/combat"
	"github.com/fantasycard/battle-server-go/internal/game/effects"
	"github.com/fantasycard/battle-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

var (
	// ErrNilMatch is returned when a policy is created without a match.
	ErrNilMatch = errors.New("match is required")
	// ErrNilExecutor is returned when a policy is created without a card executor.
	ErrNilExecutor = errors.New("card executor is required")
	// ErrNilCombat is returned when a policy is created without a combat engine.
	ErrNilCombat = errors.New("combat engine is required")
)

// tauntBonus is added to the play score of cards that carry taunt.
const tauntBonus = 3

// Policy plays one side's main phase with a greedy heuristic: summon the best
// affordable cards, then attack with every ready unit.
type Policy struct {
	match    *battle.Match
	executor *effects.Executor
	combat   *combat.Engine
	side     battle.Side
	logger   *zap.Logger
}

// NewPolicy creates a policy controlling side.
func NewPolicy(match *battle.Match, executor *effects.Executor, engine *combat.Engine, side battle.Side, logger *zap.Logger) (*Policy, error) {
	if match == nil {
		return nil, ErrNilMatch
	}
	if executor == nil {
		return nil, ErrNilExecutor
	}
	if engine == nil {
		return nil, ErrNilCombat
	}
	if !side.Valid() {
		return nil, errors.New("policy side must be PLAYER or ENEMY")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{
		match:    match,
		executor: executor,
		combat:   engine,
		side:     side,
		logger:   logger,
	}, nil
}

// Side returns the side this policy plays.
func (p *Policy) Side() battle.Side {
	return p.side
}

// PlayMainPhase runs the card-play loop and then the attack pass, returning
// both passes' events in one log.
func (p *Policy) PlayMainPhase() *battle.Log {
	log := p.match.NewLog()

	plays := p.playCards(log)
	if p.match.IsGameOver() {
		return log
	}
	attacks := p.attack(log)

	p.logger.Debug("main phase played",
		zap.String("match_id", p.match.ID),
		zap.Stringer("side", p.side),
		zap.Int("cards_played", plays),
		zap.Int("attacks", attacks),
	)
	return log
}

func (p *Policy) playCards(log *battle.Log) int {
	self := p.match.Player(p.side)
	opponent := p.match.Player(p.side.Opponent())
	played := 0

	for len(self.Hand) > 0 && self.CanSummon() && !p.match.IsGameOver() {
		idx := PickBestPlayable(self.Hand, self.Mana.Current())
		if idx < 0 {
			break
		}
		c := self.Hand[idx]

		target := targeting.None()
		if c.HasEffect(card.EffectDamageToMonster) && opponent.Board.Len() > 0 {
			target = targeting.Unit(p.side.Opponent(), LowestHealthIndex(opponent.Board.Units()))
		}

		handBefore := len(self.Hand)
		log.Merge(p.executor.PlayCard(p.side, c, target, self.Board.Len()))
		if len(self.Hand) == handBefore {
			// The executor refused the card; drop it so the loop cannot spin.
			self.RemoveFromHand(c)
		}
		played++
	}
	return played
}

func (p *Policy) attack(log *battle.Log) int {
	self := p.match.Player(p.side)
	opponent := p.match.Player(p.side.Opponent())
	attacks := 0

	for i := 0; i < self.Board.Len(); {
		if p.match.IsGameOver() {
			break
		}

		attacker := self.Board.At(i)
		if !attacker.CanAttack() {
			i++
			continue
		}

		if taunt := opponent.Board.FirstTauntIndex(); taunt >= 0 {
			log.Merge(p.combat.UnitAttackUnit(p.side, i, taunt))
		} else if trade := BestTradeIndex(attacker, opponent.Board.Units(), p.combat.Calculator()); trade >= 0 {
			log.Merge(p.combat.UnitAttackUnit(p.side, i, trade))
		} else {
			log.Merge(p.combat.UnitAttackHero(p.side, i))
		}
		attacks++

		// A dead attacker leaves the board, shifting the next unit into slot i.
		if self.Board.At(i) == attacker {
			i++
		}
	}
	return attacks
}

// PlayScore rates a card for play: (attack + defense) - 2*cost, plus a bonus
// for taunt.
func PlayScore(c *card.Card) int {
	score := c.Attack() + c.Defense() - 2*c.Cost()
	if c.HasTaunt() {
		score += tauntBonus
	}
	return score
}

// PickBestPlayable returns the index of the highest scoring card in hand that
// costs at most mana, or -1. Ties go to the earlier card.
func PickBestPlayable(hand []*card.Card, mana int) int {
	best, bestScore := -1, math.MinInt
	for i, c := range hand {
		if c.Cost() > mana {
			continue
		}
		if score := PlayScore(c); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// LowestHealthIndex returns the index of the unit with the least current health,
// preferring the lowest index on ties. It returns -1 for an empty board.
func LowestHealthIndex(units []*battle.Unit) int {
	best, hp := -1, math.MaxInt
	for i, u := range units {
		if u.CurrentHealth < hp {
			best, hp = i, u.CurrentHealth
		}
	}
	return best
}

// UnitValue is how much a unit is worth when trading: 2*attack + current health.
func UnitValue(u *battle.Unit) int {
	return 2*u.Attack + u.CurrentHealth
}

// TradeScore is what attacker gains by attacking defender: the defender's value
// if it would die minus the attacker's value if it would die.
func TradeScore(attacker, defender *battle.Unit, calc combat.DamageCalculator) int {
	enemyLoss, myLoss := 0, 0
	if defender.CurrentHealth-calc.UnitVsUnit(attacker, defender) <= 0 {
		enemyLoss = UnitValue(defender)
	}
	if attacker.CurrentHealth-calc.UnitVsUnit(defender, attacker) <= 0 {
		myLoss = UnitValue(attacker)
	}
	return enemyLoss - myLoss
}

// BestTradeIndex returns the defender with the strictly highest positive trade
// score, first found on ties, or -1 when no trade is worth making.
func BestTradeIndex(attacker *battle.Unit, defenders []*battle.Unit, calc combat.DamageCalculator) int {
	best, bestScore := -1, 0
	for i, d := range defenders {
		if score := TradeScore(attacker, d, calc); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
