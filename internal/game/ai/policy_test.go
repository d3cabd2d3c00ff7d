package ai

import (
	"testing"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/game/combat"
	"github.com/fantasycard/battle-server-go/internal/game/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setup(t *testing.T) (*Policy, *battle.Match) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	ph, _ := battle.NewHero("PLAYER")
	eh, _ := battle.NewHero("ENEMY")
	p, _ := battle.NewPlayerState(ph)
	e, _ := battle.NewPlayerState(eh)
	m, err := battle.NewMatch(p, e)
	require.NoError(t, err)

	exec, err := effects.NewExecutor(m, battle.NewSequenceIDs("unit"), logger)
	require.NoError(t, err)
	engine, err := combat.NewEngine(m, combat.DefaultDamageCalculator{}, logger)
	require.NoError(t, err)
	policy, err := NewPolicy(m, exec, engine, battle.SideEnemy, logger)
	require.NoError(t, err)
	return policy, m
}

func monster(id string, cost, attack, defense int, effects ...card.Effect) *card.Card {
	return card.MustCard(card.Spec{ID: id, Name: id, Cost: cost, Attack: attack, Defense: defense, Effects: effects})
}

func place(m *battle.Match, side battle.Side, name string, attack, health int, taunt bool) *battle.Unit {
	u := battle.NewUnit(name, monster(name, 1, attack, health))
	u.SummonedThisTurn = false
	u.Taunt = taunt
	board := m.Player(side).Board
	board.Insert(board.Len(), u)
	return u
}

func TestNewPolicyPreconditions(t *testing.T) {
	policy, m := setup(t)

	_, err := NewPolicy(nil, policy.executor, policy.combat, battle.SideEnemy, nil)
	assert.ErrorIs(t, err, ErrNilMatch)
	_, err = NewPolicy(m, nil, policy.combat, battle.SideEnemy, nil)
	assert.ErrorIs(t, err, ErrNilExecutor)
	_, err = NewPolicy(m, policy.executor, nil, battle.SideEnemy, nil)
	assert.ErrorIs(t, err, ErrNilCombat)
	_, err = NewPolicy(m, policy.executor, policy.combat, battle.NoSide, nil)
	assert.Error(t, err)
}

func TestPlayScore(t *testing.T) {
	assert.Equal(t, 0, PlayScore(monster("A", 2, 2, 2)))
	assert.Equal(t, 3, PlayScore(monster("T", 2, 2, 2, card.NewEffect(card.EffectTaunt, 0))))
	assert.Equal(t, -5, PlayScore(monster("E", 6, 5, 2)))
}

func TestPickBestPlayable(t *testing.T) {
	hand := []*card.Card{
		monster("EXPENSIVE", 9, 20, 20),
		monster("OK", 2, 2, 2),
		monster("TIE", 1, 1, 1),
		monster("TAUNT", 3, 2, 3, card.NewEffect(card.EffectTaunt, 0)),
	}

	assert.Equal(t, 3, PickBestPlayable(hand, 3))
	assert.Equal(t, 1, PickBestPlayable(hand, 2), "ties go to the first card")
	assert.Equal(t, -1, PickBestPlayable(hand, 0))
	assert.Equal(t, -1, PickBestPlayable(nil, 10))
}

func TestLowestHealthIndex(t *testing.T) {
	units := []*battle.Unit{{CurrentHealth: 4}, {CurrentHealth: 2}, {CurrentHealth: 2}}
	assert.Equal(t, 1, LowestHealthIndex(units))
	assert.Equal(t, -1, LowestHealthIndex(nil))
}

func TestTradeScore(t *testing.T) {
	calc := combat.DefaultDamageCalculator{}
	attacker := &battle.Unit{Attack: 5, CurrentHealth: 5}
	defender := &battle.Unit{Attack: 2, CurrentHealth: 4}

	assert.Equal(t, 8, TradeScore(attacker, defender, calc))
	assert.Equal(t, 0, BestTradeIndex(attacker, []*battle.Unit{defender}, calc))

	even := &battle.Unit{Attack: 5, CurrentHealth: 5}
	assert.Equal(t, 0, TradeScore(attacker, even, calc))
	assert.Equal(t, -1, BestTradeIndex(attacker, []*battle.Unit{even}, calc))
}

func TestBestTradePrefersHighestScore(t *testing.T) {
	calc := combat.DefaultDamageCalculator{}
	attacker := &battle.Unit{Attack: 4, CurrentHealth: 10}
	small := &battle.Unit{Attack: 1, CurrentHealth: 1}
	big := &battle.Unit{Attack: 3, CurrentHealth: 4}
	alsoBig := &battle.Unit{Attack: 3, CurrentHealth: 4}
	tough := &battle.Unit{Attack: 9, CurrentHealth: 9}

	assert.Equal(t, 1, BestTradeIndex(attacker, []*battle.Unit{small, big, alsoBig, tough}, calc))
}

func TestAttackPrefersGoodTradeOverHero(t *testing.T) {
	policy, m := setup(t)
	attacker := place(m, battle.SideEnemy, "Brute", 5, 5, false)
	defender := place(m, battle.SidePlayer, "Squire", 2, 4, false)

	log := policy.PlayMainPhase()

	assert.True(t, defender.IsDead())
	assert.Equal(t, 3, attacker.CurrentHealth)
	assert.Equal(t, 20, m.Player(battle.SidePlayer).Hero.CurrentHealth())
	assert.True(t, log.Contains(`"Brute" attacks "Squire"`))
}

func TestAttackGoesFaceWithoutGoodTrade(t *testing.T) {
	policy, m := setup(t)
	place(m, battle.SideEnemy, "Brute", 3, 3, false)
	wall := place(m, battle.SidePlayer, "Wall", 5, 9, false)

	policy.PlayMainPhase()

	assert.Equal(t, 9, wall.CurrentHealth)
	assert.Equal(t, 17, m.Player(battle.SidePlayer).Hero.CurrentHealth())
}

func TestAttackForcedOntoFirstTaunt(t *testing.T) {
	policy, m := setup(t)
	place(m, battle.SideEnemy, "Brute", 2, 2, false)
	easy := place(m, battle.SidePlayer, "Easy", 0, 1, false)
	tank := place(m, battle.SidePlayer, "Tank", 1, 8, true)
	place(m, battle.SidePlayer, "Tank2", 1, 8, true)

	policy.PlayMainPhase()

	assert.Equal(t, 6, tank.CurrentHealth)
	assert.Equal(t, 1, easy.CurrentHealth)
}

func TestAttackReindexesAfterAttackerDies(t *testing.T) {
	policy, m := setup(t)
	place(m, battle.SideEnemy, "Doomed", 1, 1, false)
	survivor := place(m, battle.SideEnemy, "Survivor", 2, 5, false)
	place(m, battle.SidePlayer, "Spiky", 3, 10, true)

	policy.PlayMainPhase()

	assert.Equal(t, []*battle.Unit{survivor}, m.Player(battle.SideEnemy).Board.Units())
	assert.Equal(t, 1, survivor.AttacksThisTurn)
	assert.Equal(t, 7, m.Player(battle.SidePlayer).Board.At(0).CurrentHealth)
}

func TestCardPlayLoop(t *testing.T) {
	policy, m := setup(t)
	enemy := m.Player(battle.SideEnemy)
	enemy.Mana.SetMax(5)
	enemy.Mana.Refill()
	enemy.AddToHand(monster("BIG", 5, 4, 4))
	enemy.AddToHand(monster("TANK", 3, 1, 4, card.NewEffect(card.EffectTaunt, 0)))
	enemy.AddToHand(monster("CHEAP", 2, 2, 1))

	log := policy.PlayMainPhase()

	// TANK scores 5-6+3=2, CHEAP 3-4=-1, BIG 8-10=-2: TANK then CHEAP fit in 5 mana.
	require.Equal(t, 2, enemy.Board.Len())
	assert.Equal(t, "TANK", enemy.Board.At(0).Name)
	assert.Equal(t, "CHEAP", enemy.Board.At(1).Name)
	assert.Equal(t, 0, enemy.Mana.Current())
	require.Len(t, enemy.Hand, 1)
	assert.Equal(t, "BIG", enemy.Hand[0].ID())
	assert.True(t, log.Contains(`ENEMY played "TANK"`))
}

func TestCardPlayTargetsWeakestUnit(t *testing.T) {
	policy, m := setup(t)
	enemy := m.Player(battle.SideEnemy)
	enemy.Mana.SetMax(4)
	enemy.Mana.Refill()
	enemy.AddToHand(monster("SCOUT", 4, 4, 1, card.NewEffect(card.EffectDamageToMonster, 2)))
	place(m, battle.SidePlayer, "Strong", 1, 6, false)
	weak := place(m, battle.SidePlayer, "Weak", 1, 2, false)

	policy.PlayMainPhase()

	assert.True(t, weak.IsDead())
	assert.Equal(t, 1, m.Player(battle.SidePlayer).Board.Len())
}

func TestCardPlayStopsOnGameOver(t *testing.T) {
	policy, m := setup(t)
	enemy := m.Player(battle.SideEnemy)
	enemy.Mana.SetMax(10)
	enemy.Mana.Refill()
	m.Player(battle.SidePlayer).Hero.SetCurrentHealth(3)
	enemy.AddToHand(monster("BOLT", 1, 1, 1, card.NewEffect(card.EffectDirectAttackPlayer, 3)))
	enemy.AddToHand(monster("EXTRA", 1, 1, 1))
	place(m, battle.SideEnemy, "Ready", 3, 3, false)

	policy.PlayMainPhase()

	assert.True(t, m.IsGameOver())
	assert.Len(t, enemy.Hand, 1)
	assert.Zero(t, enemy.Board.At(0).AttacksThisTurn)
}

func TestCardPlayStopsWhenBoardFull(t *testing.T) {
	policy, m := setup(t)
	enemy := m.Player(battle.SideEnemy)
	enemy.Mana.SetMax(10)
	enemy.Mana.Refill()
	for i := 0; i < 4; i++ {
		place(m, battle.SideEnemy, "Filler", 0, 1, false)
	}
	enemy.AddToHand(monster("A", 1, 1, 1))
	enemy.AddToHand(monster("B", 1, 1, 1))

	policy.PlayMainPhase()

	assert.Equal(t, battle.MaxBoardSize, enemy.Board.Len())
	assert.Len(t, enemy.Hand, 1)
}
