package effects

import (
	"testing"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setup(t *testing.T) (*Executor, *battle.Match) {
	t.Helper()
	ph, _ := battle.NewHero("PLAYER")
	eh, _ := battle.NewHero("ENEMY")
	p, _ := battle.NewPlayerState(ph)
	e, _ := battle.NewPlayerState(eh)
	m, err := battle.NewMatch(p, e)
	require.NoError(t, err)

	exec, err := NewExecutor(m, battle.NewSequenceIDs("unit"), zaptest.NewLogger(t))
	require.NoError(t, err)
	return exec, m
}

func giveMana(p *battle.PlayerState, amount int) {
	p.Mana.SetMax(amount)
	p.Mana.Refill()
}

func monster(id string, cost, attack, defense int, effects ...card.Effect) *card.Card {
	return card.MustCard(card.Spec{ID: id, Name: id, Cost: cost, Attack: attack, Defense: defense, Effects: effects})
}

func TestNewExecutorPreconditions(t *testing.T) {
	_, err := NewExecutor(nil, battle.NewSequenceIDs("u"), nil)
	assert.ErrorIs(t, err, ErrNilMatch)

	_, m := setup(t)
	_, err = NewExecutor(m, nil, nil)
	assert.ErrorIs(t, err, ErrNilIDGenerator)
}

func TestPlayCardSummons(t *testing.T) {
	exec, m := setup(t)
	p := m.Player(battle.SidePlayer)
	giveMana(p, 3)
	c := monster("GOLEM", 3, 2, 4)
	p.AddToHand(c)

	log := exec.PlayCard(battle.SidePlayer, c, targeting.None(), 0)

	assert.Equal(t, 0, p.Mana.Current())
	assert.Empty(t, p.Hand)
	require.Equal(t, 1, p.Board.Len())
	unit := p.Board.At(0)
	assert.Equal(t, "unit-1", unit.InstanceID)
	assert.Equal(t, 2, unit.Attack)
	assert.Equal(t, 4, unit.CurrentHealth)
	assert.True(t, unit.SummonedThisTurn)
	assert.True(t, log.Contains(`PLAYER played "GOLEM"`))
	assert.True(t, log.Contains("entered the board"))
}

func TestPlayCardInsufficientMana(t *testing.T) {
	exec, m := setup(t)
	p := m.Player(battle.SidePlayer)
	giveMana(p, 2)
	c := monster("GOLEM", 3, 2, 4)
	p.AddToHand(c)

	log := exec.PlayCard(battle.SidePlayer, c, targeting.None(), 0)

	assert.Equal(t, 2, p.Mana.Current())
	assert.Len(t, p.Hand, 1)
	assert.Zero(t, p.Board.Len())
	assert.True(t, log.Contains("not enough mana"))
}

func TestPlayCardBoardFullCheckedBeforeMana(t *testing.T) {
	exec, m := setup(t)
	p := m.Player(battle.SidePlayer)
	for i := 0; i < battle.MaxBoardSize; i++ {
		p.Board.Insert(i, battle.NewUnit("filler", monster("F", 1, 1, 1)))
	}
	c := monster("GOLEM", 3, 2, 4)
	p.AddToHand(c)

	log := exec.PlayCard(battle.SidePlayer, c, targeting.None(), 0)

	assert.Equal(t, []string{"[play failed] a board holds at most 5 units."}, log.Messages())
	assert.Len(t, p.Hand, 1)
}

func TestPlayCardNilAndUnknownSide(t *testing.T) {
	exec, _ := setup(t)

	assert.True(t, exec.PlayCard(battle.SidePlayer, nil, targeting.None(), 0).Contains("no card"))
	assert.True(t, exec.PlayCard(battle.NoSide, monster("A", 0, 1, 1), targeting.None(), 0).Contains("unknown side"))
}

func TestPlayCardClampsBoardPosition(t *testing.T) {
	exec, m := setup(t)
	p := m.Player(battle.SidePlayer)
	giveMana(p, 10)

	exec.PlayCard(battle.SidePlayer, monster("A", 1, 1, 1), targeting.None(), 0)
	exec.PlayCard(battle.SidePlayer, monster("B", 1, 1, 1), targeting.None(), 42)
	exec.PlayCard(battle.SidePlayer, monster("C", 1, 1, 1), targeting.None(), -7)

	var names []string
	for _, u := range p.Board.Units() {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func TestTauntEffect(t *testing.T) {
	exec, m := setup(t)
	p := m.Player(battle.SidePlayer)
	giveMana(p, 4)

	log := exec.PlayCard(battle.SidePlayer, monster("TANK", 4, 2, 6, card.NewEffect(card.EffectTaunt, 0)), targeting.None(), 0)

	assert.True(t, p.Board.At(0).Taunt)
	assert.True(t, log.Contains("TANK has taunt"))
}

func TestDirectAttackKillsHero(t *testing.T) {
	exec, m := setup(t)
	p := m.Player(battle.SidePlayer)
	giveMana(p, 6)
	m.Player(battle.SideEnemy).Hero.SetCurrentHealth(5)

	c := monster("HEARTBREAKER", 6, 5, 2, card.NewEffect(card.EffectDirectAttackPlayer, 5))
	log := exec.PlayCard(battle.SidePlayer, c, targeting.Hero(battle.SideEnemy), 0)

	assert.Equal(t, 0, m.Player(battle.SideEnemy).Hero.CurrentHealth())
	assert.True(t, m.IsGameOver())
	winner, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, battle.SidePlayer, winner)
	assert.True(t, log.Contains("5 -> 0"))
	assert.True(t, log.Contains("has fallen"))
}

func TestDirectAttackDefaultsToOpponent(t *testing.T) {
	exec, m := setup(t)
	giveMana(m.Player(battle.SideEnemy), 3)

	c := monster("BOLT", 3, 1, 1, card.NewEffect(card.EffectDirectAttackPlayer, 3))
	exec.PlayCard(battle.SideEnemy, c, targeting.None(), 0)

	assert.Equal(t, 17, m.Player(battle.SidePlayer).Hero.CurrentHealth())
	assert.Equal(t, 20, m.Player(battle.SideEnemy).Hero.CurrentHealth())
}

func TestDirectAttackNonPositiveValue(t *testing.T) {
	exec, m := setup(t)
	giveMana(m.Player(battle.SidePlayer), 1)

	log := exec.PlayCard(battle.SidePlayer, monster("DUD", 1, 1, 1, card.NewEffect(card.EffectDirectAttackPlayer, 0)), targeting.None(), 0)

	assert.Equal(t, 20, m.Player(battle.SideEnemy).Hero.CurrentHealth())
	assert.True(t, log.Contains("no damage dealt"))
}

func TestDamageToMonster(t *testing.T) {
	exec, m := setup(t)
	giveMana(m.Player(battle.SidePlayer), 10)
	enemyBoard := m.Player(battle.SideEnemy).Board
	weak := battle.NewUnit("weak", monster("WEAK", 1, 1, 2))
	sturdy := battle.NewUnit("sturdy", monster("STURDY", 1, 1, 5))
	enemyBoard.Insert(0, weak)
	enemyBoard.Insert(1, sturdy)

	scout := monster("SCOUT", 4, 4, 1, card.NewEffect(card.EffectDamageToMonster, 2))

	log := exec.PlayCard(battle.SidePlayer, scout, targeting.Unit(battle.SideEnemy, 1), 0)
	assert.Equal(t, 3, sturdy.CurrentHealth)
	assert.True(t, log.Contains("(5 -> 3)"))

	log = exec.PlayCard(battle.SidePlayer, scout, targeting.Unit(battle.NoSide, 0), 0)
	assert.True(t, log.Contains(`"WEAK" was destroyed`))
	assert.Equal(t, []*battle.Unit{sturdy}, enemyBoard.Units())
}

func TestDamageToMonsterRejectsBadTargets(t *testing.T) {
	exec, m := setup(t)
	p := m.Player(battle.SidePlayer)
	giveMana(p, 10)
	scout := monster("SCOUT", 4, 4, 1, card.NewEffect(card.EffectDamageToMonster, 2))

	log := exec.PlayCard(battle.SidePlayer, scout, targeting.Hero(battle.SideEnemy), 0)
	assert.True(t, log.Contains("unit target is required"))

	log = exec.PlayCard(battle.SidePlayer, scout, targeting.Unit(battle.SideEnemy, 0), 0)
	assert.True(t, log.Contains("invalid target index 0"))

	// The unit is summoned and paid for even though the effect failed.
	assert.Equal(t, 2, p.Board.Len())
	assert.Equal(t, 2, p.Mana.Current())
}

func TestIgnoredEffectsAreLogged(t *testing.T) {
	exec, m := setup(t)
	giveMana(m.Player(battle.SidePlayer), 5)

	c := monster("KNIGHT", 5, 3, 5,
		card.NewEffect(card.EffectBuffDefense, 2),
		card.NewEffect(card.EffectHealPlayer, 3),
	)
	log := exec.PlayCard(battle.SidePlayer, c, targeting.None(), 0)

	assert.True(t, log.Contains("[effect ignored] BUFF_DEFENSE"))
	assert.True(t, log.Contains("[effect ignored] HEAL_PLAYER"))
	assert.Equal(t, 5, m.Player(battle.SidePlayer).Board.At(0).CurrentHealth)
	assert.Equal(t, 20, m.Player(battle.SidePlayer).Hero.CurrentHealth())
}
