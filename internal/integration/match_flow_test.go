package integration

import (
	"fmt"
	"testing"

	"github.com/fantasycard/battle-server-go/internal/config"
	"github.com/fantasycard/battle-server-go/internal/game"
	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/game/mana"
	"github.com/fantasycard/battle-server-go/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const maxTurns = 120

type matchEnv struct {
	cfg    *config.Config
	engine *game.BattleEngine
}

func newMatchEnv(t testing.TB) *matchEnv {
	t.Helper()

	cfg, err := config.Load("../../config/config.yaml")
	require.NoError(t, err)

	catalog, err := card.LoadFile("../../config/cards.yaml")
	require.NoError(t, err)

	engine, err := game.NewBattleEngine(catalog, zaptest.NewLogger(t),
		game.WithClock(battle.NewFakeClock(battle.RealClock{}.Now())),
		game.WithMatchIDs(battle.NewSequenceIDs("match")),
	)
	require.NoError(t, err)

	return &matchEnv{cfg: cfg, engine: engine}
}

// checkInvariants verifies the state limits that hold after every action.
func checkInvariants(t *testing.T, view battle.MatchView) {
	t.Helper()
	for _, side := range []battle.PlayerView{view.Player, view.Enemy} {
		assert.GreaterOrEqual(t, side.CurrentMana, 0, side.Side)
		assert.LessOrEqual(t, side.CurrentMana, side.MaxMana, side.Side)
		assert.LessOrEqual(t, side.MaxMana, mana.Cap, side.Side)
		assert.LessOrEqual(t, len(side.Board), battle.MaxBoardSize, side.Side)
		assert.GreaterOrEqual(t, side.HeroHealth, 0, side.Side)
		assert.LessOrEqual(t, side.HeroHealth, side.HeroMaxHealth, side.Side)
		for _, u := range side.Board {
			assert.Positive(t, u.CurrentHealth, "dead unit %s left on the %s board", u.Name, side.Side)
		}
	}
}

// playTurn plays every affordable card, cheapest first, then attacks with every
// ready unit, hitting taunt units before the hero.
func playTurn(t *testing.T, engine *game.BattleEngine, id string) {
	t.Helper()

	for n := 0; n < battle.MaxBoardSize; n++ {
		view, err := engine.View(id)
		require.NoError(t, err)
		if view.GameOver || len(view.Player.Board) >= battle.MaxBoardSize {
			return
		}

		pick := -1
		for i, c := range view.Player.Hand {
			if c.Cost <= view.Player.CurrentMana && (pick < 0 || c.Cost < view.Player.Hand[pick].Cost) {
				pick = i
			}
		}
		if pick < 0 {
			break
		}
		_, err = engine.PlayCard(id, battle.SidePlayer, pick, targeting.None(), len(view.Player.Board))
		require.NoError(t, err)
		view, err = engine.View(id)
		require.NoError(t, err)
		checkInvariants(t, view)
	}

	for n := 0; n < battle.MaxBoardSize*2; n++ {
		view, err := engine.View(id)
		require.NoError(t, err)
		if view.GameOver {
			return
		}

		attacker := -1
		for i, u := range view.Player.Board {
			if u.CanAttack {
				attacker = i
				break
			}
		}
		if attacker < 0 {
			return
		}

		taunt := -1
		for i, u := range view.Enemy.Board {
			if u.Taunt {
				taunt = i
				break
			}
		}
		if taunt >= 0 {
			_, err = engine.Attack(id, battle.SidePlayer, attacker, taunt)
		} else {
			_, err = engine.AttackHero(id, battle.SidePlayer, attacker)
		}
		require.NoError(t, err)

		view, err = engine.View(id)
		require.NoError(t, err)
		checkInvariants(t, view)
	}
}

func TestFullMatchesReachAnEnd(t *testing.T) {
	env := newMatchEnv(t)

	for _, difficulty := range []game.Difficulty{game.DifficultyEasy, game.DifficultyNormal, game.DifficultyHard} {
		for _, seed := range []uint64{1, 7, 42} {
			t.Run(fmt.Sprintf("%s/seed-%d", difficulty, seed), func(t *testing.T) {
				id, _, err := env.engine.StartMatch(game.MatchOptions{
					Difficulty:    difficulty,
					Seed:          seed,
					DeckSize:      env.cfg.Match.DeckSize,
					TurnTimeLimit: env.cfg.Match.TurnTimeLimit,
				})
				require.NoError(t, err)
				defer env.engine.EndMatch(id)

				for turn := 0; turn < maxTurns; turn++ {
					over, err := env.engine.IsGameOver(id)
					require.NoError(t, err)
					if over {
						break
					}
					playTurn(t, env.engine, id)

					log, err := env.engine.EndTurn(id, battle.SidePlayer)
					require.NoError(t, err)
					require.False(t, log.IsEmpty())

					view, err := env.engine.View(id)
					require.NoError(t, err)
					checkInvariants(t, view)
					if !view.GameOver {
						assert.Equal(t, battle.SidePlayer.String(), view.CurrentSide)
					}
				}

				view, err := env.engine.View(id)
				require.NoError(t, err)
				require.True(t, view.GameOver, "match did not finish within %d turns", maxTurns)

				winner, ok, err := env.engine.Winner(id)
				require.NoError(t, err)
				if ok {
					assert.Equal(t, winner.String(), view.Winner)
					loser := view.Enemy
					if winner == battle.SideEnemy {
						loser = view.Player
					}
					assert.Zero(t, loser.HeroHealth)
				} else {
					assert.Zero(t, view.Player.HeroHealth)
					assert.Zero(t, view.Enemy.HeroHealth)
				}

				log, err := env.engine.EndTurn(id, battle.SidePlayer)
				require.NoError(t, err)
				assert.True(t, log.Contains("the match is over"))
			})
		}
	}
}

func TestSameSeedPlaysTheSameMatch(t *testing.T) {
	env := newMatchEnv(t)

	run := func() []string {
		id, log, err := env.engine.StartMatch(game.MatchOptions{Difficulty: game.DifficultyNormal, Seed: 99})
		require.NoError(t, err)
		defer env.engine.EndMatch(id)

		messages := log.Messages()
		for turn := 0; turn < 3; turn++ {
			playTurn(t, env.engine, id)
			log, err := env.engine.EndTurn(id, battle.SidePlayer)
			require.NoError(t, err)
			messages = append(messages, log.Messages()...)
		}
		return messages
	}

	assert.Equal(t, run(), run())
}
