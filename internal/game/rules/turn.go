package rules

import (
	"errors"
	"time"

	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"go.uber.org/zap"
)

// ErrNilMatch is returned when a turn manager is created without a match.
var ErrNilMatch = errors.New("match is required")

// TurnManager drives the Start -> Main -> End phase cycle of a match: mana growth,
// the turn timer, the turn's draw, and readying units.
type TurnManager struct {
	match  *battle.Match
	logger *zap.Logger
}

// NewTurnManager creates a turn manager for match.
func NewTurnManager(match *battle.Match, logger *zap.Logger) (*TurnManager, error) {
	if match == nil {
		return nil, ErrNilMatch
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurnManager{match: match, logger: logger}, nil
}

// Match returns the match being driven.
func (tm *TurnManager) Match() *battle.Match {
	return tm.match
}

// StartTurn begins the current side's turn and leaves the match in the main phase.
func (tm *TurnManager) StartTurn() *battle.Log {
	log := tm.match.NewLog()

	tm.match.SetPhase(battle.PhaseStart)
	side := tm.match.CurrentSide()
	current := tm.match.Current()

	maxMana := current.Mana.Grow()
	current.Mana.Refill()
	log.Addf("[turn start] %s mana set to %d.", side, maxMana)

	tm.match.MarkTurnStart()
	log.Addf("[turn limit] this turn has %d seconds.", int(tm.match.TurnTimeLimit()/time.Second))

	current.DrawWithFatigue(log)
	current.ResetUnitsForTurn(log)

	tm.match.SetPhase(battle.PhaseMain)
	log.Add("[turn] main phase.")

	tm.logger.Debug("turn started",
		zap.String("match_id", tm.match.ID),
		zap.Stringer("side", side),
		zap.Int("turn", tm.match.TurnNumber()),
		zap.Int("mana", maxMana),
	)
	return log
}

// EndTurn ends the current side's turn and hands the turn to the opponent.
func (tm *TurnManager) EndTurn() *battle.Log {
	log := tm.match.NewLog()

	tm.match.SetPhase(battle.PhaseEnd)
	ended := tm.match.CurrentSide()
	log.Addf("[turn end] %s's turn is over.", ended)

	tm.match.AdvanceTurn()
	log.Addf("[turn change] next is %s's turn. (turn %d)", tm.match.CurrentSide(), tm.match.TurnNumber())

	tm.logger.Debug("turn ended",
		zap.String("match_id", tm.match.ID),
		zap.Stringer("side", ended),
		zap.Int("next_turn", tm.match.TurnNumber()),
	)
	return log
}

// ForceEndTurnIfTimeOver ends the turn when its time limit has run out. While time
// remains it does nothing and returns an empty log.
func (tm *TurnManager) ForceEndTurnIfTimeOver() *battle.Log {
	log := tm.match.NewLog()
	if !tm.IsTurnTimeOver() {
		return log
	}

	log.Add("[turn limit] time is up, ending the turn.")
	log.Merge(tm.EndTurn())
	tm.logger.Info("turn forced to end", zap.String("match_id", tm.match.ID))
	return log
}

// RemainingTurnTime returns the time left in the current turn.
func (tm *TurnManager) RemainingTurnTime() time.Duration {
	return tm.match.RemainingTurnTime()
}

// IsTurnTimeOver reports whether the current turn has run out of time.
func (tm *TurnManager) IsTurnTimeOver() bool {
	return tm.match.IsTurnTimeOver()
}
