package battle

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultTurnTimeLimit is how long a side has to act before its turn is forced to end.
	DefaultTurnTimeLimit = 60 * time.Second
	// MinTurnTimeLimit is the shortest turn limit accepted.
	MinTurnTimeLimit = time.Second
)

var (
	// ErrNilPlayerState is returned when a match is created without both sides.
	ErrNilPlayerState = errors.New("both player states are required")
	// ErrSharedPlayerState is returned when both sides are the same state.
	ErrSharedPlayerState = errors.New("player states must be distinct")
)

// Match is the complete state of one battle between SidePlayer and SideEnemy.
type Match struct {
	ID string

	players    map[Side]*PlayerState
	current    Side
	turnNumber int
	phase      Phase

	clock     Clock
	turnStart time.Time
	turnLimit time.Duration
}

// MatchOption customises a new match.
type MatchOption func(*Match)

// WithClock sets the clock used by the turn timer and logs.
func WithClock(clock Clock) MatchOption {
	return func(m *Match) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithTurnTimeLimit sets the turn limit, raised to MinTurnTimeLimit if lower.
func WithTurnTimeLimit(limit time.Duration) MatchOption {
	return func(m *Match) {
		m.SetTurnTimeLimit(limit)
	}
}

// WithID sets the match id.
func WithID(id string) MatchOption {
	return func(m *Match) {
		m.ID = id
	}
}

// NewMatch creates a match at turn 1, player to act, start phase.
func NewMatch(player, enemy *PlayerState, opts ...MatchOption) (*Match, error) {
	if player == nil || enemy == nil {
		return nil, ErrNilPlayerState
	}
	if player == enemy {
		return nil, ErrSharedPlayerState
	}

	m := &Match{
		players: map[Side]*PlayerState{
			SidePlayer: player,
			SideEnemy:  enemy,
		},
		current:    SidePlayer,
		turnNumber: 1,
		phase:      PhaseStart,
		clock:      RealClock{},
		turnLimit:  DefaultTurnTimeLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.turnStart = m.clock.Now()
	return m, nil
}

// Player returns the state of side, or nil for NoSide.
func (m *Match) Player(side Side) *PlayerState {
	return m.players[side]
}

// Opponent returns the state of the side facing side.
func (m *Match) Opponent(side Side) *PlayerState {
	return m.players[side.Opponent()]
}

// Current returns the state of the side whose turn it is.
func (m *Match) Current() *PlayerState {
	return m.players[m.current]
}

// CurrentSide returns the side whose turn it is.
func (m *Match) CurrentSide() Side { return m.current }

func (m *Match) TurnNumber() int { return m.turnNumber }

func (m *Match) Phase() Phase { return m.phase }

func (m *Match) SetPhase(phase Phase) { m.phase = phase }

func (m *Match) Clock() Clock { return m.clock }

// NewLog returns an empty log stamped by the match clock.
func (m *Match) NewLog() *Log { return NewLog(m.clock) }

func (m *Match) TurnTimeLimit() time.Duration { return m.turnLimit }

// SetTurnTimeLimit changes the turn limit, raised to MinTurnTimeLimit if lower.
func (m *Match) SetTurnTimeLimit(limit time.Duration) {
	m.turnLimit = max(MinTurnTimeLimit, limit)
}

// MarkTurnStart restarts the turn timer.
func (m *Match) MarkTurnStart() {
	m.turnStart = m.clock.Now()
}

// TurnStartedAt returns when the current turn timer started.
func (m *Match) TurnStartedAt() time.Time { return m.turnStart }

// RemainingTurnTime returns the time left in the current turn, never negative.
func (m *Match) RemainingTurnTime() time.Duration {
	elapsed := m.clock.Now().Sub(m.turnStart)
	return max(0, m.turnLimit-elapsed)
}

// IsTurnTimeOver reports whether the turn timer has run out.
func (m *Match) IsTurnTimeOver() bool {
	return m.RemainingTurnTime() <= 0
}

// AdvanceTurn hands the turn to the other side and restarts the timer.
func (m *Match) AdvanceTurn() {
	m.current = m.current.Opponent()
	m.turnNumber++
	m.phase = PhaseStart
	m.MarkTurnStart()
}

// IsGameOver reports whether either hero has died.
func (m *Match) IsGameOver() bool {
	return m.players[SidePlayer].Hero.IsDead() || m.players[SideEnemy].Hero.IsDead()
}

// Winner returns the side whose hero is alive while the other's is dead.
// ok is false while both live, and also when both died together.
func (m *Match) Winner() (side Side, ok bool) {
	playerDead := m.players[SidePlayer].Hero.IsDead()
	enemyDead := m.players[SideEnemy].Hero.IsDead()
	switch {
	case enemyDead && !playerDead:
		return SidePlayer, true
	case playerDead && !enemyDead:
		return SideEnemy, true
	default:
		return NoSide, false
	}
}

// StatusLines renders a short human-readable summary for debugging.
func (m *Match) StatusLines() []string {
	return []string{
		fmt.Sprintf("=== turn %d (%s, phase=%s, remaining=%s) ===",
			m.turnNumber, m.current, m.phase, m.RemainingTurnTime().Truncate(time.Millisecond)),
		fmt.Sprintf("[player] %s", m.players[SidePlayer]),
		fmt.Sprintf("[enemy] %s", m.players[SideEnemy]),
	}
}
