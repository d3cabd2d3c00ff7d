package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fantasycard/battle-server-go/internal/game/ai"
	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/game/combat"
	"github.com/fantasycard/battle-server-go/internal/game/effects"
	"github.com/fantasycard/battle-server-go/internal/game/rules"
	"github.com/fantasycard/battle-server-go/internal/game/targeting"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// DefaultDeckSize is the number of cards shuffled into each side's deck.
const DefaultDeckSize = 20

var (
	// ErrMatchNotFound is returned for an unknown match id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrNilCatalog is returned when an engine is created without a catalog.
	ErrNilCatalog = errors.New("card catalog is required")
)

// MatchOptions configures a new match. Zero values pick defaults.
type MatchOptions struct {
	Difficulty    Difficulty
	Seed          uint64
	PlayerName    string
	EnemyName     string
	DeckSize      int
	TurnTimeLimit time.Duration
}

// matchSession is one running match and the components driving it. Calls on a
// session are serialised by mu.
type matchSession struct {
	mu         sync.Mutex
	match      *battle.Match
	turns      *rules.TurnManager
	executor   *effects.Executor
	combat     *combat.Engine
	policy     *ai.Policy
	difficulty Difficulty
	seed       uint64
	startedAt  time.Time
}

// BattleEngine runs matches between a human side (SidePlayer) and the greedy
// opponent policy (SideEnemy).
type BattleEngine struct {
	logger   *zap.Logger
	catalog  *card.Catalog
	clock    battle.Clock
	calc     combat.DamageCalculator
	matchIDs battle.IDGenerator
	seeds    func() uint64

	mu                  sync.RWMutex
	matches             map[string]*matchSession
	notificationHandler NotificationHandler
}

// EngineOption customises a BattleEngine.
type EngineOption func(*BattleEngine)

// WithClock sets the clock used for turn timers and log timestamps.
func WithClock(clock battle.Clock) EngineOption {
	return func(e *BattleEngine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithDamageCalculator replaces the default combat damage math.
func WithDamageCalculator(calc combat.DamageCalculator) EngineOption {
	return func(e *BattleEngine) {
		if calc != nil {
			e.calc = calc
		}
	}
}

// WithMatchIDs sets the generator for match ids.
func WithMatchIDs(ids battle.IDGenerator) EngineOption {
	return func(e *BattleEngine) {
		if ids != nil {
			e.matchIDs = ids
		}
	}
}

// WithSeedSource sets where seeds come from for matches started without one.
func WithSeedSource(seeds func() uint64) EngineOption {
	return func(e *BattleEngine) {
		if seeds != nil {
			e.seeds = seeds
		}
	}
}

// NewBattleEngine creates an engine that builds decks from catalog.
func NewBattleEngine(catalog *card.Catalog, logger *zap.Logger, opts ...EngineOption) (*BattleEngine, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seedRand := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	var seedMu sync.Mutex

	e := &BattleEngine{
		logger:   logger,
		catalog:  catalog,
		clock:    battle.RealClock{},
		calc:     combat.DefaultDamageCalculator{},
		matchIDs: battle.NewUUIDGenerator(),
		seeds: func() uint64 {
			seedMu.Lock()
			defer seedMu.Unlock()
			return seedRand.Uint64()
		},
		matches: make(map[string]*matchSession),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns the catalog decks are built from.
func (e *BattleEngine) Catalog() *card.Catalog {
	return e.catalog
}

// StartMatch sets up a new match and starts the player's first turn. It returns
// the match id and the setup log.
func (e *BattleEngine) StartMatch(opts MatchOptions) (string, *battle.Log, error) {
	if !opts.Difficulty.Valid() {
		return "", nil, fmt.Errorf("start match: unknown difficulty %d", int(opts.Difficulty))
	}
	if opts.Seed == 0 {
		opts.Seed = e.seeds()
	}
	if opts.DeckSize <= 0 {
		opts.DeckSize = DefaultDeckSize
	}
	if opts.TurnTimeLimit <= 0 {
		opts.TurnTimeLimit = battle.DefaultTurnTimeLimit
	}
	playerName := strings.TrimSpace(opts.PlayerName)
	if playerName == "" {
		playerName = battle.SidePlayer.String()
	}
	enemyName := strings.TrimSpace(opts.EnemyName)
	if enemyName == "" {
		enemyName = battle.SideEnemy.String()
	}
	preset := opts.Difficulty.Preset()

	playerHero, err := battle.NewHero(playerName)
	if err != nil {
		return "", nil, fmt.Errorf("start match: %w", err)
	}
	enemyHero, err := battle.NewHeroWithHealth(enemyName, preset.EnemyHeroHealth)
	if err != nil {
		return "", nil, fmt.Errorf("start match: %w", err)
	}
	player, err := battle.NewPlayerState(playerHero)
	if err != nil {
		return "", nil, fmt.Errorf("start match: %w", err)
	}
	enemy, err := battle.NewPlayerState(enemyHero)
	if err != nil {
		return "", nil, fmt.Errorf("start match: %w", err)
	}

	rng := battle.NewRand(opts.Seed)
	for _, c := range e.catalog.ShuffledDeck(rng, opts.DeckSize) {
		player.AddToDeck(c)
	}
	for _, c := range e.catalog.ShuffledDeck(rng, opts.DeckSize) {
		enemy.AddToDeck(c)
	}
	// The turn start grows mana by one, so the enemy begins one below its preset.
	enemy.Mana.SetMax(preset.EnemyStartMana - 1)

	matchID := e.matchIDs.NewID()
	match, err := battle.NewMatch(player, enemy,
		battle.WithID(matchID),
		battle.WithClock(e.clock),
		battle.WithTurnTimeLimit(opts.TurnTimeLimit),
	)
	if err != nil {
		return "", nil, fmt.Errorf("start match: %w", err)
	}

	session, err := e.newSession(match, opts.Seed)
	if err != nil {
		return "", nil, fmt.Errorf("start match: %w", err)
	}
	session.difficulty = opts.Difficulty

	log := match.NewLog()
	log.Addf("[match] %s vs %s on %s. (seed %d)", playerName, enemyName, opts.Difficulty, opts.Seed)
	player.DrawStartingHand(preset.PlayerStartHand, log)
	enemy.DrawStartingHand(preset.EnemyStartHand, log)
	log.Merge(session.turns.StartTurn())

	e.mu.Lock()
	e.matches[matchID] = session
	e.mu.Unlock()

	e.logger.Info("match started",
		zap.String("match_id", matchID),
		zap.Stringer("difficulty", opts.Difficulty),
		zap.Uint64("seed", opts.Seed),
		zap.Int("deck_size", len(player.Deck)+len(player.Hand)),
	)
	e.notify(NotifyMatchStarted, session, log)
	return matchID, log, nil
}

func (e *BattleEngine) newSession(match *battle.Match, seed uint64) (*matchSession, error) {
	turns, err := rules.NewTurnManager(match, e.logger)
	if err != nil {
		return nil, err
	}
	executor, err := effects.NewExecutor(match, battle.NewSeededUUIDGenerator(seed), e.logger)
	if err != nil {
		return nil, err
	}
	engine, err := combat.NewEngine(match, e.calc, e.logger)
	if err != nil {
		return nil, err
	}
	policy, err := ai.NewPolicy(match, executor, engine, battle.SideEnemy, e.logger)
	if err != nil {
		return nil, err
	}
	return &matchSession{
		match:     match,
		turns:     turns,
		executor:  executor,
		combat:    engine,
		policy:    policy,
		seed:      seed,
		startedAt: e.clock.Now(),
	}, nil
}

func (e *BattleEngine) session(matchID string) (*matchSession, error) {
	e.mu.RLock()
	session, ok := e.matches[matchID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return session, nil
}

// PlayCard plays the card at handIndex of side's hand into board slot.
func (e *BattleEngine) PlayCard(matchID string, side battle.Side, handIndex int, target targeting.Target, slot int) (*battle.Log, error) {
	return e.act(matchID, side, func(s *matchSession, log *battle.Log) {
		hand := s.match.Player(side).Hand
		if handIndex < 0 || handIndex >= len(hand) {
			log.Addf("[play failed] invalid hand index %d. (hand has %d cards)", handIndex, len(hand))
			return
		}
		log.Merge(s.executor.PlayCard(side, hand[handIndex], target, slot))
	})
}

// Attack has side's unit at attackerIndex attack the opposing unit at defenderIndex.
func (e *BattleEngine) Attack(matchID string, side battle.Side, attackerIndex, defenderIndex int) (*battle.Log, error) {
	return e.act(matchID, side, func(s *matchSession, log *battle.Log) {
		log.Merge(s.combat.UnitAttackUnit(side, attackerIndex, defenderIndex))
	})
}

// AttackHero has side's unit at attackerIndex attack the opposing hero.
func (e *BattleEngine) AttackHero(matchID string, side battle.Side, attackerIndex int) (*battle.Log, error) {
	return e.act(matchID, side, func(s *matchSession, log *battle.Log) {
		log.Merge(s.combat.UnitAttackHero(side, attackerIndex))
	})
}

// EndTurn ends side's turn. The opponent policy then plays its whole turn and
// the player's next turn is started, all within this call.
func (e *BattleEngine) EndTurn(matchID string, side battle.Side) (*battle.Log, error) {
	return e.act(matchID, side, func(s *matchSession, log *battle.Log) {
		log.Merge(s.turns.EndTurn())
		s.handOver(log)
	})
}

// Tick ends the current turn if its time ran out, running the opponent's turn
// when it is handed the turn. While time remains the log is empty.
func (e *BattleEngine) Tick(matchID string) (*battle.Log, error) {
	session, err := e.session(matchID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	log := session.match.NewLog()
	if !session.match.IsGameOver() {
		if forced := session.turns.ForceEndTurnIfTimeOver(); !forced.IsEmpty() {
			log.Merge(forced)
			session.handOver(log)
		}
	}
	session.mu.Unlock()

	if !log.IsEmpty() {
		e.logger.Info("turn timed out", zap.String("match_id", matchID))
		e.notify(NotifyTurnChanged, session, log)
	}
	return log, nil
}

// act runs fn for side after checking that side may act now.
func (e *BattleEngine) act(matchID string, side battle.Side, fn func(*matchSession, *battle.Log)) (*battle.Log, error) {
	session, err := e.session(matchID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	log := session.match.NewLog()
	turn := session.match.TurnNumber()
	if session.allow(side, log) {
		fn(session, log)
	}
	session.mu.Unlock()

	kind := NotifyMatchUpdated
	if session.match.TurnNumber() != turn {
		kind = NotifyTurnChanged
	}
	e.notify(kind, session, log)
	return log, nil
}

// allow reports whether side may act. Rejections are logged; a timed-out turn is
// also ended here.
func (s *matchSession) allow(side battle.Side, log *battle.Log) bool {
	switch {
	case s.match.IsGameOver():
		log.Add("[action rejected] the match is over.")
		return false
	case !side.Valid():
		log.Addf("[action rejected] unknown side %s.", side)
		return false
	case side != s.match.CurrentSide():
		log.Addf("[action rejected] it is not %s's turn.", side)
		return false
	case s.match.Phase() != battle.PhaseMain:
		log.Addf("[action rejected] actions are only allowed in the main phase (now %s).", s.match.Phase())
		return false
	case s.match.IsTurnTimeOver():
		log.Add("[action rejected] the turn time is over.")
		log.Merge(s.turns.ForceEndTurnIfTimeOver())
		s.handOver(log)
		return false
	}
	return true
}

// handOver drives the match after a turn ended: the opponent policy plays its
// turn if it is up, then the player's turn starts.
func (s *matchSession) handOver(log *battle.Log) {
	if s.match.IsGameOver() {
		return
	}
	if s.match.CurrentSide() == s.policy.Side() {
		log.Merge(s.turns.StartTurn())
		if s.match.IsGameOver() {
			return
		}
		log.Merge(s.policy.PlayMainPhase())
		if s.match.IsGameOver() {
			return
		}
		log.Merge(s.turns.EndTurn())
	}
	log.Merge(s.turns.StartTurn())
}

// View returns a read-only snapshot of the match.
func (e *BattleEngine) View(matchID string) (battle.MatchView, error) {
	session, err := e.session(matchID)
	if err != nil {
		return battle.MatchView{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.match.View(), nil
}

// IsGameOver reports whether either hero has died.
func (e *BattleEngine) IsGameOver(matchID string) (bool, error) {
	session, err := e.session(matchID)
	if err != nil {
		return false, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.match.IsGameOver(), nil
}

// Winner returns the winning side. ok is false while the match is undecided.
func (e *BattleEngine) Winner(matchID string) (side battle.Side, ok bool, err error) {
	session, err := e.session(matchID)
	if err != nil {
		return battle.NoSide, false, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	side, ok = session.match.Winner()
	return side, ok, nil
}

// RemainingTurnTime returns the time left in the current turn.
func (e *BattleEngine) RemainingTurnTime(matchID string) (time.Duration, error) {
	session, err := e.session(matchID)
	if err != nil {
		return 0, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.turns.RemainingTurnTime(), nil
}

// EndMatch removes a match from the engine.
func (e *BattleEngine) EndMatch(matchID string) error {
	e.mu.Lock()
	session, ok := e.matches[matchID]
	delete(e.matches, matchID)
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	e.logger.Info("match ended",
		zap.String("match_id", matchID),
		zap.Duration("duration", e.clock.Now().Sub(session.startedAt)),
	)
	e.notify(NotifyMatchEnded, session, nil)
	return nil
}

// MatchIDs returns the ids of all running matches.
func (e *BattleEngine) MatchIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.matches))
	for id := range e.matches {
		ids = append(ids, id)
	}
	return ids
}

func (e *BattleEngine) notify(kind string, session *matchSession, log *battle.Log) {
	session.mu.Lock()
	n := MatchNotification{
		Type:      kind,
		MatchID:   session.match.ID,
		Timestamp: e.clock.Now(),
		GameOver:  session.match.IsGameOver(),
	}
	if winner, ok := session.match.Winner(); ok {
		n.Winner = winner.String()
	}
	turnLines := session.match.StatusLines()
	session.mu.Unlock()

	if log != nil {
		n.Messages = log.Messages()
	}
	if n.GameOver && kind != NotifyMatchEnded {
		n.Type = NotifyMatchOver
	}

	e.logger.Debug("match notification",
		zap.String("match_id", n.MatchID),
		zap.String("type", n.Type),
		zap.Strings("status", turnLines),
	)
	e.emitNotification(n)
}
