package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fantasycard/battle-server-go/internal/config"
	"github.com/fantasycard/battle-server-go/internal/game"
	"github.com/fantasycard/battle-server-go/internal/game/battle"
	"github.com/fantasycard/battle-server-go/internal/game/targeting"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Inbound message types.
const (
	MsgStart      = "start"
	MsgPlay       = "play"
	MsgAttack     = "attack"
	MsgAttackHero = "attack_hero"
	MsgEndTurn    = "end_turn"
	MsgView       = "view"
)

// Outbound message types.
const (
	MsgResult = "result"
	MsgEvent  = "event"
	MsgError  = "error"
)

// MatchService is the part of the battle engine the websocket front end drives.
type MatchService interface {
	StartMatch(opts game.MatchOptions) (string, *battle.Log, error)
	PlayCard(matchID string, side battle.Side, handIndex int, target targeting.Target, slot int) (*battle.Log, error)
	Attack(matchID string, side battle.Side, attackerIndex, defenderIndex int) (*battle.Log, error)
	AttackHero(matchID string, side battle.Side, attackerIndex int) (*battle.Log, error)
	EndTurn(matchID string, side battle.Side) (*battle.Log, error)
	Tick(matchID string) (*battle.Log, error)
	View(matchID string) (battle.MatchView, error)
	EndMatch(matchID string) error
	SetNotificationHandler(handler game.NotificationHandler)
}

// ClientMessage is a request sent by a websocket client. The client always
// plays the PLAYER side.
type ClientMessage struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id,omitempty"`

	Difficulty string `json:"difficulty,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	EnemyName  string `json:"enemy_name,omitempty"`

	HandIndex int            `json:"hand_index"`
	Slot      *int           `json:"slot,omitempty"`
	Target    *TargetMessage `json:"target,omitempty"`

	Attacker int `json:"attacker"`
	Defender int `json:"defender"`
}

// TargetMessage selects a card target. An empty side means the opponent.
type TargetMessage struct {
	Type  string `json:"type"`
	Side  string `json:"side,omitempty"`
	Index int    `json:"index"`
}

// ServerMessage is pushed to a websocket client.
type ServerMessage struct {
	Type     string            `json:"type"`
	Request  string            `json:"request,omitempty"`
	Event    string            `json:"event,omitempty"`
	MatchID  string            `json:"match_id,omitempty"`
	Messages []string          `json:"messages,omitempty"`
	State    *battle.MatchView `json:"state,omitempty"`
	Error    string            `json:"error,omitempty"`
}

var errNoMatch = errors.New("no match started on this connection")

// Client is one websocket connection and the match it plays.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	matchID string
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

func (c *Client) MatchID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchID
}

func (c *Client) setMatchID(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	previous := c.matchID
	c.matchID = id
	return previous
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub owns the websocket clients, routes their requests to the engine and
// polls turn timers for every match with a connected client.
type Hub struct {
	engine   MatchService
	cfg      config.WebSocketConfig
	match    config.MatchConfig
	defaults game.Difficulty
	logger   *zap.Logger
	upgrader websocket.Upgrader

	register   chan *Client
	unregister chan *Client
	events     chan game.MatchNotification
	stopped    chan struct{}

	// clients is owned by the Run goroutine.
	clients map[*Client]bool
}

// NewHub creates a hub serving engine. Start matches use match for their
// defaults.
func NewHub(engine MatchService, cfg config.WebSocketConfig, match config.MatchConfig, logger *zap.Logger) (*Hub, error) {
	if engine == nil {
		return nil, errors.New("match service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	difficulty := game.DifficultyEasy
	if match.Difficulty != "" {
		parsed, err := game.ParseDifficulty(match.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("new hub: %w", err)
		}
		difficulty = parsed
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	h := &Hub{
		engine:   engine,
		cfg:      cfg,
		match:    match,
		defaults: difficulty,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan game.MatchNotification, 16),
		stopped:    make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
	engine.SetNotificationHandler(h.handleNotification)
	return h, nil
}

// Run serves registrations, engine events and the turn timer until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.TickInterval)
	defer ticker.Stop()
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("websocket client registered", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
				h.logger.Debug("websocket client unregistered", zap.Int("clients", len(h.clients)))
			}

		case n := <-h.events:
			msg := ServerMessage{Type: MsgEvent, Event: n.Type, MatchID: n.MatchID, Messages: n.Messages}
			for client := range h.clients {
				if client.MatchID() == n.MatchID {
					h.deliver(client, msg)
				}
			}

		case <-ticker.C:
			h.tick()
		}
	}
}

// tick forces timed-out turns to end and tells the players of those matches.
func (h *Hub) tick() {
	for client := range h.clients {
		matchID := client.MatchID()
		if matchID == "" {
			continue
		}
		log, err := h.engine.Tick(matchID)
		if err != nil || log.IsEmpty() {
			continue
		}
		h.deliver(client, h.result(MsgEndTurn, matchID, log))
	}
}

// handleNotification forwards the end of a match to its players. Other engine
// notifications duplicate what the result messages already carry.
func (h *Hub) handleNotification(n game.MatchNotification) {
	if n.Type != game.NotifyMatchOver && n.Type != game.NotifyMatchEnded {
		return
	}
	select {
	case h.events <- n:
	case <-h.stopped:
	}
}

// ServeHTTP upgrades the request and starts the connection's pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	if h.cfg.ReadLimit > 0 {
		conn.SetReadLimit(h.cfg.ReadLimit)
	}

	client := newClient(conn)
	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) readPump(client *Client) {
	defer func() {
		if matchID := client.setMatchID(""); matchID != "" {
			if err := h.engine.EndMatch(matchID); err != nil {
				h.logger.Debug("end match on disconnect", zap.String("match_id", matchID), zap.Error(err))
			}
		}
		select {
		case h.unregister <- client:
		case <-h.stopped:
		}
		client.conn.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.deliver(client, ServerMessage{Type: MsgError, Error: fmt.Sprintf("malformed message: %v", err)})
			continue
		}
		h.deliver(client, h.handleMessage(client, msg))
	}
}

func (h *Hub) writePump(client *Client) {
	defer client.conn.Close()

	for {
		select {
		case data := <-client.send:
			if h.cfg.WriteTimeout > 0 {
				_ = client.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				client.close()
				return
			}
		case <-client.done:
			_ = client.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}

// deliver queues msg for client, dropping it if the client is gone or too slow.
func (h *Hub) deliver(client *Client, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode websocket message", zap.Error(err))
		return
	}
	select {
	case client.send <- data:
	case <-client.done:
	default:
		h.logger.Warn("websocket client too slow, dropping message",
			zap.String("match_id", msg.MatchID),
			zap.String("type", msg.Type),
		)
	}
}

// handleMessage runs one client request against the engine.
func (h *Hub) handleMessage(client *Client, msg ClientMessage) ServerMessage {
	h.logger.Debug("websocket request", zap.String("type", msg.Type), zap.String("match_id", client.MatchID()))

	if msg.Type == MsgStart {
		return h.startMatch(client, msg)
	}

	matchID := client.MatchID()
	if matchID == "" {
		return h.failure(msg.Type, errNoMatch)
	}

	var (
		log *battle.Log
		err error
	)
	switch msg.Type {
	case MsgPlay:
		target, terr := msg.Target.target()
		if terr != nil {
			return h.failure(msg.Type, terr)
		}
		slot := math.MaxInt32
		if msg.Slot != nil {
			slot = *msg.Slot
		}
		log, err = h.engine.PlayCard(matchID, battle.SidePlayer, msg.HandIndex, target, slot)
	case MsgAttack:
		log, err = h.engine.Attack(matchID, battle.SidePlayer, msg.Attacker, msg.Defender)
	case MsgAttackHero:
		log, err = h.engine.AttackHero(matchID, battle.SidePlayer, msg.Attacker)
	case MsgEndTurn:
		log, err = h.engine.EndTurn(matchID, battle.SidePlayer)
	case MsgView:
	default:
		return h.failure(msg.Type, fmt.Errorf("unknown message type %q", msg.Type))
	}
	if err != nil {
		return h.failure(msg.Type, err)
	}
	return h.result(msg.Type, matchID, log)
}

func (h *Hub) startMatch(client *Client, msg ClientMessage) ServerMessage {
	difficulty := h.defaults
	if msg.Difficulty != "" {
		parsed, err := game.ParseDifficulty(msg.Difficulty)
		if err != nil {
			return h.failure(msg.Type, err)
		}
		difficulty = parsed
	}
	seed := msg.Seed
	if seed == 0 {
		seed = h.match.Seed
	}

	matchID, log, err := h.engine.StartMatch(game.MatchOptions{
		Difficulty:    difficulty,
		Seed:          seed,
		PlayerName:    msg.PlayerName,
		EnemyName:     msg.EnemyName,
		DeckSize:      h.match.DeckSize,
		TurnTimeLimit: h.match.TurnTimeLimit,
	})
	if err != nil {
		return h.failure(msg.Type, err)
	}

	if previous := client.setMatchID(matchID); previous != "" {
		if err := h.engine.EndMatch(previous); err != nil {
			h.logger.Debug("end replaced match", zap.String("match_id", previous), zap.Error(err))
		}
	}
	return h.result(msg.Type, matchID, log)
}

func (h *Hub) result(request, matchID string, log *battle.Log) ServerMessage {
	msg := ServerMessage{Type: MsgResult, Request: request, MatchID: matchID}
	if log != nil {
		msg.Messages = log.Messages()
	}
	view, err := h.engine.View(matchID)
	if err != nil {
		msg.Error = err.Error()
		return msg
	}
	msg.State = &view
	return msg
}

func (h *Hub) failure(request string, err error) ServerMessage {
	return ServerMessage{Type: MsgError, Request: request, Error: err.Error()}
}

func (t *TargetMessage) target() (targeting.Target, error) {
	if t == nil {
		return targeting.None(), nil
	}
	kind, err := targeting.ParseTargetType(t.Type)
	if err != nil {
		return targeting.Target{}, err
	}
	side := battle.NoSide
	if t.Side != "" {
		side, err = battle.ParseSide(strings.ToUpper(t.Side))
		if err != nil {
			return targeting.Target{}, err
		}
	}
	return targeting.Target{Type: kind, Side: side, Index: t.Index}, nil
}
