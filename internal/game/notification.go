package game

import "time"

// Notification types emitted by BattleEngine.
const (
	NotifyMatchStarted = "MATCH_STARTED"
	NotifyMatchUpdated = "MATCH_UPDATED"
	NotifyTurnChanged  = "TURN_CHANGED"
	NotifyMatchOver    = "MATCH_OVER"
	NotifyMatchEnded   = "MATCH_ENDED"
)

// MatchNotification is pushed to front ends after a match changes.
type MatchNotification struct {
	Type      string
	MatchID   string
	Timestamp time.Time
	Messages  []string
	GameOver  bool
	Winner    string
}

// NotificationHandler receives match notifications. It is called on its own
// goroutine and may call back into the engine.
type NotificationHandler func(notification MatchNotification)

// SetNotificationHandler sets the handler for match notifications.
func (e *BattleEngine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notificationHandler = handler
}

func (e *BattleEngine) emitNotification(notification MatchNotification) {
	e.mu.RLock()
	handler := e.notificationHandler
	e.mu.RUnlock()

	if handler != nil {
		go handler(notification)
	}
}
