package battle

import "time"

// CardView is a read-only copy of a card in hand.
type CardView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
	Taunt       bool   `json:"taunt"`
	Description string `json:"description"`
}

// UnitView is a read-only copy of a unit on the board.
type UnitView struct {
	InstanceID    string `json:"instance_id"`
	CardID        string `json:"card_id"`
	Name          string `json:"name"`
	Attack        int    `json:"attack"`
	CurrentHealth int    `json:"current_health"`
	MaxHealth     int    `json:"max_health"`
	Taunt         bool   `json:"taunt"`
	Charge        bool   `json:"charge"`
	CanAttack     bool   `json:"can_attack"`
}

// PlayerView is a read-only snapshot of one side.
type PlayerView struct {
	Side          string     `json:"side"`
	HeroName      string     `json:"hero_name"`
	HeroHealth    int        `json:"hero_health"`
	HeroMaxHealth int        `json:"hero_max_health"`
	Board         []UnitView `json:"board"`
	Hand          []CardView `json:"hand"`
	DeckCount     int        `json:"deck_count"`
	MaxMana       int        `json:"max_mana"`
	CurrentMana   int        `json:"current_mana"`
	FatigueDamage int        `json:"fatigue_damage"`
}

// MatchView is a read-only snapshot of the whole match.
type MatchView struct {
	MatchID       string        `json:"match_id"`
	Turn          int           `json:"turn"`
	CurrentSide   string        `json:"current_side"`
	Phase         string        `json:"phase"`
	RemainingTime time.Duration `json:"remaining_time"`
	GameOver      bool          `json:"game_over"`
	Winner        string        `json:"winner,omitempty"`
	Player        PlayerView    `json:"player"`
	Enemy         PlayerView    `json:"enemy"`
}

// Snapshot copies side's public state.
func (m *Match) Snapshot(side Side) PlayerView {
	p := m.players[side]
	if p == nil {
		return PlayerView{Side: side.String()}
	}

	view := PlayerView{
		Side:          side.String(),
		HeroName:      p.Hero.Name(),
		HeroHealth:    p.Hero.CurrentHealth(),
		HeroMaxHealth: p.Hero.MaxHealth(),
		Board:         make([]UnitView, 0, p.Board.Len()),
		Hand:          make([]CardView, 0, len(p.Hand)),
		DeckCount:     len(p.Deck),
		MaxMana:       p.Mana.Max(),
		CurrentMana:   p.Mana.Current(),
		FatigueDamage: p.FatigueDamage(),
	}
	for _, u := range p.Board.Units() {
		view.Board = append(view.Board, UnitView{
			InstanceID:    u.InstanceID,
			CardID:        u.Card.ID(),
			Name:          u.Name,
			Attack:        u.Attack,
			CurrentHealth: u.CurrentHealth,
			MaxHealth:     u.MaxHealth,
			Taunt:         u.Taunt,
			Charge:        u.Charge,
			CanAttack:     u.CanAttack(),
		})
	}
	for _, c := range p.Hand {
		view.Hand = append(view.Hand, CardView{
			ID:          c.ID(),
			Name:        c.Name(),
			Cost:        c.Cost(),
			Attack:      c.Attack(),
			Defense:     c.Defense(),
			Taunt:       c.HasTaunt(),
			Description: c.Description(),
		})
	}
	return view
}

// View copies the whole match.
func (m *Match) View() MatchView {
	view := MatchView{
		MatchID:       m.ID,
		Turn:          m.turnNumber,
		CurrentSide:   m.current.String(),
		Phase:         m.phase.String(),
		RemainingTime: m.RemainingTurnTime(),
		GameOver:      m.IsGameOver(),
		Player:        m.Snapshot(SidePlayer),
		Enemy:         m.Snapshot(SideEnemy),
	}
	if winner, ok := m.Winner(); ok {
		view.Winner = winner.String()
	}
	return view
}
